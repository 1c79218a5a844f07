// Package extract drives outline and table extraction for one document and
// assembles the per-document Result.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/thywilljoshua/pdf-structure/internal/heading"
	"github.com/thywilljoshua/pdf-structure/internal/layout"
	"github.com/thywilljoshua/pdf-structure/internal/logging"
	"github.com/thywilljoshua/pdf-structure/internal/outline"
	"github.com/thywilljoshua/pdf-structure/internal/script"
	"github.com/thywilljoshua/pdf-structure/internal/tables"
	"github.com/thywilljoshua/pdf-structure/internal/textnorm"
)

// ErrNoPages is returned for documents without a single page.
var ErrNoPages = errors.New("document contains no pages")

const (
	samplePages     = 3
	samplePageRunes = 1000
)

// Processor turns one opened document into a Result. It keeps no state
// between calls, but batch workers should still each own one.
type Processor struct {
	cfg Config
}

func NewProcessor(cfg Config) *Processor {
	cfg.MaxPages = PageLimit(cfg.MaxPages)
	return &Processor{cfg: cfg}
}

// Process extracts the outline and tables of doc. name is the document's
// file name and is used for the result's Filename and as the last-resort
// title. finder may be nil, in which case no tables are reported.
//
// An error is returned only when nothing can be extracted at all (the page
// count is unavailable or zero). Failures of the outline or table stage are
// recorded in Result.Errors instead.
func (p *Processor) Process(ctx context.Context, name string, doc layout.Document, finder layout.TableFinder) (*Result, error) {
	start := time.Now()
	log := logging.Logger().With(slog.String("file", filepath.Base(name)))

	n, err := doc.PageCount()
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	if n <= 0 {
		return nil, ErrNoPages
	}
	pages := min(n, p.cfg.MaxPages)
	log.Debug("processing pages", slog.Int("pages", pages), slog.Int("total", n))

	res := &Result{
		Direction: script.LTR,
		Errors:    []string{},
		Filename:  filepath.Base(name),
		Language:  script.Unknown,
		Outline:   []outline.Item{},
		PageCount: pages,
		Tables:    []Table{},
	}

	if md, err := doc.Metadata(); err != nil {
		log.Warn("failed to read metadata", slog.Any("error", err))
	} else {
		res.Title = textnorm.Normalize(md.Title)
	}

	sample := languageSample(log, doc, pages)
	res.Language = script.DetectLanguage(sample)
	res.Direction = script.TextDirection(sample)

	b := outline.Builder{PageLimit: pages, Language: res.Language}
	if items, err := b.Build(ctx, doc); err != nil {
		log.Warn("outline extraction failed", slog.Any("error", err))
		res.Errors = append(res.Errors, "Outline extraction: "+err.Error())
	} else {
		res.Outline = items
	}

	if finder != nil {
		ts, err := extractTables(log, finder, pages)
		res.Tables = append(res.Tables, ts...)
		if err != nil {
			log.Warn("table extraction failed", slog.Any("error", err))
			res.Errors = append(res.Errors, "Table extraction: "+err.Error())
		}
	}

	if res.Title == "" {
		res.Title = firstH1(res.Outline)
	}
	if res.Title == "" {
		res.Title = strings.TrimSuffix(res.Filename, filepath.Ext(res.Filename))
	}

	res.ProcessingTime = math.Round(time.Since(start).Seconds()*1000) / 1000
	log.Debug("extracted document",
		slog.Int("outline_items", len(res.Outline)),
		slog.Int("tables", len(res.Tables)),
		slog.String("language", string(res.Language)))
	return res, nil
}

// languageSample concatenates up to samplePageRunes normalized runes from
// each of the first samplePages pages.
func languageSample(log *slog.Logger, doc layout.Document, pages int) string {
	var b strings.Builder
	for page := 1; page <= min(samplePages, pages); page++ {
		text, err := doc.PageText(page)
		if err != nil {
			log.Warn("failed to sample page text", slog.Int("page", page), slog.Any("error", err))
			continue
		}
		b.WriteString(textnorm.Truncate(textnorm.Normalize(text), samplePageRunes))
	}
	return b.String()
}

// extractTables looks for tables page by page, trying the strict strategy
// first and the relaxed one when strict finds nothing. Page errors are
// skipped; any other error stops the scan and is returned along with the
// tables found so far.
func extractTables(log *slog.Logger, finder layout.TableFinder, pages int) ([]Table, error) {
	var out []Table
	for page := 1; page <= pages; page++ {
		cands, err := findTables(finder, page)
		if err != nil {
			var pe *layout.PageError
			if errors.As(err, &pe) {
				log.Warn("failed to extract tables from page", slog.Int("page", page), slog.Any("error", err))
				continue
			}
			return out, fmt.Errorf("page %d: %w", page, err)
		}
		for idx, c := range cands {
			g, ok := tables.Prepare(c.Rows)
			if !ok {
				log.Debug("discarding table candidate", slog.Int("page", page), slog.Int("index", idx))
				continue
			}
			s := tables.Analyze(g)
			headers, rows := g.Split(s)
			if headers == nil {
				headers = []string{}
			}
			out = append(out, Table{
				BBox:        c.BBox,
				ColumnCount: g.Columns(),
				Headers:     headers,
				Page:        page,
				RowCount:    len(rows),
				Rows:        rows,
				Structure:   s,
				TableIndex:  idx,
			})
		}
	}
	log.Debug("extracted tables", slog.Int("tables", len(out)))
	return out, nil
}

func findTables(finder layout.TableFinder, page int) ([]layout.TableCandidate, error) {
	cands, err := finder.FindTables(page, layout.Strict)
	if err != nil || len(cands) > 0 {
		return cands, err
	}
	return finder.FindTables(page, layout.Relaxed)
}

func firstH1(items []outline.Item) string {
	for _, it := range items {
		if it.Level == heading.H1 {
			return it.Text
		}
	}
	return ""
}
