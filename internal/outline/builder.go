// Package outline produces the leveled outline of a document, either from
// the document's own bookmarks or by scoring text spans as headings.
package outline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/thywilljoshua/pdf-structure/internal/heading"
	"github.com/thywilljoshua/pdf-structure/internal/layout"
	"github.com/thywilljoshua/pdf-structure/internal/logging"
	"github.com/thywilljoshua/pdf-structure/internal/script"
	"github.com/thywilljoshua/pdf-structure/internal/textnorm"
)

// Item is one outline entry.
type Item struct {
	Level heading.Level `json:"level"`
	Page  int           `json:"page"`
	Text  string        `json:"text"`
}

// Builder picks one of two paths per document. A built-in outline that
// survives filtering is used as is; the span analysis runs only when it
// yields nothing.
type Builder struct {
	// PageLimit bounds both paths. Pages are 1..PageLimit.
	PageLimit int
	// Language selects the heading patterns used by the analysis path.
	Language script.Language
}

func (b Builder) Build(ctx context.Context, doc layout.Document) ([]Item, error) {
	entries, err := doc.Outline(ctx)
	if err != nil {
		return nil, fmt.Errorf("built-in outline: %w", err)
	}
	if items := FromBuiltIn(entries, b.PageLimit); len(items) > 0 {
		logging.Logger().Debug("using built-in outline", slog.Int("items", len(items)))
		return items, nil
	}

	logging.Logger().Debug("no built-in outline, analyzing text structure")
	spans, err := CollectSpans(doc, b.PageLimit)
	if err != nil {
		return nil, err
	}
	return FromSpans(spans, b.Language), nil
}

// FromBuiltIn normalizes titles, drops entries with an empty title or a
// target page outside [1, pageLimit] and clamps depth onto H1..H3. Source
// order is kept.
func FromBuiltIn(entries []layout.OutlineEntry, pageLimit int) []Item {
	var out []Item
	for _, e := range entries {
		if e.Page < 1 || e.Page > pageLimit {
			continue
		}
		title := textnorm.Normalize(e.Title)
		if title == "" {
			continue
		}
		out = append(out, Item{Level: heading.LevelForDepth(e.Depth), Text: title, Page: e.Page})
	}
	return out
}

// CollectSpans gathers spans from pages 1..pageLimit. A page that fails
// with a *layout.PageError is logged and skipped; any other error aborts.
func CollectSpans(doc layout.Document, pageLimit int) ([]layout.Span, error) {
	var spans []layout.Span
	for page := 1; page <= pageLimit; page++ {
		ps, err := doc.PageSpans(page)
		if err != nil {
			var pe *layout.PageError
			if errors.As(err, &pe) {
				logging.Logger().Warn("failed to process page", slog.Int("page", page), slog.Any("error", err))
				continue
			}
			return nil, fmt.Errorf("spans for page %d: %w", page, err)
		}
		spans = append(spans, ps...)
	}
	return spans, nil
}

// FromSpans scores every span and keeps the headings. Headings are ordered
// by page, then by ascending font size, so smaller headings come first
// within a page.
func FromSpans(spans []layout.Span, lang script.Language) []Item {
	var (
		clean []layout.Span
		sum   float64
		n     int
		stats heading.Stats
	)
	for _, s := range spans {
		s.Text = textnorm.Normalize(s.Text)
		if s.Text == "" {
			continue
		}
		clean = append(clean, s)
		if s.FontSize > 0 {
			sum += s.FontSize
			n++
			if s.FontSize > stats.MaxFontSize {
				stats.MaxFontSize = s.FontSize
			}
		}
	}
	if n == 0 {
		return []Item{}
	}
	stats.AvgFontSize = sum / float64(n)

	c := heading.NewClassifier(lang)
	var cands []heading.Candidate
	for _, s := range clean {
		if cand, ok := c.Classify(s, stats); ok {
			cands = append(cands, cand)
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Page != cands[j].Page {
			return cands[i].Page < cands[j].Page
		}
		return cands[i].FontSize < cands[j].FontSize
	})

	items := make([]Item, 0, len(cands))
	for _, c := range cands {
		items = append(items, Item{Level: c.Level, Text: c.Text, Page: c.Page})
	}
	return items
}
