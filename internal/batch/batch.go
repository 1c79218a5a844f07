// Package batch processes every PDF in a directory and writes one result
// file per document.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thywilljoshua/pdf-structure/internal/ai"
	"github.com/thywilljoshua/pdf-structure/internal/extract"
	"github.com/thywilljoshua/pdf-structure/internal/layout"
	"github.com/thywilljoshua/pdf-structure/internal/logging"
	"github.com/thywilljoshua/pdf-structure/internal/pdfsource"
	"github.com/thywilljoshua/pdf-structure/internal/render"
)

type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or markdown)", s)
	}
}

func (f Format) ext() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return ".json"
}

// Source is an opened PDF as the runner needs it.
type Source interface {
	layout.Document
	layout.TableFinder
	io.Closer
}

type OpenFunc func(path string) (Source, error)

func openPDF(path string) (Source, error) {
	doc, err := pdfsource.Open(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

type Config struct {
	InputDir  string
	OutputDir string
	MaxPages  int
	Workers   int
	Format    Format
	// Outliner supplies an outline for documents without bookmarks. Nil
	// and ai.Noop disable it.
	Outliner ai.Outliner
	// Open defaults to pdfsource.Open.
	Open OpenFunc
}

type Failure struct {
	File string
	Err  error
}

type Summary struct {
	Total     int
	Processed int
	Failed    []Failure
	Elapsed   time.Duration
}

type Runner struct {
	cfg Config
}

// New checks that the input directory exists and creates the output
// directory.
func New(cfg Config) (*Runner, error) {
	st, err := os.Stat(cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("input directory: %s is not a directory", cfg.InputDir)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}
	cfg.MaxPages = extract.PageLimit(cfg.MaxPages)
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}
	if cfg.Open == nil {
		cfg.Open = openPDF
	}
	return &Runner{cfg: cfg}, nil
}

// FindPDFs lists the files in dir with a .pdf extension in any case,
// sorted by name. Subdirectories are not searched.
func FindPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}

// Run processes every PDF of the input directory with at most Workers
// documents in flight. A failing document does not stop the others; the
// returned error is reserved for problems with the directory itself or a
// cancelled context.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	log := logging.Logger()

	files, err := FindPDFs(r.cfg.InputDir)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Total: len(files)}
	if len(files) == 0 {
		log.Warn("no PDF files found", slog.String("dir", r.cfg.InputDir))
		return sum, nil
	}
	log.Info("processing documents", slog.Int("files", len(files)), slog.Int("workers", r.cfg.Workers))

	procs := make(chan *extract.Processor, r.cfg.Workers)
	for i := 0; i < r.cfg.Workers; i++ {
		procs <- extract.NewProcessor(extract.Config{MaxPages: r.cfg.MaxPages})
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(r.cfg.Workers)
	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			proc := <-procs
			defer func() { procs <- proc }()

			err := r.processFile(ctx, proc, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error("failed to process document", slog.String("file", filepath.Base(path)), slog.Any("error", err))
				sum.Failed = append(sum.Failed, Failure{File: path, Err: err})
				return nil
			}
			sum.Processed++
			return nil
		})
	}
	err = g.Wait()

	sort.Slice(sum.Failed, func(i, j int) bool { return sum.Failed[i].File < sum.Failed[j].File })
	sum.Elapsed = time.Since(start)
	log.Info("batch finished",
		slog.Int("processed", sum.Processed),
		slog.Int("failed", len(sum.Failed)),
		slog.Duration("elapsed", sum.Elapsed))
	return sum, err
}

func (r *Runner) processFile(ctx context.Context, proc *extract.Processor, path string) (err error) {
	start := time.Now()
	src, err := r.cfg.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	doc := ai.WithOutliner(src, path, r.cfg.MaxPages, r.cfg.Outliner)
	res, err := proc.Process(ctx, path, doc, src)
	if err != nil {
		return err
	}

	out, err := Encode(res, r.cfg.Format)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dst := filepath.Join(r.cfg.OutputDir, stem+r.cfg.Format.ext())
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return err
	}

	logging.Logger().Info("processed document",
		slog.String("file", filepath.Base(path)),
		slog.String("output", dst),
		slog.Int("pages", res.PageCount),
		slog.Int("outline_items", len(res.Outline)),
		slog.Int("tables", len(res.Tables)),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// Encode renders res in the given format.
func Encode(res *extract.Result, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return extract.Marshal(res)
	case FormatMarkdown:
		var buf bytes.Buffer
		if err := render.Markdown(&buf, res); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.New("unknown format " + string(f))
	}
}
