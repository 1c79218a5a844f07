// Package ai asks a language model for a document outline. It is used only
// when a PDF carries no bookmarks of its own.
package ai

import (
	"context"
	"log/slog"

	"github.com/thywilljoshua/pdf-structure/internal/layout"
	"github.com/thywilljoshua/pdf-structure/internal/logging"
)

type Section struct {
	Title     string `json:"title"`
	Depth     int    `json:"depth"`
	StartPage int    `json:"start_page"`
}

type StructuredOutline struct {
	Sections []Section `json:"sections"`
}

// Entries converts sections to outline entries. Depth below 1 is raised to 1.
func (o StructuredOutline) Entries() []layout.OutlineEntry {
	out := make([]layout.OutlineEntry, 0, len(o.Sections))
	for _, s := range o.Sections {
		out = append(out, layout.OutlineEntry{Depth: max(s.Depth, 1), Title: s.Title, Page: s.StartPage})
	}
	return out
}

type Outliner interface {
	ExtractOutline(ctx context.Context, pdfPath string, maxPages int) ([]layout.OutlineEntry, error)
}

type Noop struct{}

func (Noop) ExtractOutline(ctx context.Context, pdfPath string, maxPages int) ([]layout.OutlineEntry, error) {
	return nil, nil
}

// WithOutliner wraps doc so that Outline falls back to o when the file has
// no bookmarks. Provider failures are logged and reported as an empty
// outline, which leaves the heading analysis in charge. A nil or Noop
// outliner returns doc unchanged.
func WithOutliner(doc layout.Document, pdfPath string, maxPages int, o Outliner) layout.Document {
	switch o.(type) {
	case nil, Noop:
		return doc
	}
	return &outlinedDocument{Document: doc, path: pdfPath, maxPages: maxPages, outliner: o}
}

type outlinedDocument struct {
	layout.Document
	path     string
	maxPages int
	outliner Outliner
}

func (d *outlinedDocument) Outline(ctx context.Context) ([]layout.OutlineEntry, error) {
	entries, err := d.Document.Outline(ctx)
	if err != nil || len(entries) > 0 {
		return entries, err
	}
	entries, err = d.outliner.ExtractOutline(ctx, d.path, d.maxPages)
	if err != nil {
		logging.Logger().Warn("model outline failed", slog.String("file", d.path), slog.Any("error", err))
		return nil, nil
	}
	logging.Logger().Debug("using model outline", slog.String("file", d.path), slog.Int("entries", len(entries)))
	return entries, nil
}
