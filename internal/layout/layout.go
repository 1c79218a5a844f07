// Package layout defines what the structure-inference core consumes from a
// page-layout extractor and a table-geometry detector. Page numbers are
// 1-based throughout.
package layout

import (
	"context"
	"fmt"
)

// BBox is (x0, y0, x1, y1) in page units.
type BBox [4]float64

// Span is a run of text sharing one font and style on a page.
type Span struct {
	Text     string
	Page     int
	FontName string
	FontSize float64
	Bold     bool
	BBox     BBox
}

// OutlineEntry is one item of a document's built-in outline (bookmarks).
type OutlineEntry struct {
	Depth int
	Title string
	Page  int
}

type Metadata struct {
	Title string
}

// Document is the page-layout extractor for one opened document.
type Document interface {
	PageCount() (int, error)
	Metadata() (Metadata, error)
	Outline(ctx context.Context) ([]OutlineEntry, error)
	PageSpans(page int) ([]Span, error)
	PageText(page int) (string, error)
}

// Strategy selects how aggressively table geometry is matched.
type Strategy int

const (
	Strict Strategy = iota
	Relaxed
)

func (s Strategy) String() string {
	switch s {
	case Strict:
		return "strict"
	case Relaxed:
		return "relaxed"
	default:
		return "unknown"
	}
}

// TableCandidate is a raw grid of cell strings found on a page.
type TableCandidate struct {
	Rows [][]string
	BBox BBox
}

// TableFinder is the table-geometry detector.
type TableFinder interface {
	FindTables(page int, strategy Strategy) ([]TableCandidate, error)
}

// PageError reports a failure confined to a single page. Callers skip the
// page and carry on with the rest of the document.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }
