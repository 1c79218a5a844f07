package pdfsource

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/thywilljoshua/pdf-structure/internal/layout"
	"github.com/thywilljoshua/pdf-structure/internal/logging"
)

// Outline returns the document's bookmarks in reading order with 1-based
// depth and target page. rsc.io/pdf only tells whether an outline exists;
// pdfcpu parses it when it does, since it resolves destinations to pages.
func (d *Document) Outline(ctx context.Context) ([]layout.OutlineEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	has, err := d.hasOutline()
	if err != nil || !has {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	bms, err := readBookmarks(d.f)
	if err != nil {
		return nil, fmt.Errorf("bookmarks: %w", err)
	}
	entries := flattenBookmarks(bms, 1, nil)
	logging.Logger().Debug("read bookmarks", slog.String("file", d.path), slog.Int("entries", len(entries)))
	return entries, nil
}

func (d *Document) hasOutline() (has bool, err error) {
	defer recoverAs(&err, "outline")
	return len(d.r.Outline().Child) > 0, nil
}

func readBookmarks(rs io.ReadSeeker) ([]pdfcpu.Bookmark, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return nil, err
	}
	return pdfcpu.Bookmarks(ctx)
}

// flattenBookmarks walks the bookmark tree depth first.
func flattenBookmarks(bms []pdfcpu.Bookmark, depth int, out []layout.OutlineEntry) []layout.OutlineEntry {
	for _, bm := range bms {
		out = append(out, layout.OutlineEntry{Depth: depth, Title: bm.Title, Page: bm.PageFrom})
		out = flattenBookmarks(bm.Kids, depth+1, out)
	}
	return out
}
