package pdfsource

import (
	"math"
	"sort"
	"strings"

	"github.com/tidwall/rtree"
	"rsc.io/pdf"

	"github.com/thywilljoshua/pdf-structure/internal/layout"
)

const (
	// ruleThickness is the widest a rectangle can be and still count as a
	// drawn rule.
	ruleThickness = 2.0
	// snapTolerance merges nearly equal line positions and lets edges that
	// almost touch join one lattice.
	snapTolerance = 3.0
	// minLines is the number of distinct lines per axis of a 2x2 lattice.
	minLines = 3
)

type edge struct {
	vertical bool
	pos      float64 // x for vertical edges, y for horizontal ones
	lo, hi   float64
}

func (e edge) crosses(o edge) bool {
	if e.vertical == o.vertical {
		return e.pos >= o.pos-snapTolerance && e.pos <= o.pos+snapTolerance &&
			e.lo <= o.hi+snapTolerance && o.lo <= e.hi+snapTolerance
	}
	return e.pos >= o.lo-snapTolerance && e.pos <= o.hi+snapTolerance &&
		o.pos >= e.lo-snapTolerance && o.pos <= e.hi+snapTolerance
}

// edgesFrom turns drawn rectangles into line segments. Thin rectangles are
// rules and are always used; with the relaxed strategy the four sides of
// every other rectangle count too.
func edgesFrom(rects []pdf.Rect, strategy layout.Strategy) []edge {
	var edges []edge
	for _, r := range rects {
		x0, x1 := math.Min(r.Min.X, r.Max.X), math.Max(r.Min.X, r.Max.X)
		y0, y1 := math.Min(r.Min.Y, r.Max.Y), math.Max(r.Min.Y, r.Max.Y)
		w, h := x1-x0, y1-y0
		switch {
		case h <= ruleThickness && w > h:
			edges = append(edges, edge{pos: (y0 + y1) / 2, lo: x0, hi: x1})
		case w <= ruleThickness && h > w:
			edges = append(edges, edge{vertical: true, pos: (x0 + x1) / 2, lo: y0, hi: y1})
		case strategy == layout.Relaxed && w > ruleThickness && h > ruleThickness:
			edges = append(edges,
				edge{pos: y0, lo: x0, hi: x1},
				edge{pos: y1, lo: x0, hi: x1},
				edge{vertical: true, pos: x0, lo: y0, hi: y1},
				edge{vertical: true, pos: x1, lo: y0, hi: y1},
			)
		}
	}
	return edges
}

// components groups edges that cross or touch, directly or through other
// edges.
func components(edges []edge) [][]edge {
	parent := make([]int, len(edges))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	for i := range edges {
		for j := i + 1; j < len(edges); j++ {
			if edges[i].crosses(edges[j]) {
				parent[find(i)] = find(j)
			}
		}
	}

	groups := make(map[int][]edge)
	var roots []int
	for i, e := range edges {
		root := find(i)
		if _, ok := groups[root]; !ok {
			roots = append(roots, root)
		}
		groups[root] = append(groups[root], e)
	}
	out := make([][]edge, 0, len(roots))
	for _, root := range roots {
		out = append(out, groups[root])
	}
	return out
}

// snap sorts positions and merges runs closer than snapTolerance into
// their mean.
func snap(positions []float64) []float64 {
	if len(positions) == 0 {
		return nil
	}
	ps := append([]float64(nil), positions...)
	sort.Float64s(ps)
	var (
		out        []float64
		sum        = ps[0]
		n          = 1
		clusterEnd = ps[0]
	)
	for _, p := range ps[1:] {
		if p-clusterEnd <= snapTolerance {
			sum += p
			n++
			clusterEnd = p
			continue
		}
		out = append(out, sum/float64(n))
		sum, n, clusterEnd = p, 1, p
	}
	return append(out, sum/float64(n))
}

// lattice is a grid of cell boundaries. xs ascend left to right, ys ascend
// bottom to top as in PDF user space.
type lattice struct {
	xs, ys []float64
}

func latticeOf(edges []edge) (lattice, bool) {
	var xs, ys []float64
	for _, e := range edges {
		if e.vertical {
			xs = append(xs, e.pos)
		} else {
			ys = append(ys, e.pos)
		}
	}
	l := lattice{xs: snap(xs), ys: snap(ys)}
	return l, len(l.xs) >= minLines && len(l.ys) >= minLines
}

func (l lattice) bbox() layout.BBox {
	return layout.BBox{l.xs[0], l.ys[0], l.xs[len(l.xs)-1], l.ys[len(l.ys)-1]}
}

// glyphIndex is an R-tree of glyph centres; values index into the page's
// glyph slice.
type glyphIndex struct {
	glyphs []pdf.Text
	tr     rtree.RTreeG[int]
}

func newGlyphIndex(glyphs []pdf.Text) *glyphIndex {
	idx := &glyphIndex{glyphs: glyphs}
	for i, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			continue
		}
		c := [2]float64{g.X + g.W/2, g.Y + g.FontSize/3}
		idx.tr.Insert(c, c, i)
	}
	return idx
}

// cellText returns the text of the glyphs centred inside the box, read top
// to bottom and left to right. Glyphs at the same position keep content
// stream order.
func (idx *glyphIndex) cellText(x0, y0, x1, y1 float64) string {
	var ids []int
	idx.tr.Search([2]float64{x0, y0}, [2]float64{x1, y1}, func(_, _ [2]float64, i int) bool {
		ids = append(ids, i)
		return true
	})
	if len(ids) == 0 {
		return ""
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := idx.glyphs[ids[i]], idx.glyphs[ids[j]]
		if a.Y != b.Y {
			return a.Y > b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return ids[i] < ids[j]
	})
	hits := make([]pdf.Text, len(ids))
	for k, i := range ids {
		hits[k] = idx.glyphs[i]
	}

	spans := mergeGlyphs(0, hits)
	parts := make([]string, 0, len(spans))
	for _, s := range spans {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}

func (l lattice) rows(idx *glyphIndex) [][]string {
	rows := make([][]string, 0, len(l.ys)-1)
	for r := len(l.ys) - 1; r > 0; r-- {
		row := make([]string, 0, len(l.xs)-1)
		for c := 0; c+1 < len(l.xs); c++ {
			row = append(row, idx.cellText(l.xs[c], l.ys[r-1], l.xs[c+1], l.ys[r]))
		}
		rows = append(rows, row)
	}
	return rows
}

// findLattices detects ruled tables on one page. Candidates are ordered top
// to bottom, then left to right.
func findLattices(glyphs []pdf.Text, rects []pdf.Rect, strategy layout.Strategy) []layout.TableCandidate {
	edges := edgesFrom(rects, strategy)
	if len(edges) == 0 {
		return nil
	}
	var lats []lattice
	for _, comp := range components(edges) {
		if l, ok := latticeOf(comp); ok {
			lats = append(lats, l)
		}
	}
	if len(lats) == 0 {
		return nil
	}
	sort.SliceStable(lats, func(i, j int) bool {
		ti, tj := lats[i].ys[len(lats[i].ys)-1], lats[j].ys[len(lats[j].ys)-1]
		if ti != tj {
			return ti > tj
		}
		return lats[i].xs[0] < lats[j].xs[0]
	})

	idx := newGlyphIndex(glyphs)
	out := make([]layout.TableCandidate, 0, len(lats))
	for _, l := range lats {
		out = append(out, layout.TableCandidate{Rows: l.rows(idx), BBox: l.bbox()})
	}
	return out
}
