package pdfsource

import (
	"math"
	"strings"

	"rsc.io/pdf"

	"github.com/thywilljoshua/pdf-structure/internal/layout"
)

// Glyph merging thresholds, as fractions of the font size.
const (
	lineTolerance = 0.3
	wordGap       = 0.15
	columnGap     = 3.0
	overlapGap    = -0.5
)

var boldMarkers = []string{"bold", "black", "heavy", "semibold", "demi"}

// run is a span under construction.
type run struct {
	font   string
	size   float64
	x0, x1 float64
	y      float64
	text   strings.Builder
}

func (r *run) accepts(g pdf.Text) bool {
	if g.Font != r.font || math.Abs(g.FontSize-r.size) > 0.01 {
		return false
	}
	if math.Abs(g.Y-r.y) > lineTolerance*r.size {
		return false
	}
	gap := g.X - r.x1
	return gap >= overlapGap*r.size && gap <= columnGap*r.size
}

func (r *run) add(g pdf.Text) {
	if g.X-r.x1 > wordGap*r.size && g.S != " " && !strings.HasSuffix(r.text.String(), " ") {
		r.text.WriteByte(' ')
	}
	r.text.WriteString(g.S)
	r.x1 = max(r.x1, g.X+g.W)
}

func (r *run) span(page int) layout.Span {
	name := baseFont(r.font)
	return layout.Span{
		Text:     r.text.String(),
		Page:     page,
		FontName: name,
		FontSize: r.size,
		Bold:     isBold(name),
		BBox:     layout.BBox{r.x0, r.y, r.x1, r.y + r.size},
	}
}

// mergeGlyphs joins the per-glyph text runs of a page into spans. A span
// ends at a change of font or size, a new line or a gap wide enough to be
// a column break. Glyphs are taken in content-stream order.
func mergeGlyphs(page int, glyphs []pdf.Text) []layout.Span {
	var (
		spans []layout.Span
		cur   *run
	)
	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if cur != nil && cur.accepts(g) {
			cur.add(g)
			continue
		}
		if cur != nil {
			spans = append(spans, cur.span(page))
		}
		cur = &run{font: g.Font, size: g.FontSize, x0: g.X, x1: g.X + g.W, y: g.Y}
		cur.text.WriteString(g.S)
	}
	if cur != nil {
		spans = append(spans, cur.span(page))
	}
	return spans
}

// joinSpans lays spans out as plain text: a space between spans on one
// baseline and a newline when the baseline moves.
func joinSpans(spans []layout.Span) string {
	var b strings.Builder
	for i, s := range spans {
		if i > 0 {
			prev := spans[i-1]
			if math.Abs(s.BBox[1]-prev.BBox[1]) > lineTolerance*max(s.FontSize, prev.FontSize) {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// baseFont strips the six-letter subset tag ("ABCDEF+Helvetica").
func baseFont(name string) string {
	if i := strings.IndexByte(name, '+'); i == 6 {
		return name[i+1:]
	}
	return name
}

func isBold(font string) bool {
	lower := strings.ToLower(font)
	for _, m := range boldMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
