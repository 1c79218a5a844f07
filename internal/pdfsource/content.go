package pdfsource

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/font"
	"rsc.io/pdf"
)

// defaultGlyphWidth is used when neither the font nor the core metrics know
// a glyph, in thousandths of the font size.
const defaultGlyphWidth = 500

type matrix [3][3]float64

var identity = matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func (x matrix) mul(y matrix) matrix {
	var z matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				z[i][j] += x[i][k] * y[k][j]
			}
		}
	}
	return z
}

func translate(tx, ty float64) matrix {
	return matrix{{1, 0, 0}, {0, 1, 0}, {tx, ty, 1}}
}

func (x matrix) apply(px, py float64) (float64, float64) {
	return px*x[0][0] + py*x[1][0] + x[2][0], px*x[0][1] + py*x[1][1] + x[2][1]
}

// textFont is the font selected by Tf, with the width source decided once.
type textFont struct {
	f         pdf.Font
	name      string
	enc       pdf.TextEncoding
	hasWidths bool
}

func newTextFont(f pdf.Font) textFont {
	tf := textFont{f: f, name: f.BaseFont(), hasWidths: f.V.Key("Widths").Len() > 0}
	if !f.V.IsNull() {
		tf.enc = f.Encoder()
	}
	return tf
}

// width returns the advance of code in thousandths of the font size.
// Standard fonts may omit /Widths; their advances come from the core font
// metrics instead.
func (tf textFont) width(code byte) float64 {
	if tf.hasWidths {
		return tf.f.Width(int(code))
	}
	return coreWidth(baseFont(tf.name), code)
}

func (tf textFont) decode(raw string) string {
	if tf.enc == nil {
		return raw
	}
	return tf.enc.Decode(raw)
}

// coreWidth looks code up in the metrics of the named standard font. Names
// outside the standard 14 are measured as the closest core family.
func coreWidth(name string, code byte) float64 {
	if !font.IsCoreFont(name) {
		name = coreFamily(name)
	}
	if w := font.CharWidth(name, rune(code)); w > 0 {
		return float64(w)
	}
	return defaultGlyphWidth
}

func coreFamily(name string) string {
	lower := strings.ToLower(name)
	bold := isBold(name)
	switch {
	case strings.Contains(lower, "courier") || strings.Contains(lower, "mono"):
		if bold {
			return "Courier-Bold"
		}
		return "Courier"
	case strings.Contains(lower, "times") || (strings.Contains(lower, "serif") && !strings.Contains(lower, "sans")):
		if bold {
			return "Times-Bold"
		}
		return "Times-Roman"
	case bold:
		return "Helvetica-Bold"
	}
	return "Helvetica"
}

type textState struct {
	Tc, Tw, Th, Tl float64
	Tf             textFont
	Tfs            float64
	Trise          float64
	Tm, Tlm, CTM   matrix
}

// readContent interprets the page's content streams into positioned glyphs
// and filled rectangles. The pen advances over every glyph, blanks
// included, so word gaps survive even though blanks are not emitted.
// Operators with the wrong operand count are ignored.
func readContent(p pdf.Page) pdf.Content {
	g := textState{Th: 1, CTM: identity}
	var (
		out    pdf.Content
		gstack []textState
	)

	showText := func(raw string) {
		n := 0
		for _, ch := range g.Tf.decode(raw) {
			var w0 float64
			if n < len(raw) {
				w0 = g.Tf.width(raw[n])
			}
			n++
			Trm := matrix{{g.Tfs * g.Th, 0, 0}, {0, g.Tfs, 0}, {0, g.Trise, 1}}.mul(g.Tm).mul(g.CTM)
			if ch != ' ' {
				out.Text = append(out.Text, pdf.Text{
					Font:     g.Tf.name,
					FontSize: Trm[0][0],
					X:        Trm[2][0],
					Y:        Trm[2][1],
					W:        w0 / 1000 * Trm[0][0],
					S:        string(ch),
				})
			}
			tx := w0/1000*g.Tfs + g.Tc
			if ch == ' ' {
				tx += g.Tw
			}
			g.Tm = translate(tx*g.Th, 0).mul(g.Tm)
		}
	}

	nextLine := func() {
		g.Tlm = translate(0, -g.Tl).mul(g.Tlm)
		g.Tm = g.Tlm
	}

	do := func(stk *pdf.Stack, op string) {
		args := make([]pdf.Value, stk.Len())
		for i := len(args) - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		num := func(i int) float64 { return args[i].Float64() }
		want := func(n int) bool { return len(args) == n }

		switch op {
		case "cm":
			if want(6) {
				g.CTM = matrixOf(args).mul(g.CTM)
			}
		case "re":
			if want(4) {
				x, y, w, h := num(0), num(1), num(2), num(3)
				x0, y0 := g.CTM.apply(x, y)
				x1, y1 := g.CTM.apply(x+w, y+h)
				out.Rect = append(out.Rect, pdf.Rect{Min: pdf.Point{X: x0, Y: y0}, Max: pdf.Point{X: x1, Y: y1}})
			}
		case "q":
			gstack = append(gstack, g)
		case "Q":
			if n := len(gstack) - 1; n >= 0 {
				g = gstack[n]
				gstack = gstack[:n]
			}
		case "BT":
			g.Tm = identity
			g.Tlm = identity
		case "T*":
			nextLine()
		case "Tc":
			if want(1) {
				g.Tc = num(0)
			}
		case "Tw":
			if want(1) {
				g.Tw = num(0)
			}
		case "Tz":
			if want(1) {
				g.Th = num(0) / 100
			}
		case "TL":
			if want(1) {
				g.Tl = num(0)
			}
		case "Ts":
			if want(1) {
				g.Trise = num(0)
			}
		case "TD", "Td":
			if want(2) {
				if op == "TD" {
					g.Tl = -num(1)
				}
				g.Tlm = translate(num(0), num(1)).mul(g.Tlm)
				g.Tm = g.Tlm
			}
		case "Tm":
			if want(6) {
				g.Tm = matrixOf(args)
				g.Tlm = g.Tm
			}
		case "Tf":
			if want(2) {
				g.Tf = newTextFont(p.Font(args[0].Name()))
				g.Tfs = num(1)
			}
		case "Tj":
			if want(1) {
				showText(args[0].RawString())
			}
		case "'":
			if want(1) {
				nextLine()
				showText(args[0].RawString())
			}
		case "\"":
			if want(3) {
				g.Tw, g.Tc = num(0), num(1)
				nextLine()
				showText(args[2].RawString())
			}
		case "TJ":
			if !want(1) {
				return
			}
			v := args[0]
			for i := 0; i < v.Len(); i++ {
				x := v.Index(i)
				if x.Kind() == pdf.String {
					showText(x.RawString())
					continue
				}
				g.Tm = translate(-x.Float64()/1000*g.Tfs*g.Th, 0).mul(g.Tm)
			}
		}
	}

	strm := p.V.Key("Contents")
	switch strm.Kind() {
	case pdf.Stream:
		pdf.Interpret(strm, do)
	case pdf.Array:
		for i := 0; i < strm.Len(); i++ {
			if part := strm.Index(i); part.Kind() == pdf.Stream {
				pdf.Interpret(part, do)
			}
		}
	}
	return out
}

func matrixOf(args []pdf.Value) matrix {
	var m matrix
	for i := 0; i < 6; i++ {
		m[i/2][i%2] = args[i].Float64()
	}
	m[2][2] = 1
	return m
}
