package script

import "golang.org/x/text/unicode/bidi"

// Direction is the dominant writing direction of a piece of text.
type Direction string

const (
	LTR   Direction = "ltr"
	RTL   Direction = "rtl"
	Mixed Direction = "mixed"
)

// TextDirection counts runes with a strong bidi class. R and AL count as
// right-to-left, L as left-to-right; everything else is ignored. Text with no
// strong runes is ltr.
func TextDirection(text string) Direction {
	var rtl, ltr int
	for _, r := range text {
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.R, bidi.AL:
			rtl++
		case bidi.L:
			ltr++
		}
	}
	if rtl+ltr == 0 {
		return LTR
	}
	ratio := float64(rtl) / float64(rtl+ltr)
	switch {
	case ratio > 0.8:
		return RTL
	case ratio < 0.2:
		return LTR
	default:
		return Mixed
	}
}
