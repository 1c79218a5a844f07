// Package heading scores text spans as heading candidates and assigns them
// a level from their font size relative to the body text.
package heading

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/thywilljoshua/pdf-structure/internal/layout"
	"github.com/thywilljoshua/pdf-structure/internal/script"
	"github.com/thywilljoshua/pdf-structure/internal/textnorm"
)

const (
	// MinConfidence is the score a span needs to become a heading.
	MinConfidence = 0.6

	MinLength = 2
	MaxLength = 200
)

// Stats are font size figures gathered over every span considered for
// the outline.
type Stats struct {
	AvgFontSize float64
	MaxFontSize float64
}

// Candidate is a span that cleared MinConfidence.
type Candidate struct {
	Text       string
	Page       int
	Level      Level
	Confidence float64
	FontSize   float64
}

type input struct {
	span  layout.Span
	stats Stats
}

type signal struct {
	name   string
	weight float64
	test   func(in input) bool
}

// Classifier holds the pattern set for one language. It is read-only after
// construction and can be shared.
type Classifier struct {
	patterns []*regexp.Regexp
	signals  []signal
}

func NewClassifier(lang script.Language) *Classifier {
	c := &Classifier{patterns: Patterns(lang)}
	c.signals = []signal{
		{"larger-font", 0.3, func(in input) bool { return in.span.FontSize > in.stats.AvgFontSize*1.2 }},
		{"much-larger-font", 0.2, func(in input) bool { return in.span.FontSize > in.stats.AvgFontSize*1.5 }},
		{"bold", 0.2, func(in input) bool { return in.span.Bold }},
		{"heading-text", 0.3, func(in input) bool { return IsLikelyHeading(in.span.Text) }},
		{"pattern", 0.2, func(in input) bool { return c.matchesPattern(in.span.Text) }},
		{"short", 0.1, func(in input) bool { return len(strings.Fields(in.span.Text)) <= 10 }},
		{"capitalized", 0.1, func(in input) bool {
			t := in.span.Text
			return (isUpper(t) && textnorm.Len(t) > 2) || isTitle(t)
		}},
	}
	return c
}

func (c *Classifier) matchesPattern(text string) bool {
	for _, p := range c.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Score sums the weights of every signal the span fires, capped at 1.
// Spans outside [MinLength, MaxLength] runes score 0.
func (c *Classifier) Score(span layout.Span, avgFontSize, maxFontSize float64) float64 {
	n := textnorm.Len(span.Text)
	if n < MinLength || n > MaxLength {
		return 0
	}
	in := input{span: span, stats: Stats{AvgFontSize: avgFontSize, MaxFontSize: maxFontSize}}
	var score float64
	for _, s := range c.signals {
		if s.test(in) {
			score += s.weight
		}
	}
	return clamp(score)
}

// Level ranks a heading by font size alone: more than 1.8x the average is
// H1, more than 1.4x is H2, anything else H3.
func (c *Classifier) Level(span layout.Span, avgFontSize float64) Level {
	switch {
	case span.FontSize > avgFontSize*1.8:
		return H1
	case span.FontSize > avgFontSize*1.4:
		return H2
	default:
		return H3
	}
}

// Classify scores span and reports whether it is a heading.
func (c *Classifier) Classify(span layout.Span, stats Stats) (Candidate, bool) {
	conf := c.Score(span, stats.AvgFontSize, stats.MaxFontSize)
	if conf < MinConfidence {
		return Candidate{}, false
	}
	return Candidate{
		Text:       span.Text,
		Page:       span.Page,
		Level:      c.Level(span, stats.AvgFontSize),
		Confidence: conf,
		FontSize:   span.FontSize,
	}, true
}

// IsLikelyHeading looks at the text alone: numbered or keyword prefixes, a
// trailing colon, or a short run of capitalized words.
func IsLikelyHeading(text string) bool {
	n := textnorm.Len(text)
	if n < MinLength || n > MaxLength {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range headingPrefixes {
		if p.MatchString(lower) {
			return true
		}
	}
	if strings.HasSuffix(strings.TrimRightFunc(text, unicode.IsSpace), ":") {
		return true
	}
	words := strings.Fields(text)
	if len(words) > 8 {
		return false
	}
	if wordsCapitalized(words) {
		return true
	}
	return isUpper(text) && n > 5
}

// wordsCapitalized reports whether every word of three or more runes starts
// with an uppercase letter. It is vacuously true when there are no such words.
func wordsCapitalized(words []string) bool {
	for _, w := range words {
		if textnorm.Len(w) <= 2 {
			continue
		}
		r := []rune(w)[0]
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// isUpper is true when s has at least one cased rune and none of them are
// lowercase or titlecase.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

// isTitle is true when every cased run starts with an uppercase rune
// followed only by lowercase ones, and there is at least one cased rune.
func isTitle(s string) bool {
	cased, prevCased := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r), unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
