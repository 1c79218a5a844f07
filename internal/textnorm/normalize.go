// Package textnorm canonicalizes extracted text so that comparisons and JSON
// output are stable across PDF producers.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	breakRuns = regexp.MustCompile(`[\r\n\t]+`)
	spaceRuns = regexp.MustCompile(` +`)
)

// Normalize returns raw in NFC with control and format characters removed,
// line breaks and tabs turned into single spaces, space runs collapsed and
// the ends trimmed. Invalid UTF-8 sequences are dropped. Normalize is
// idempotent.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := norm.NFC.String(strings.ToValidUTF8(raw, ""))
	s = strings.Map(dropControl, s)
	s = breakRuns.ReplaceAllString(s, " ")
	s = spaceRuns.ReplaceAllString(s, " ")
	// Removing a format character can leave a base letter next to a
	// combining mark, so compose again.
	s = norm.NFC.String(s)
	return strings.TrimSpace(s)
}

// dropControl removes every rune outside the assigned graphic, mark, number,
// punctuation, symbol and separator classes, keeping newline and tab.
func dropControl(r rune) rune {
	if r == '\n' || r == '\t' {
		return r
	}
	if unicode.In(r, unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z) {
		return r
	}
	return -1
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Len counts runes, which is what every length threshold in the pipeline uses.
func Len(s string) int {
	return len([]rune(s))
}
