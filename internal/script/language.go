// Package script guesses the dominant writing system and the bidirectional
// text direction of a text sample.
package script

import (
	"regexp"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/thywilljoshua/pdf-structure/internal/textnorm"
)

// Language is a coarse language tag derived from the script in use.
type Language string

const (
	Arabic   Language = "arabic"
	Chinese  Language = "chinese"
	Japanese Language = "japanese"
	Hebrew   Language = "hebrew"
	Russian  Language = "russian"
	English  Language = "english"
	Unknown  Language = "unknown"
)

// SampleSize is how many runes of a sample DetectLanguage looks at.
const SampleSize = 1000

var (
	arabicBlock   = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0600, Hi: 0x06FF, Stride: 1}}}
	cjkBlock      = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x4E00, Hi: 0x9FFF, Stride: 1}}}
	kanaBlocks    = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x3040, Hi: 0x309F, Stride: 1}, {Lo: 0x30A0, Hi: 0x30FF, Stride: 1}}}
	hebrewBlock   = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0590, Hi: 0x05FF, Stride: 1}}}
	cyrillicBlock = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0400, Hi: 0x04FF, Stride: 1}}}

	englishRun = regexp.MustCompile(`[a-z\s\p{Z}]{10,}`)
)

// Checked in order; the first block present in the sample wins.
var scriptOrder = []struct {
	lang  Language
	table *unicode.RangeTable
}{
	{Arabic, arabicBlock},
	{Chinese, cjkBlock},
	{Japanese, kanaBlocks},
	{Hebrew, hebrewBlock},
	{Russian, cyrillicBlock},
}

// DetectLanguage inspects the first SampleSize runes of sample, case-folded,
// and returns the first script whose block occurs in it. Latin text needs a
// run of at least ten lowercase letters or spaces to count as english.
func DetectLanguage(sample string) Language {
	if sample == "" {
		return Unknown
	}
	s := cases.Fold().String(textnorm.Truncate(sample, SampleSize))
	for _, sc := range scriptOrder {
		for _, r := range s {
			if unicode.Is(sc.table, r) {
				return sc.lang
			}
		}
	}
	if englishRun.MatchString(s) {
		return English
	}
	return Unknown
}
