package heading

import (
	"regexp"

	"github.com/thywilljoshua/pdf-structure/internal/script"
)

// Scoring patterns per language. The table is built once and never written
// afterwards; languages without an entry use the english set.
var patternSets = map[script.Language][]*regexp.Regexp{
	script.English: {
		regexp.MustCompile(`(?i)^(chapter|section|part)[\s\p{Z}]+\p{Nd}+`),
		regexp.MustCompile(`(?i)^\p{Nd}+\.?[\s\p{Z}]+[A-Z]`),
		regexp.MustCompile(`(?i)^[A-Z][A-Z\s\p{Z}]{2,}$`),
		regexp.MustCompile(`(?i)^[A-Z][a-z]+([\s\p{Z}]+[A-Z][a-z]+)*$`),
		regexp.MustCompile(`^[IVXLCDM]+\.[\s\p{Z}]`),
		regexp.MustCompile(`^[A-Z](?:\.\p{Nd}+)*\.[\s\p{Z}]`),
		regexp.MustCompile(`(?i)^appendix[\s\p{Z}]+[A-Z0-9]`),
	},
	script.Arabic: {
		regexp.MustCompile(`^(الفصل|القسم|الجزء)[\s\p{Z}]+\p{Nd}+`),
		regexp.MustCompile(`^\p{Nd}+\.?[\s\p{Z}]+[\x{0600}-\x{06FF}]`),
		regexp.MustCompile(`^[\x{0600}-\x{06FF}\s\p{Z}]{3,}$`),
	},
	script.Chinese: {
		regexp.MustCompile(`^第[一二三四五六七八九十\p{Nd}]+章`),
		regexp.MustCompile(`^第[一二三四五六七八九十\p{Nd}]+节`),
		regexp.MustCompile(`^[\x{4E00}-\x{9FFF}\s\p{Z}]{2,}$`),
	},
	script.Japanese: {
		regexp.MustCompile(`^第[一二三四五六七八九十\p{Nd}]+章`),
		regexp.MustCompile(`^[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FFF}\s\p{Z}]{2,}$`),
	},
}

// Patterns returns the scoring patterns for lang.
func Patterns(lang script.Language) []*regexp.Regexp {
	if p, ok := patternSets[lang]; ok {
		return p
	}
	return patternSets[script.English]
}

// Prefix patterns used by IsLikelyHeading. They run against lowercased text.
var headingPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`^\p{Nd}+\.?[\s\p{Z}]`),
	regexp.MustCompile(`^[ivx]+\.?[\s\p{Z}]`),
	regexp.MustCompile(`^[a-z]\.?[\s\p{Z}]`),
	regexp.MustCompile(`^(chapter|section|part|appendix|introduction|conclusion)[\s\p{Z}]+`),
	regexp.MustCompile(`^(الفصل|القسم|الجزء|المقدمة|الخاتمة)[\s\p{Z}]+`),
	regexp.MustCompile(`^(第.*章|第.*节|附录)`),
}
