// Package tables infers header presence and column types for grids of
// extracted cell strings.
package tables

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Grid is a table as rows of cell strings.
type Grid [][]string

// Structure describes a grid. The three column sets are sorted, disjoint and
// together cover every column of an analyzed grid.
type Structure struct {
	EmptyColumns   []int `json:"empty_columns"`
	HasHeader      bool  `json:"has_header"`
	NumericColumns []int `json:"numeric_columns"`
	TextColumns    []int `json:"text_columns"`
}

// NumericRatio is the share of numeric values a column needs to be numeric.
const NumericRatio = 0.7

// Plain unsigned decimals only: no sign, grouping, exponent or unit.
var numericValue = regexp.MustCompile(`^\p{Nd}+\.?\p{Nd}*$`)

func emptyStructure() Structure {
	return Structure{EmptyColumns: []int{}, NumericColumns: []int{}, TextColumns: []int{}}
}

// Analyze detects a header row and types each column. Grids with fewer than
// two non-blank rows get an empty structure with no header.
func Analyze(g Grid) Structure {
	s := emptyStructure()
	if nonBlankRows(g) < 2 || len(g[0]) == 0 {
		return s
	}
	cols := len(g[0])
	s.HasHeader = headerScore(g[0], g[1]) > float64(cols)*0.6

	body := g
	if s.HasHeader {
		body = g[1:]
	}
	for col := 0; col < cols; col++ {
		var values []string
		for _, row := range body {
			if col < len(row) && strings.TrimSpace(row[col]) != "" {
				values = append(values, strings.TrimSpace(row[col]))
			}
		}
		switch {
		case len(values) == 0:
			s.EmptyColumns = append(s.EmptyColumns, col)
		case numericShare(values) > NumericRatio:
			s.NumericColumns = append(s.NumericColumns, col)
		default:
			s.TextColumns = append(s.TextColumns, col)
		}
	}
	return s
}

// headerScore adds, for every non-empty cell of the first row, 1 when it has
// no digit, 0.5 when it is shorter than 50 runes and 1 when it has no digit
// but the cell below it does.
func headerScore(first, second []string) float64 {
	var score float64
	for i, cell := range first {
		if cell == "" {
			continue
		}
		if !hasDigit(cell) {
			score++
		}
		if utf8.RuneCountInString(cell) < 50 {
			score += 0.5
		}
		if i < len(second) && second[i] != "" && !hasDigit(cell) && hasDigit(second[i]) {
			score++
		}
	}
	return score
}

func numericShare(values []string) float64 {
	n := 0
	for _, v := range values {
		if numericValue.MatchString(v) {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func nonBlankRows(g Grid) int {
	n := 0
	for _, row := range g {
		if !blankRow(row) {
			n++
		}
	}
	return n
}
