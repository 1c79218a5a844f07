package extract

import (
	"github.com/thywilljoshua/pdf-structure/internal/layout"
	"github.com/thywilljoshua/pdf-structure/internal/outline"
	"github.com/thywilljoshua/pdf-structure/internal/script"
	"github.com/thywilljoshua/pdf-structure/internal/tables"
)

// Fields are declared in JSON key order so that the encoder emits sorted keys.

// Result is everything extracted from one document.
type Result struct {
	Direction      script.Direction `json:"direction"`
	Errors         []string         `json:"errors"`
	Filename       string           `json:"filename"`
	Language       script.Language  `json:"language"`
	Outline        []outline.Item   `json:"outline"`
	PageCount      int              `json:"page_count"`
	ProcessingTime float64          `json:"processing_time"`
	Tables         []Table          `json:"tables"`
	Title          string           `json:"title"`
}

// Table is one accepted table. TableIndex is the candidate's position among
// the candidates found on its page, counting discarded ones.
type Table struct {
	BBox        layout.BBox      `json:"bbox"`
	ColumnCount int              `json:"column_count"`
	Headers     []string         `json:"headers"`
	Page        int              `json:"page"`
	RowCount    int              `json:"row_count"`
	Rows        [][]string       `json:"rows"`
	Structure   tables.Structure `json:"structure"`
	TableIndex  int              `json:"table_index"`
}

type Config struct {
	// MaxPages bounds how many pages of a document are looked at.
	MaxPages int
}

const DefaultMaxPages = 50

// PageLimit returns n, or DefaultMaxPages when n is not positive.
func PageLimit(n int) int {
	if n <= 0 {
		return DefaultMaxPages
	}
	return n
}
