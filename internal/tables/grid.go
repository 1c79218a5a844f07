package tables

import "github.com/thywilljoshua/pdf-structure/internal/textnorm"

const (
	MinRows    = 2
	MinColumns = 2
)

// Prepare drops blank rows, normalizes every cell and pads short rows to
// the widest one. It reports false when what is left is smaller than
// MinRows by MinColumns, in which case the candidate is not a table.
func Prepare(raw [][]string) (Grid, bool) {
	var g Grid
	for _, row := range raw {
		if blankRow(row) {
			continue
		}
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = textnorm.Normalize(c)
		}
		g = append(g, cells)
	}
	if len(g) < MinRows {
		return nil, false
	}
	g = Standardize(g)
	if g.Columns() < MinColumns {
		return nil, false
	}
	return g, true
}

// Standardize right-pads every row with empty cells to the widest row's
// length. The input is not modified.
func Standardize(g Grid) Grid {
	width := 0
	for _, row := range g {
		width = max(width, len(row))
	}
	out := make(Grid, len(g))
	for i, row := range g {
		r := make([]string, width)
		copy(r, row)
		out[i] = r
	}
	return out
}

// Columns is the width of the first row; grids from Standardize are
// rectangular.
func (g Grid) Columns() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Split returns the header row (nil when there is none) and the data rows.
func (g Grid) Split(s Structure) (headers []string, rows [][]string) {
	if s.HasHeader && len(g) > 0 {
		return g[0], g[1:]
	}
	return nil, g
}
