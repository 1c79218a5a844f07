package extract

import (
	"log/slog"

	"github.com/thywilljoshua/pdf-structure/internal/tables"
)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func tablesStructure() tables.Structure {
	return tables.Structure{
		EmptyColumns:   []int{},
		HasHeader:      true,
		NumericColumns: []int{1},
		TextColumns:    []int{0},
	}
}
