package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thywilljoshua/pdf-structure/internal/heading"
)

func TestNest(t *testing.T) {
	items := []Item{
		{Level: heading.H2, Text: "Preface", Page: 1},
		{Level: heading.H1, Text: "Part One", Page: 2},
		{Level: heading.H3, Text: "Detail", Page: 2},
		{Level: heading.H2, Text: "Chapter", Page: 3},
		{Level: heading.H3, Text: "Section", Page: 4},
		{Level: heading.H1, Text: "Part Two", Page: 5},
	}

	got := Nest(items)
	want := []Node{
		{Item: items[0]},
		{Item: items[1], Children: []Node{
			{Item: items[2]},
			{Item: items[3], Children: []Node{{Item: items[4]}}},
		}},
		{Item: items[5]},
	}
	assert.Equal(t, want, got)
}

func TestNest_Empty(t *testing.T) {
	assert.Empty(t, Nest(nil))
}
