package outline

import "github.com/thywilljoshua/pdf-structure/internal/heading"

// Node is an outline item with the items nested under it.
type Node struct {
	Item     Item
	Children []Node
}

// Nest turns the flat outline into a tree: each item becomes a child of the
// closest preceding item with a coarser level. Items that have no such
// predecessor are roots.
func Nest(items []Item) []Node {
	nodes, _ := nest(items, 0, 0)
	return nodes
}

func nest(items []Item, i int, parent heading.Level) ([]Node, int) {
	var out []Node
	for i < len(items) && items[i].Level > parent {
		n := Node{Item: items[i]}
		n.Children, i = nest(items, i+1, items[i].Level)
		out = append(out, n)
	}
	return out, i
}
