// Package render writes extraction results as Markdown documents.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/thywilljoshua/pdf-structure/internal/extract"
	"github.com/thywilljoshua/pdf-structure/internal/outline"
)

// Markdown writes r with a front matter block, the outline as a nested list
// and every table as a Markdown table.
func Markdown(w io.Writer, r *extract.Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "---\ntitle: \"%s\"\nsource: \"%s\"\nlanguage: %s\ndirection: %s\npages: %d\n---\n\n",
		escapeQuotes(r.Title), escapeQuotes(r.Filename), r.Language, r.Direction, r.PageCount)
	b.WriteString("# ")
	b.WriteString(r.Title)
	b.WriteString("\n\n")

	if len(r.Outline) > 0 {
		b.WriteString("## Outline\n\n")
		writeNodes(&b, outline.Nest(r.Outline), 0)
		b.WriteString("\n")
	}

	for i, t := range r.Tables {
		fmt.Fprintf(&b, "## Table %d (page %d)\n\n", i+1, t.Page)
		writeTable(&b, t)
		b.WriteString("\n")
	}

	if len(r.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		for _, e := range r.Errors {
			b.WriteString("- ")
			b.WriteString(e)
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeNodes(b *strings.Builder, nodes []outline.Node, depth int) {
	for _, n := range nodes {
		fmt.Fprintf(b, "%s- %s (p. %d)\n", strings.Repeat("  ", depth), n.Item.Text, n.Item.Page)
		writeNodes(b, n.Children, depth+1)
	}
}

// writeTable uses the detected headers, or an empty header row when the
// table has none, since Markdown tables always need one.
func writeTable(b *strings.Builder, t extract.Table) {
	header := t.Headers
	if len(header) == 0 {
		header = make([]string, t.ColumnCount)
	}
	writeRow(b, header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(b, sep)
	for _, row := range t.Rows {
		writeRow(b, row)
	}
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(escapeCell(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", " ")

func escapeCell(s string) string { return cellEscaper.Replace(strings.TrimSpace(s)) }

func escapeQuotes(s string) string { return strings.ReplaceAll(s, "\"", "\\\"") }
