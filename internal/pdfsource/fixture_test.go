package pdfsource

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf-structure/internal/layout"
)

// reportContent draws a bold heading, a body line and a ruled 3x3 table
// whose cells are filled with Helvetica text.
func reportContent() string {
	var b strings.Builder
	b.WriteString("BT /F2 18 Tf 72 720 Td (Chapter 1: Introduction) Tj ET\n")
	b.WriteString("BT /F1 10 Tf 72 690 Td (This is body text of the fixture.) Tj ET\n")
	for _, x := range []float64{100, 200, 300, 400} {
		fmt.Fprintf(&b, "%.2f 400 0.5 90 re\n", x-0.25)
	}
	for _, y := range []float64{400, 430, 460, 490} {
		fmt.Fprintf(&b, "100 %.2f 300 0.5 re\n", y-0.25)
	}
	b.WriteString("f\n")
	cells := [][]string{
		{"Name", "Qty", "Price"},
		{"Apple", "3", "1.50"},
		{"Pear", "10", "0.75"},
	}
	for r, row := range cells {
		for c, text := range row {
			fmt.Fprintf(&b, "BT /F1 10 Tf %d %d Td (%s) Tj ET\n", 110+100*c, 470-30*r, text)
		}
	}
	return b.String()
}

// writeReportPDF writes a one-page PDF with an info title, two bookmarks
// and standard fonts declared without /Widths. The xref table carries real
// offsets.
func writeReportPDF(t *testing.T) string {
	t.Helper()
	content := reportContent()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R /Outlines 6 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
			"/Resources << /Font << /F1 4 0 R /F2 5 0 R >> >> /Contents 7 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>",
		"<< /Type /Outlines /First 8 0 R /Last 9 0 R /Count 2 >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(content), content),
		"<< /Title (Overview) /Parent 6 0 R /Next 9 0 R /Dest [3 0 R /XYZ 0 792 0] >>",
		"<< /Title (Details) /Parent 6 0 R /Prev 8 0 R /Dest [3 0 R /Fit] >>",
		"<< /Title (Fixture Report) /Producer (pdfstruct tests) >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 10 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func openReport(t *testing.T) *Document {
	t.Helper()
	doc, err := Open(writeReportPDF(t))
	require.NoError(t, err)
	t.Cleanup(func() { doc.Close() })
	return doc
}

func TestDocument_Report(t *testing.T) {
	doc := openReport(t)

	n, err := doc.PageCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	md, err := doc.Metadata()
	require.NoError(t, err)
	assert.Equal(t, "Fixture Report", md.Title)

	t.Run("spans keep word gaps", func(t *testing.T) {
		spans, err := doc.PageSpans(1)
		require.NoError(t, err)
		require.NotEmpty(t, spans)

		heading := spans[0]
		assert.Equal(t, "Chapter 1: Introduction", heading.Text)
		assert.Equal(t, "Helvetica-Bold", heading.FontName)
		assert.Equal(t, 18.0, heading.FontSize)
		assert.True(t, heading.Bold)
		assert.Equal(t, 1, heading.Page)

		text, err := doc.PageText(1)
		require.NoError(t, err)
		assert.Contains(t, text, "This is body text of the fixture.")
	})

	t.Run("outline", func(t *testing.T) {
		entries, err := doc.Outline(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []layout.OutlineEntry{
			{Depth: 1, Title: "Overview", Page: 1},
			{Depth: 1, Title: "Details", Page: 1},
		}, entries)
	})

	t.Run("ruled table", func(t *testing.T) {
		tables, err := doc.FindTables(1, layout.Strict)
		require.NoError(t, err)
		require.Len(t, tables, 1)
		assert.Equal(t, [][]string{
			{"Name", "Qty", "Price"},
			{"Apple", "3", "1.50"},
			{"Pear", "10", "0.75"},
		}, tables[0].Rows)
		assert.Equal(t, layout.BBox{100, 400, 400, 490}, tables[0].BBox)
	})
}

func TestDocument_PageOutOfRange(t *testing.T) {
	doc := openReport(t)

	_, err := doc.PageSpans(2)
	var pe *layout.PageError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Page)
}
