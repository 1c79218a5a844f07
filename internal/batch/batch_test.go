package batch

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf-structure/internal/extract"
	"github.com/thywilljoshua/pdf-structure/internal/layout"
)

type fakeSource struct {
	pages   int
	title   string
	closed  *atomic.Int32
	outline []layout.OutlineEntry
}

func (s fakeSource) PageCount() (int, error) { return s.pages, nil }
func (s fakeSource) Metadata() (layout.Metadata, error) {
	return layout.Metadata{Title: s.title}, nil
}
func (s fakeSource) Outline(context.Context) ([]layout.OutlineEntry, error) { return s.outline, nil }
func (s fakeSource) PageSpans(int) ([]layout.Span, error)                    { return nil, nil }
func (s fakeSource) PageText(int) (string, error)                            { return "", nil }
func (s fakeSource) FindTables(int, layout.Strategy) ([]layout.TableCandidate, error) {
	return nil, nil
}

func (s fakeSource) Close() error {
	s.closed.Add(1)
	return nil
}

type fakeOutliner struct {
	calls atomic.Int32
	pages atomic.Int32
}

func (o *fakeOutliner) ExtractOutline(_ context.Context, _ string, maxPages int) ([]layout.OutlineEntry, error) {
	o.calls.Add(1)
	o.pages.Store(int32(maxPages))
	return []layout.OutlineEntry{{Depth: 1, Title: "Guessed", Page: 1}}, nil
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("%PDF-1.7"), 0o644))
	}
}

func fakeOpen(closed *atomic.Int32) OpenFunc {
	return func(path string) (Source, error) {
		name := filepath.Base(path)
		switch {
		case strings.HasPrefix(name, "broken"):
			return nil, errors.New("not a PDF file")
		case strings.HasPrefix(name, "empty"):
			return fakeSource{pages: 0, closed: closed}, nil
		}
		return fakeSource{pages: 2, title: "Title of " + name, closed: closed}, nil
	}
}

func TestRunner_Run(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "nested", "out")
	writeFiles(t, in, "a.pdf", "B.PDF", "broken.pdf", "empty.pdf", "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(in, "sub.pdf"), 0o755))

	var closed atomic.Int32
	r, err := New(Config{InputDir: in, OutputDir: out, Workers: 2, Open: fakeOpen(&closed)})
	require.NoError(t, err)

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 2, sum.Processed)
	require.Len(t, sum.Failed, 2)
	assert.Equal(t, filepath.Join(in, "broken.pdf"), sum.Failed[0].File)
	assert.Equal(t, filepath.Join(in, "empty.pdf"), sum.Failed[1].File)
	assert.ErrorIs(t, sum.Failed[1].Err, extract.ErrNoPages)
	assert.EqualValues(t, 3, closed.Load(), "every opened source is closed")

	b, err := os.ReadFile(filepath.Join(out, "B.json"))
	require.NoError(t, err)
	var res extract.Result
	require.NoError(t, json.Unmarshal(b, &res))
	assert.Equal(t, "B.PDF", res.Filename)
	assert.Equal(t, "Title of B.PDF", res.Title)
	assert.Equal(t, 2, res.PageCount)

	assert.FileExists(t, filepath.Join(out, "a.json"))
	assert.NoFileExists(t, filepath.Join(out, "broken.json"))
}

func TestRunner_Markdown(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeFiles(t, in, "report.pdf")

	var closed atomic.Int32
	outliner := &fakeOutliner{}
	r, err := New(Config{InputDir: in, OutputDir: out, Format: FormatMarkdown, Outliner: outliner, Open: fakeOpen(&closed)})
	require.NoError(t, err)

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Processed)
	assert.EqualValues(t, 1, outliner.calls.Load())
	assert.EqualValues(t, extract.DefaultMaxPages, outliner.pages.Load(), "unset page limit falls back to the default")

	b, err := os.ReadFile(filepath.Join(out, "report.md"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "title: \"Title of report.pdf\"")
	assert.Contains(t, string(b), "- Guessed (p. 1)")
}

func TestRunner_EmptyInput(t *testing.T) {
	r, err := New(Config{InputDir: t.TempDir(), OutputDir: t.TempDir()})
	require.NoError(t, err)
	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sum.Total)
	assert.Empty(t, sum.Failed)
}

func TestRunner_Cancelled(t *testing.T) {
	in := t.TempDir()
	writeFiles(t, in, "a.pdf")
	var closed atomic.Int32
	r, err := New(Config{InputDir: in, OutputDir: t.TempDir(), Open: fakeOpen(&closed)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sum.Processed)
	assert.Zero(t, closed.Load())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{InputDir: filepath.Join(t.TempDir(), "missing"), OutputDir: t.TempDir()})
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(t.TempDir(), "file.pdf")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = New(Config{InputDir: file, OutputDir: t.TempDir()})
	assert.ErrorContains(t, err, "not a directory")
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "JSON": FormatJSON, "markdown": FormatMarkdown, "md": FormatMarkdown} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("yaml")
	assert.Error(t, err)
}

func TestFindPDFs(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "z.pdf", "a.PDF", "m.Pdf", "readme.md")
	got, err := FindPDFs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.PDF"), filepath.Join(dir, "m.Pdf"), filepath.Join(dir, "z.pdf")}, got)
}

func TestRunner_PageLimitReachesOutliner(t *testing.T) {
	in := t.TempDir()
	writeFiles(t, in, "a.pdf")
	var closed atomic.Int32
	outliner := &fakeOutliner{}
	r, err := New(Config{InputDir: in, OutputDir: t.TempDir(), MaxPages: 7, Outliner: outliner, Open: fakeOpen(&closed)})
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 7, outliner.pages.Load())
}
