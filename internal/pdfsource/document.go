// Package pdfsource reads PDF files with rsc.io/pdf and serves them as a
// layout.Document and layout.TableFinder. Outline targets are resolved
// with pdfcpu.
package pdfsource

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"rsc.io/pdf"

	"github.com/thywilljoshua/pdf-structure/internal/layout"
)

var (
	ErrEmptyFile  = errors.New("file is empty")
	errPageRange  = errors.New("page out of range")
	errNoPageNode = errors.New("page object not found")
)

// Document is an opened PDF file. Parsed page content is cached, so a page
// is decoded once no matter how many stages look at it. Methods are safe
// for concurrent use but a Document is normally owned by one worker.
type Document struct {
	path string
	f    *os.File
	r    *pdf.Reader

	mu    sync.Mutex
	pages map[int]*pageContent
}

type pageContent struct {
	glyphs []pdf.Text
	rects  []pdf.Rect
	spans  []layout.Span
}

// Open opens path for reading. Empty files are rejected with ErrEmptyFile.
func Open(path string) (doc *Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.Size() == 0 {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}

	defer func() {
		if p := recover(); p != nil {
			f.Close()
			doc, err = nil, fmt.Errorf("%s: malformed PDF: %v", path, p)
		}
	}()
	r, err := pdf.NewReader(f, st.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Document{path: path, f: f, r: r, pages: make(map[int]*pageContent)}, nil
}

func (d *Document) Close() error {
	return d.f.Close()
}

func (d *Document) PageCount() (n int, err error) {
	defer recoverAs(&err, "page count")
	return d.r.NumPage(), nil
}

func (d *Document) Metadata() (md layout.Metadata, err error) {
	defer recoverAs(&err, "metadata")
	info := d.r.Trailer().Key("Info")
	if info.IsNull() {
		return md, nil
	}
	md.Title = info.Key("Title").Text()
	return md, nil
}

func (d *Document) PageSpans(page int) ([]layout.Span, error) {
	c, err := d.content(page)
	if err != nil {
		return nil, err
	}
	return c.spans, nil
}

func (d *Document) PageText(page int) (string, error) {
	c, err := d.content(page)
	if err != nil {
		return "", err
	}
	return joinSpans(c.spans), nil
}

func (d *Document) FindTables(page int, strategy layout.Strategy) ([]layout.TableCandidate, error) {
	c, err := d.content(page)
	if err != nil {
		return nil, err
	}
	return findLattices(c.glyphs, c.rects, strategy), nil
}

// content decodes one page. The parser panics on some malformed content
// streams; that is reported as a *layout.PageError like any other page
// failure.
func (d *Document) content(page int) (c *pageContent, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.pages[page]; ok {
		return c, nil
	}

	defer func() {
		if p := recover(); p != nil {
			c, err = nil, &layout.PageError{Page: page, Err: fmt.Errorf("malformed content: %v", p)}
		}
	}()
	if page < 1 || page > d.r.NumPage() {
		return nil, &layout.PageError{Page: page, Err: errPageRange}
	}
	p := d.r.Page(page)
	if p.V.IsNull() {
		return nil, &layout.PageError{Page: page, Err: errNoPageNode}
	}
	content := readContent(p)
	c = &pageContent{
		glyphs: content.Text,
		rects:  content.Rect,
		spans:  mergeGlyphs(page, content.Text),
	}
	d.pages[page] = c
	return c, nil
}

func recoverAs(err *error, what string) {
	if p := recover(); p != nil {
		*err = fmt.Errorf("%s: malformed PDF: %v", what, p)
	}
}
