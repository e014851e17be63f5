// Package document wraps MuPDF (via go-fitz) behind the small surface the
// extraction pipeline needs: page count, per-page selectable text, and
// per-page rasterization.
package document

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
)

// Document is an open handle to a paginated document. It must be closed on
// every exit path; it is not safe for concurrent use.
type Document struct {
	doc  *fitz.Document
	path string
}

// Open loads the document at path. Failure to open or decode is fatal to the
// extraction pipeline and is not retried.
func Open(path string) (*Document, error) {
	d, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open document %q: %w", path, err)
	}
	return &Document{doc: d, path: path}, nil
}

// Path returns the filesystem path the document was opened from.
func (d *Document) Path() string { return d.path }

// PageCount returns the number of pages. Zero pages is legal.
func (d *Document) PageCount() int { return d.doc.NumPage() }

// PageText returns the selectable text of page i in the reading order
// provided by the layout engine.
func (d *Document) PageText(i int) (string, error) {
	text, err := d.doc.Text(i)
	if err != nil {
		return "", fmt.Errorf("page %d text: %w", i, err)
	}
	return text, nil
}

// RenderPNG rasterizes page i at the given DPI and returns PNG bytes. The
// image is ephemeral; callers consume it within one recognition step.
func (d *Document) RenderPNG(i int, dpi float64) ([]byte, error) {
	img, err := d.doc.ImageDPI(i, dpi)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", i, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page %d: %w", i, err)
	}
	return buf.Bytes(), nil
}

// Close releases the underlying handle.
func (d *Document) Close() error { return d.doc.Close() }
