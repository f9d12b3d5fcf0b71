package fitz

import (
	"fmt"
	"image"
	"sync"

	gofitz "github.com/gen2brain/go-fitz"

	"github.com/hmansour/versecrop/model"
)

// baseDPI is MuPDF's rendering resolution at zoom 1.0; document units
// are PDF points at this scale.
const baseDPI = 72

// Document is a MuPDF-backed document handle. It is a scoped resource:
// open it once per extraction operation and close it on every exit path.
// Not safe for concurrent use.
type Document struct {
	doc    *gofitz.Document
	closed bool

	// Pages are immutable once parsed, so repeat lookups within one
	// scope reuse the first parse.
	mu    sync.Mutex
	cache map[int]*model.Page
}

// Open opens the document at path.
func Open(path string) (*Document, error) {
	doc, err := gofitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &Document{doc: doc, cache: make(map[int]*model.Page)}, nil
}

// NumPages returns the page count.
func (d *Document) NumPages() int {
	if d.closed {
		return 0
	}
	return d.doc.NumPage()
}

// Text returns the plain text of a page.
func (d *Document) Text(index int) (string, error) {
	if err := d.checkPage(index); err != nil {
		return "", err
	}
	text, err := d.doc.Text(index)
	if err != nil {
		return "", fmt.Errorf("page %d text: %w", index, err)
	}
	return text, nil
}

// Page returns the styled layout tree for a page, parsed from MuPDF's
// HTML rendering.
func (d *Document) Page(index int) (*model.Page, error) {
	if err := d.checkPage(index); err != nil {
		return nil, err
	}

	d.mu.Lock()
	cached, ok := d.cache[index]
	d.mu.Unlock()
	if ok {
		return cached, nil
	}

	width, height, err := d.PageSize(index)
	if err != nil {
		return nil, err
	}
	markup, err := d.doc.HTML(index, false)
	if err != nil {
		return nil, fmt.Errorf("page %d layout: %w", index, err)
	}

	page, err := parsePageHTML(markup, index, width, height)
	if err != nil {
		return nil, fmt.Errorf("page %d layout: %w", index, err)
	}
	if text, err := d.doc.Text(index); err == nil {
		page.RawText = text
	}

	d.mu.Lock()
	d.cache[index] = page
	d.mu.Unlock()
	return page, nil
}

// PageSize returns a page's width and height in document units.
func (d *Document) PageSize(index int) (float64, float64, error) {
	if err := d.checkPage(index); err != nil {
		return 0, 0, err
	}
	bounds, err := d.doc.Bound(index)
	if err != nil {
		return 0, 0, fmt.Errorf("page %d bounds: %w", index, err)
	}
	return float64(bounds.Dx()), float64(bounds.Dy()), nil
}

// Render rasterizes a page at the given zoom factor.
func (d *Document) Render(index int, zoom float64) (image.Image, error) {
	if err := d.checkPage(index); err != nil {
		return nil, err
	}
	if zoom <= 0 {
		return nil, fmt.Errorf("invalid zoom %v", zoom)
	}
	img, err := d.doc.ImageDPI(index, baseDPI*zoom)
	if err != nil {
		return nil, fmt.Errorf("page %d raster: %w", index, err)
	}
	return img, nil
}

// Close releases the handle. Safe to call more than once.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.cache = nil
	return d.doc.Close()
}

func (d *Document) checkPage(index int) error {
	if d.closed {
		return fmt.Errorf("document is closed")
	}
	if index < 0 || index >= d.doc.NumPage() {
		return fmt.Errorf("page %d out of range (0-%d)", index, d.doc.NumPage()-1)
	}
	return nil
}
