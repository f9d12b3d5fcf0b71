// Package document defines the backend-neutral interface to a paginated
// source document. The fitz package provides the production implementation;
// detection code depends only on this interface so it can run against
// synthetic fixtures.
package document

import (
	"image"

	"github.com/hmansour/versecrop/model"
)

// Document is a scoped handle on an open source document. Page indices are
// 0-based. Implementations are not required to be safe for concurrent use;
// the pipeline is single-threaded.
type Document interface {
	// NumPages returns the page count.
	NumPages() int

	// Page returns the styled layout tree for a page.
	Page(index int) (*model.Page, error)

	// Text returns the plain text of a page.
	Text(index int) (string, error)

	// PageSize returns a page's width and height in document units.
	PageSize(index int) (width, height float64, err error)

	// Render rasterizes a page at the given zoom factor. A zoom of 1.0
	// corresponds to 72 DPI; crop coordinates computed in document units
	// must be multiplied by the same zoom before being applied to the
	// returned image.
	Render(index int, zoom float64) (image.Image, error)

	// Close releases the handle. It must be safe to call more than once.
	Close() error
}
