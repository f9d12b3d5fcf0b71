package versecrop

import (
	"context"
	"log/slog"

	"github.com/hmansour/versecrop/document"
	"github.com/hmansour/versecrop/model"
)

// VerseRangeProvider maps pages of the target mushaf layout to the
// verse ranges they cover. Implementations must tolerate malformed
// responses and timeouts internally via bounded retries; an error means
// retries were exhausted and the caller should skip the page.
type VerseRangeProvider interface {
	// PageRange returns the first and last (chapter, verse) covered by
	// a mushaf page.
	PageRange(ctx context.Context, page int) (model.VerseRange, error)

	// ChapterVerseCount returns the number of verses in a chapter.
	ChapterVerseCount(ctx context.Context, chapter int) (int, error)
}

// ChapterLocator resolves a chapter number to its start page. The
// locate package provides the production implementation.
type ChapterLocator interface {
	Locate(doc document.Document, chapter, startPage int, excluded map[int]bool) (*model.ChapterLocation, error)
}

// extractOptions holds the configuration an Extractor chain builds up.
type extractOptions struct {
	// zoom is the super-sampling factor shared by crop math and
	// rasterization.
	zoom float64

	// outputDir receives artifacts; empty means the working directory.
	outputDir string

	// clearOutput removes prior same-prefix artifacts before rendering.
	clearOutput bool

	// startPage is where chapter detection begins scanning; the source
	// edition's front matter ends there.
	startPage int

	// chapterSpan bounds a chapter's page window when the next chapter
	// cannot be located.
	chapterSpan int

	// maxMergedWidth downscales composites wider than this when
	// positive.
	maxMergedWidth int

	// knownPages overlays the built-in known-page table.
	knownPages map[int]int

	provider VerseRangeProvider
	locator  ChapterLocator
	logger   *slog.Logger
}

// defaultOptions returns the default extraction options.
func defaultOptions() extractOptions {
	return extractOptions{
		zoom:        3.0,
		startPage:   28,
		chapterSpan: 50,
	}
}

// clone creates a deep copy of extractOptions.
func (o extractOptions) clone() extractOptions {
	newOpts := o
	if o.knownPages != nil {
		newOpts.knownPages = make(map[int]int, len(o.knownPages))
		for k, v := range o.knownPages {
			newOpts.knownPages[k] = v
		}
	}
	return newOpts
}
