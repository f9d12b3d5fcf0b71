// Package versecrop extracts verse-range images from a paginated
// translation document using layout heuristics.
//
// The pipeline locates the page a chapter starts on, scans the
// chapter's pages for scored verse-marker positions, derives a minimal
// vertical crop per relevant page, and renders the crops, merging
// multi-page extracts into one composite image.
//
// Basic usage:
//
//	result, warnings, err := versecrop.Open("quran.pdf").
//	    WithOutputDir("out").
//	    ExtractRange(ctx, model.NewVerseRange(2, 255, 2, 257))
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", versecrop.FormatWarnings(warnings))
//	}
//
// With a provider, whole mushaf pages resolve to ranges automatically:
//
//	result, _, err := versecrop.Open("quran.pdf").
//	    WithProvider(quranapi.NewClient()).
//	    ExtractPage(ctx, 49)
//
// An Extractor carries the run-wide chapter assignment state: no two
// chapters ever resolve to the same page across the requests made
// through one Open call and its derived extractors.
package versecrop

import (
	"github.com/hmansour/versecrop/document"
	"github.com/hmansour/versecrop/locate"
	"github.com/hmansour/versecrop/model"
)

// Open prepares an Extractor for the document at path. The document is
// opened lazily by the first terminal operation and closed when that
// operation completes.
//
// Example:
//
//	result, warnings, err := versecrop.Open("quran.pdf").ExtractRange(ctx, r)
func Open(path string) *Extractor {
	return &Extractor{
		path:        path,
		options:     defaultOptions(),
		assignments: locate.NewAssignments(),
	}
}

// FromDocument creates an Extractor over an already-open document
// handle. The caller keeps ownership and is responsible for closing it.
func FromDocument(doc document.Document) *Extractor {
	return &Extractor{
		doc:         doc,
		docOpened:   true,
		options:     defaultOptions(),
		assignments: locate.NewAssignments(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult wraps a terminal operation, panicking on error and
// discarding warnings.
//
// Example:
//
//	result := versecrop.MustResult(versecrop.Open("quran.pdf").ExtractPage(ctx, 49))
func MustResult(val *model.ExtractionResult, _ []Warning, err error) *model.ExtractionResult {
	if err != nil {
		panic(err)
	}
	return val
}
