package versecrop

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies extraction failures. The orchestrator alone
// decides continue-vs-abort from the kind: only KindFatal stops a run.
type ErrorKind int

const (
	// KindBoundaryNotFound means a chapter start page could not be
	// resolved by heuristics or the known-page table.
	KindBoundaryNotFound ErrorKind = iota

	// KindPartialVerseCoverage means some target verses were never
	// located; extraction proceeded with the pages that were found.
	KindPartialVerseCoverage

	// KindRenderFailure means a crop or merge step failed; artifacts
	// already produced are kept.
	KindRenderFailure

	// KindProviderError means the verse-range provider failed after its
	// bounded retries; the page's range is skipped.
	KindProviderError

	// KindFatal means the run cannot continue: the source document
	// could not be opened, or no verse range was obtainable at all.
	KindFatal
)

func (k ErrorKind) String() string {
	switch k {
	case KindBoundaryNotFound:
		return "boundary not found"
	case KindPartialVerseCoverage:
		return "partial verse coverage"
	case KindRenderFailure:
		return "render failure"
	case KindProviderError:
		return "provider error"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ExtractError is a classified extraction failure carrying enough
// position context to reproduce it.
type ExtractError struct {
	Kind    ErrorKind
	Chapter int
	Verse   int
	Page    int
	Err     error
}

func (e *ExtractError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Chapter > 0 {
		fmt.Fprintf(&b, " chapter=%d", e.Chapter)
	}
	if e.Verse > 0 {
		fmt.Fprintf(&b, " verse=%d", e.Verse)
	}
	if e.Page >= 0 && e.Page != unsetPage {
		fmt.Fprintf(&b, " page=%d", e.Page)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ExtractError) Unwrap() error { return e.Err }

const unsetPage = -1

func newExtractError(kind ErrorKind, chapter, verse, page int, err error) *ExtractError {
	return &ExtractError{Kind: kind, Chapter: chapter, Verse: verse, Page: page, Err: err}
}

// KindOf returns the kind of an extraction error, or ok=false when err
// does not carry one.
func KindOf(err error) (ErrorKind, bool) {
	var ee *ExtractError
	if errors.As(err, &ee) {
		return ee.Kind, true
	}
	return 0, false
}

// IsFatal reports whether err should abort the whole run.
func IsFatal(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindFatal
}
