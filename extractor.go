package versecrop

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hmansour/versecrop/document"
	"github.com/hmansour/versecrop/fitz"
	"github.com/hmansour/versecrop/locate"
	"github.com/hmansour/versecrop/model"
	"github.com/hmansour/versecrop/render"
)

// Extractor provides a fluent interface for resolving verse-range
// extraction requests. Each configuration method returns a new
// Extractor instance, allowing method chaining; all instances derived
// from one Open call share the run-wide chapter assignment state.
type Extractor struct {
	// Source
	path string

	// Document handle
	doc       document.Document
	ownsDoc   bool // true if we opened the document and should close it
	docOpened bool

	// Configuration
	options extractOptions

	// Run-wide chapter resolution state, shared across clones.
	assignments *locate.Assignments

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning
}

// clone creates a shallow copy of the Extractor with a deep copy of
// options. The assignment state is intentionally shared: it is the
// run's memory of which pages belong to which chapters.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		path:        e.path,
		doc:         e.doc,
		ownsDoc:     e.ownsDoc,
		docOpened:   e.docOpened,
		options:     e.options.clone(),
		assignments: e.assignments,
		err:         e.err,
		warnings:    append([]Warning(nil), e.warnings...),
	}
}

// ensureDocument opens the document if not already open.
func (e *Extractor) ensureDocument() error {
	if e.docOpened {
		return nil
	}
	if e.path == "" {
		return newExtractError(KindFatal, 0, 0, unsetPage, fmt.Errorf("no document specified"))
	}
	doc, err := fitz.Open(e.path)
	if err != nil {
		return newExtractError(KindFatal, 0, 0, unsetPage, err)
	}
	e.doc = doc
	e.ownsDoc = true
	e.docOpened = true
	return nil
}

// Close releases the document handle when this Extractor owns it.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsDoc && e.doc != nil {
		err := e.doc.Close()
		e.doc = nil
		e.ownsDoc = false
		e.docOpened = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// WithProvider sets the verse-range provider used to resolve mushaf
// pages and chapter verse counts.
//
// Example:
//
//	result, _, err := versecrop.Open("quran.pdf").
//	    WithProvider(quranapi.NewClient()).
//	    ExtractPage(ctx, 49)
func (e *Extractor) WithProvider(p VerseRangeProvider) *Extractor {
	newExt := e.clone()
	newExt.options.provider = p
	return newExt
}

// WithZoom sets the super-sampling factor shared by crop coordinates
// and rasterization. The default is 3.0 (216 DPI).
func (e *Extractor) WithZoom(zoom float64) *Extractor {
	newExt := e.clone()
	if zoom <= 0 {
		newExt.err = fmt.Errorf("invalid zoom %v", zoom)
		return newExt
	}
	newExt.options.zoom = zoom
	return newExt
}

// WithOutputDir sets the directory artifacts are written into.
func (e *Extractor) WithOutputDir(dir string) *Extractor {
	newExt := e.clone()
	newExt.options.outputDir = dir
	return newExt
}

// ClearOutput removes prior same-prefix artifacts from the output
// directory before the first render of a terminal operation.
func (e *Extractor) ClearOutput() *Extractor {
	newExt := e.clone()
	newExt.options.clearOutput = true
	return newExt
}

// WithKnownPages overlays verified chapter start pages onto the
// built-in known-page table. Used when a different source edition
// shifts the chapter boundaries.
func (e *Extractor) WithKnownPages(pages map[int]int) *Extractor {
	newExt := e.clone()
	if newExt.options.knownPages == nil {
		newExt.options.knownPages = make(map[int]int, len(pages))
	}
	for chapter, page := range pages {
		newExt.options.knownPages[chapter] = page
	}
	return newExt
}

// WithStartPage sets the page chapter detection starts scanning from,
// skipping the source edition's front matter. The default is 28.
func (e *Extractor) WithStartPage(page int) *Extractor {
	newExt := e.clone()
	newExt.options.startPage = page
	return newExt
}

// WithChapterLocator replaces the chapter detection implementation.
func (e *Extractor) WithChapterLocator(l ChapterLocator) *Extractor {
	newExt := e.clone()
	newExt.options.locator = l
	return newExt
}

// WithMaxMergedWidth downscales merged composites wider than maxWidth
// pixels, for delivery channels that reject large images.
func (e *Extractor) WithMaxMergedWidth(maxWidth int) *Extractor {
	newExt := e.clone()
	newExt.options.maxMergedWidth = maxWidth
	return newExt
}

// WithLogger sets the logger detection and rendering events go to.
// The default is slog.Default().
func (e *Extractor) WithLogger(logger *slog.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = logger
	return newExt
}

// AssignmentTable returns the chapter-to-page assignments resolved so
// far in this run, sorted by chapter.
func (e *Extractor) AssignmentTable() []locate.ChapterPage {
	return e.assignments.Table()
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// ExtractRange resolves one extraction request. A range spanning two
// chapters is split into two sub-requests, both of which must succeed.
// This is a terminal operation that closes the document handle.
//
// The returned result lists every artifact written; artifacts are never
// rolled back on failure.
func (e *Extractor) ExtractRange(ctx context.Context, r model.VerseRange) (*model.ExtractionResult, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if err := e.ensureDocument(); err != nil {
		return nil, e.warnings, err
	}
	defer e.Close()
	e.prepareRun()

	result, err := e.runRange(ctx, r)
	return result, e.warnings, err
}

// ExtractPage looks the mushaf page up with the provider and extracts
// the range it covers. This is a terminal operation that closes the
// document handle.
func (e *Extractor) ExtractPage(ctx context.Context, page int) (*model.ExtractionResult, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if e.options.provider == nil {
		return nil, nil, newExtractError(KindFatal, 0, 0, unsetPage, fmt.Errorf("no verse-range provider configured"))
	}
	if err := e.ensureDocument(); err != nil {
		return nil, e.warnings, err
	}
	defer e.Close()
	e.prepareRun()

	rng, err := e.options.provider.PageRange(ctx, page)
	if err != nil {
		return nil, e.warnings, newExtractError(KindProviderError, 0, 0, page, err)
	}
	result, err := e.runRange(ctx, rng)
	return result, e.warnings, err
}

// ExtractPages runs extraction for every mushaf page in [first, last].
// A page whose range lookup fails after retries is skipped with a
// warning; a page whose extraction fails reduces the combined result
// but does not stop the loop. The run aborts only when the document
// cannot be opened or no range was obtainable for any page.
// This is a terminal operation that closes the document handle.
func (e *Extractor) ExtractPages(ctx context.Context, first, last int) (*model.ExtractionResult, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if first > last {
		return nil, nil, fmt.Errorf("invalid page interval [%d, %d]", first, last)
	}
	if e.options.provider == nil {
		return nil, nil, newExtractError(KindFatal, 0, 0, unsetPage, fmt.Errorf("no verse-range provider configured"))
	}
	if err := e.ensureDocument(); err != nil {
		return nil, e.warnings, err
	}
	defer e.Close()
	e.prepareRun()

	combined := &model.ExtractionResult{Success: true}
	rangesObtained := 0

	for page := first; page <= last; page++ {
		rng, err := e.options.provider.PageRange(ctx, page)
		if err != nil {
			e.warn(KindProviderError, "mushaf page %d: %v", page, err)
			continue
		}
		rangesObtained++

		result, err := e.runRange(ctx, rng)
		if result != nil {
			combined.Artifacts = append(combined.Artifacts, result.Artifacts...)
			combined.MissingVerses = append(combined.MissingVerses, result.MissingVerses...)
			combined.Failures += result.Failures
			if !result.Success {
				combined.Success = false
			}
		}
		if err != nil {
			combined.Success = false
			if IsFatal(err) {
				return combined, e.warnings, err
			}
			e.logger().Error("page extraction failed", "mushafPage", page, "range", rng.String(), "error", err)
		}
	}

	if rangesObtained == 0 {
		return combined, e.warnings, newExtractError(KindFatal, 0, 0, unsetPage,
			fmt.Errorf("no verse range obtainable for pages %d-%d", first, last))
	}
	return combined, e.warnings, nil
}

// prepareRun applies run-level options before the first request: merges
// known-page overrides into the shared state and clears stale output.
func (e *Extractor) prepareRun() {
	if len(e.options.knownPages) > 0 {
		e.assignments.MergeKnown(e.options.knownPages)
	}
	if e.options.clearOutput && e.options.outputDir != "" {
		if err := render.ClearOutputDir(e.options.outputDir); err != nil {
			e.logger().Warn("clearing output dir failed", "dir", e.options.outputDir, "error", err)
		}
		// Clearing once per terminal operation is enough.
		e.options.clearOutput = false
	}
}

func (e *Extractor) warn(kind ErrorKind, format string, args ...any) {
	e.warnings = append(e.warnings, Warning{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

func (e *Extractor) logger() *slog.Logger {
	if e.options.logger != nil {
		return e.options.logger
	}
	return slog.Default()
}
