package versecrop

import (
	"context"
	"fmt"

	"github.com/hmansour/versecrop/crop"
	"github.com/hmansour/versecrop/locate"
	"github.com/hmansour/versecrop/model"
	"github.com/hmansour/versecrop/render"
)

// chapterRequest is one single-chapter slice of an extraction request.
type chapterRequest struct {
	chapter    int
	startVerse int
	endVerse   int
}

// runRange resolves one request against an open document. Cross-chapter
// ranges are split into two single-chapter requests; every sub-request
// must succeed for the result to count as successful, but a failed one
// never stops its sibling.
func (e *Extractor) runRange(ctx context.Context, r model.VerseRange) (*model.ExtractionResult, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid verse range %s", r)
	}

	requests, err := e.splitRange(ctx, r)
	if err != nil {
		return nil, err
	}

	result := &model.ExtractionResult{Success: true}
	var firstErr error
	for _, req := range requests {
		artifacts, missing, err := e.extractChapter(ctx, req)
		result.Artifacts = append(result.Artifacts, artifacts...)
		result.MissingVerses = append(result.MissingVerses, missing...)
		if err != nil {
			result.Success = false
			result.Failures++
			if firstErr == nil {
				firstErr = err
			}
			if IsFatal(err) {
				return result, err
			}
			continue
		}
		if len(missing) > 0 {
			e.warn(KindPartialVerseCoverage,
				"chapter %d: verses %v not located", req.chapter, missing)
		}
	}
	return result, firstErr
}

// splitRange turns a request into its single-chapter parts. A range
// spanning two chapters needs the provider to supply the first
// chapter's verse count.
func (e *Extractor) splitRange(ctx context.Context, r model.VerseRange) ([]chapterRequest, error) {
	if r.SameChapter() {
		return []chapterRequest{
			{chapter: r.Start.Chapter, startVerse: r.Start.Verse, endVerse: r.End.Verse},
		}, nil
	}
	if r.End.Chapter != r.Start.Chapter+1 {
		return nil, fmt.Errorf("range %s spans more than two chapters", r)
	}
	if e.options.provider == nil {
		return nil, fmt.Errorf("range %s spans two chapters and no provider is configured to resolve the chapter verse count", r)
	}

	count, err := e.options.provider.ChapterVerseCount(ctx, r.Start.Chapter)
	if err != nil {
		return nil, newExtractError(KindProviderError, r.Start.Chapter, 0, unsetPage,
			fmt.Errorf("verse count: %w", err))
	}
	return []chapterRequest{
		{chapter: r.Start.Chapter, startVerse: r.Start.Verse, endVerse: count},
		{chapter: r.End.Chapter, startVerse: 1, endVerse: r.End.Verse},
	}, nil
}

// extractChapter runs the locate, scan, select, render pipeline for one
// single-chapter request.
func (e *Extractor) extractChapter(ctx context.Context, req chapterRequest) ([]string, []int, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, newExtractError(KindFatal, req.chapter, req.startVerse, unsetPage, err)
	}

	startPage, err := e.resolveChapterPage(req.chapter)
	if err != nil {
		return nil, nil, err
	}
	boundPage := e.chapterBound(req.chapter, startPage)

	targets := make([]int, 0, req.endVerse-req.startVerse+1)
	for v := req.startVerse; v <= req.endVerse; v++ {
		targets = append(targets, v)
	}

	scanCfg := locate.DefaultVerseScannerConfig()
	scanCfg.Logger = e.logger()
	scan, err := locate.NewVerseScannerWithConfig(scanCfg).Scan(e.doc, startPage, boundPage, targets)
	if err != nil {
		return nil, nil, newExtractError(KindBoundaryNotFound, req.chapter, req.startVerse, startPage, err)
	}
	missing := scan.Missing(targets)

	regionCfg := crop.DefaultRegionConfig()
	regionCfg.Zoom = e.options.zoom
	regions, err := crop.NewRegionSelectorWithConfig(regionCfg).
		Select(e.doc, scan.Positions, scan.Preface, req.startVerse, req.endVerse, startPage)
	if err != nil {
		return nil, missing, newExtractError(KindRenderFailure, req.chapter, req.startVerse, startPage, err)
	}

	renderCfg := render.Config{
		Zoom:      e.options.zoom,
		OutputDir: e.options.outputDir,
		Gap:       render.DefaultConfig().Gap,
		MaxWidth:  e.options.maxMergedWidth,
		Logger:    e.logger(),
	}
	naming := render.Naming{
		Chapter:    req.chapter,
		StartVerse: req.startVerse,
		EndVerse:   req.endVerse,
	}
	out, err := render.NewRendererWithConfig(renderCfg).Render(e.doc, regions, naming)
	if err != nil {
		return nil, missing, newExtractError(KindRenderFailure, req.chapter, req.startVerse, startPage, err)
	}
	for _, page := range out.FailedPages {
		e.warn(KindRenderFailure, "chapter %d: page %d artifact failed", req.chapter, page)
	}
	return out.Artifacts, missing, nil
}

// resolveChapterPage finds the start page of a chapter, consulting this
// run's assignments first. A detection result that collides with a page
// another chapter owns is discarded in favor of the known-page table; a
// chapter that resolves nowhere is a boundary failure.
func (e *Extractor) resolveChapterPage(chapter int) (int, error) {
	if page, ok := e.assignments.Assigned(chapter); ok {
		return page, nil
	}

	loc, err := e.locator().Locate(e.doc, chapter, e.options.startPage, e.assignments.ExcludedPages())
	if err != nil {
		return 0, newExtractError(KindBoundaryNotFound, chapter, 0, unsetPage, err)
	}
	if loc != nil {
		if err := e.assignments.Assign(chapter, loc.Page); err == nil {
			e.logger().Info("chapter located",
				"chapter", chapter, "page", loc.Page, "tier", loc.Tier.String())
			return loc.Page, nil
		}
		owner, _ := e.assignments.Owner(loc.Page)
		e.logger().Warn("detected page already owned, using known-page table",
			"chapter", chapter, "page", loc.Page, "owner", owner)
	}

	if known, ok := e.assignments.KnownPage(chapter); ok {
		if err := e.assignments.Assign(chapter, known); err == nil {
			e.logger().Info("chapter resolved from known-page table",
				"chapter", chapter, "page", known)
			return known, nil
		}
	}

	return 0, newExtractError(KindBoundaryNotFound, chapter, 0, unsetPage,
		fmt.Errorf("chapter %d start page not found", chapter))
}

// chapterBound returns the exclusive end of a chapter's page window: the
// next chapter's start page when it can be located, otherwise a fixed
// span capped at the document length.
func (e *Extractor) chapterBound(chapter, startPage int) int {
	next, err := e.locator().Locate(e.doc, chapter+1, startPage+1, e.assignments.ExcludedPages())
	if err == nil && next != nil && next.Page > startPage {
		return next.Page
	}

	bound := startPage + e.options.chapterSpan
	if n := e.doc.NumPages(); bound > n {
		bound = n
	}
	return bound
}

// locator returns the configured chapter detector, defaulting to the
// production heuristic locator.
func (e *Extractor) locator() ChapterLocator {
	if e.options.locator != nil {
		return e.options.locator
	}
	cfg := locate.DefaultChapterConfig()
	cfg.Logger = e.logger()
	return locate.NewChapterLocatorWithConfig(cfg)
}
