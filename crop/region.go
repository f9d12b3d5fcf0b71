// Package crop converts located verse positions into per-page vertical
// crop boundaries.
//
// The [RegionSelector] works in render space: document-unit positions are
// multiplied by the rasterization zoom factor, and the configured paddings
// are document-unit values scaled the same way, so regions line up exactly
// with rasters produced at the same zoom.
package crop

import (
	"fmt"

	"github.com/hmansour/versecrop/document"
	"github.com/hmansour/versecrop/model"
)

// RegionConfig holds configuration for crop boundary derivation
type RegionConfig struct {
	// Zoom is the rasterization factor crop coordinates are scaled by.
	// Default: 3.0
	Zoom float64

	// StartPad is subtracted above the earliest target verse.
	// Default: 60
	StartPad float64

	// BeforeNextPad is subtracted above the verse following the latest
	// target verse, when one exists on the page.
	// Default: 20
	BeforeNextPad float64

	// TrailingPad extends past the latest target verse when no following
	// verse exists on the page.
	// Default: 120
	TrailingPad float64

	// PrefacePad is subtracted above a detected preface span when verse 1
	// opens the crop.
	// Default: 60
	PrefacePad float64
}

// DefaultRegionConfig returns sensible default configuration
func DefaultRegionConfig() RegionConfig {
	return RegionConfig{
		Zoom:          3.0,
		StartPad:      60,
		BeforeNextPad: 20,
		TrailingPad:   120,
		PrefacePad:    60,
	}
}

// RegionSelector derives crop regions from a verse position index.
type RegionSelector struct {
	config RegionConfig
}

// NewRegionSelector creates a selector with default configuration
func NewRegionSelector() *RegionSelector {
	return NewRegionSelectorWithConfig(DefaultRegionConfig())
}

// NewRegionSelectorWithConfig creates a selector with custom configuration
func NewRegionSelectorWithConfig(config RegionConfig) *RegionSelector {
	return &RegionSelector{config: config}
}

// Select returns one crop region per page containing at least one verse in
// [startVerse, endVerse], ordered by ascending page index. Degenerate
// boundaries mark the region non-croppable, retaining the full page. If no
// page contains a target verse, a single full-page region for the chapter
// start page is returned.
func (rs *RegionSelector) Select(doc document.Document, idx model.PositionIndex, preface *model.PrefaceSpan, startVerse, endVerse, chapterStart int) ([]model.CropRegion, error) {
	if startVerse > endVerse {
		return nil, fmt.Errorf("invalid verse interval [%d, %d]", startVerse, endVerse)
	}

	var regions []model.CropRegion
	for _, page := range idx.Pages() {
		targets := targetVersesOn(idx, page, startVerse, endVerse)
		if len(targets) == 0 {
			continue
		}

		_, height, err := doc.PageSize(page)
		if err != nil {
			return nil, fmt.Errorf("page %d size: %w", page, err)
		}
		regions = append(regions, rs.pageRegion(idx, preface, page, targets, height))
	}

	if len(regions) == 0 {
		_, height, err := doc.PageSize(chapterStart)
		if err != nil {
			return nil, fmt.Errorf("page %d size: %w", chapterStart, err)
		}
		regions = append(regions, fullPage(chapterStart, height*rs.config.Zoom))
	}
	return regions, nil
}

// pageRegion computes one page's boundaries. targets is ascending and
// non-empty.
func (rs *RegionSelector) pageRegion(idx model.PositionIndex, preface *model.PrefaceSpan, page int, targets []int, height float64) model.CropRegion {
	zoom := rs.config.Zoom
	fullHeight := height * zoom
	earliest, latest := targets[0], targets[len(targets)-1]

	var top float64
	if earliest == 1 && preface != nil && preface.Page == page {
		top = (preface.Start - rs.config.PrefacePad) * zoom
	} else {
		pos, _ := idx.Best(page, earliest)
		top = (pos.Y - rs.config.StartPad) * zoom
	}

	var bottom float64
	if next, ok := idx.FirstBelow(page, latest); ok {
		bottom = (next.Y - rs.config.BeforeNextPad) * zoom
	} else {
		pos, _ := idx.Best(page, latest)
		bottom = (pos.Y + rs.config.TrailingPad) * zoom
	}

	top = clamp(top, 0, fullHeight)
	bottom = clamp(bottom, 0, fullHeight)

	if top >= bottom || (top <= 0 && bottom >= fullHeight) {
		return fullPage(page, fullHeight)
	}
	return model.CropRegion{Page: page, Start: top, End: bottom, Croppable: true}
}

func targetVersesOn(idx model.PositionIndex, page, startVerse, endVerse int) []int {
	var targets []int
	for _, v := range idx.VersesOn(page) {
		if v >= startVerse && v <= endVerse {
			targets = append(targets, v)
		}
	}
	return targets
}

func fullPage(page int, fullHeight float64) model.CropRegion {
	return model.CropRegion{Page: page, Start: 0, End: fullHeight, Croppable: false}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
