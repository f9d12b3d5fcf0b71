// Package model provides the shared data types for the extraction pipeline.
//
// This package defines the styled-text representation produced by a document
// backend and the domain values that flow between the detection, cropping,
// and rendering stages. All coordinates use a top-left origin in document
// units (PDF points at zoom 1.0); render-space coordinates are these values
// multiplied by the rasterization zoom factor.
//
// # Page Structure
//
// A [Page] holds ordered [Block] values; each block holds ordered [Line]
// values; each line holds ordered [StyledRun] values carrying text together
// with font size, bold/italic flags, and color. This is the evidence the
// locators score.
//
// # Domain Values
//
// The detection stages produce and consume:
//
//   - [ChapterLocation] - the resolved start page of one chapter
//   - [VersePosition] - a scored candidate position for one verse marker
//   - [PositionIndex] - all retained candidates, keyed by page and verse
//   - [PrefaceSpan] - the vertical extent of a chapter's introductory text
//   - [VerseRange] / [VerseRef] - the requested content range
//   - [CropRegion] - a per-page vertical crop, consumed once by the renderer
package model
