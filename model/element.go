package model

import "strings"

// Color represents an RGB text color.
type Color struct {
	R, G, B uint8
}

// IsDefault returns true for black, the default body-text color.
func (c Color) IsDefault() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// TextStyle carries the styling flags of a run
type TextStyle struct {
	Bold   bool
	Italic bool
	Color  Color
}

// StyledRun represents a contiguous piece of text rendered with one style.
type StyledRun struct {
	Text     string
	BBox     BBox
	FontSize float64
	FontName string
	Style    TextStyle
	// Offset is the byte offset of this run's text within its line's text.
	Offset int
}

// Line represents one visual text line composed of ordered styled runs.
type Line struct {
	BBox BBox
	Runs []StyledRun
	Text string
}

// RunAt returns the run containing the given byte offset into the line's
// text, or nil if the offset falls outside every run.
func (l *Line) RunAt(offset int) *StyledRun {
	for i := range l.Runs {
		r := &l.Runs[i]
		if offset >= r.Offset && offset < r.Offset+len(r.Text) {
			return r
		}
	}
	return nil
}

// MaxFontSize returns the largest run font size on the line, or 0 for an
// empty line.
func (l *Line) MaxFontSize() float64 {
	var maxSize float64
	for _, r := range l.Runs {
		if r.FontSize > maxSize {
			maxSize = r.FontSize
		}
	}
	return maxSize
}

// Block represents a group of lines forming one layout block.
type Block struct {
	BBox  BBox
	Lines []Line
}

// Text returns the block's text with lines joined by newlines.
func (b *Block) Text() string {
	parts := make([]string, 0, len(b.Lines))
	for _, l := range b.Lines {
		parts = append(parts, l.Text)
	}
	return strings.Join(parts, "\n")
}

// HasStyle reports whether any run in the block satisfies the predicate.
func (b *Block) HasStyle(match func(StyledRun) bool) bool {
	for _, l := range b.Lines {
		for _, r := range l.Runs {
			if match(r) {
				return true
			}
		}
	}
	return false
}
