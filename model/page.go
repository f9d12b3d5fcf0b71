package model

import "strings"

// Page represents one document page as produced by the backend. Pages are
// immutable once built and remain valid only while the owning document
// handle is open.
type Page struct {
	Index  int // 0-based page index
	Width  float64
	Height float64
	Blocks []Block

	// RawText is the backend's plain-text rendering of the page. When
	// empty, Text assembles it from the blocks.
	RawText string
}

// NewPage creates an empty page with the given index and dimensions.
func NewPage(index int, width, height float64) *Page {
	return &Page{
		Index:  index,
		Width:  width,
		Height: height,
	}
}

// AddBlock appends a block to the page.
func (p *Page) AddBlock(b Block) {
	p.Blocks = append(p.Blocks, b)
}

// Text returns the page's plain text.
func (p *Page) Text() string {
	if p.RawText != "" {
		return p.RawText
	}
	parts := make([]string, 0, len(p.Blocks))
	for i := range p.Blocks {
		parts = append(parts, p.Blocks[i].Text())
	}
	return strings.Join(parts, "\n")
}

// Lines returns all lines on the page in block order.
func (p *Page) Lines() []Line {
	var lines []Line
	for i := range p.Blocks {
		lines = append(lines, p.Blocks[i].Lines...)
	}
	return lines
}
