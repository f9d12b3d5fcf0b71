package fitz

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/hmansour/versecrop/model"
)

// Line grouping and sizing heuristics. MuPDF's HTML rendering positions
// each line absolutely but does not carry explicit extents, so line
// height is derived from font size and block membership from the
// vertical gap to the previous line.
const (
	lineHeightFactor = 1.2
	glyphWidthFactor = 0.5
	blockGapFactor   = 1.8
	fallbackFontSize = 10.0
)

// spanStyle carries the CSS-derived styling in effect for a text node.
type spanStyle struct {
	fontName string
	fontSize float64
	bold     bool
	italic   bool
	color    model.Color
}

// parsePageHTML converts MuPDF's HTML rendering of one page into the
// model layout tree. Each absolutely positioned paragraph becomes a
// line; consecutive lines separated by less than a block gap are grouped
// into one block.
func parsePageHTML(markup string, index int, width, height float64) (*model.Page, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing page markup: %w", err)
	}

	page := model.NewPage(index, width, height)

	var lines []model.Line
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			if line, ok := parseLine(n); ok {
				lines = append(lines, line)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	for _, block := range groupBlocks(lines) {
		page.AddBlock(block)
	}
	return page, nil
}

// parseLine builds one line from a positioned paragraph element. Lines
// without any text are dropped.
func parseLine(p *html.Node) (model.Line, bool) {
	style := parseCSS(attr(p, "style"))
	x := cssLength(style["left"])
	y := cssLength(style["top"])

	var runs []model.StyledRun
	var text strings.Builder
	collectRuns(p, spanStyle{color: model.Color{}}, &runs, &text)

	if strings.TrimSpace(text.String()) == "" {
		return model.Line{}, false
	}

	maxSize := fallbackFontSize
	for _, r := range runs {
		if r.FontSize > maxSize {
			maxSize = r.FontSize
		}
	}
	lineHeight := maxSize * lineHeightFactor

	// Runs share the line's vertical extent; horizontal positions are
	// estimated from accumulated glyph widths.
	runX := x
	for i := range runs {
		w := float64(len(runs[i].Text)) * runs[i].FontSize * glyphWidthFactor
		runs[i].BBox = model.NewBBox(runX, y, w, lineHeight)
		runX += w
	}

	return model.Line{
		Text: text.String(),
		Runs: runs,
		BBox: model.NewBBox(x, y, runX-x, lineHeight),
	}, true
}

// collectRuns walks a paragraph subtree accumulating styled runs. Style
// nests: span CSS merges over the inherited style, and b/i elements set
// the corresponding flags for their subtree.
func collectRuns(n *html.Node, inherited spanStyle, runs *[]model.StyledRun, text *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		if n.Data == "" {
			return
		}
		*runs = append(*runs, model.StyledRun{
			Text:     n.Data,
			Offset:   text.Len(),
			FontSize: orDefault(inherited.fontSize),
			FontName: inherited.fontName,
			Style: model.TextStyle{
				Bold:   inherited.bold,
				Italic: inherited.italic,
				Color:  inherited.color,
			},
		})
		text.WriteString(n.Data)
		return

	case html.ElementNode:
		style := inherited
		switch n.Data {
		case "b", "strong":
			style.bold = true
		case "i", "em":
			style.italic = true
		case "span":
			style = mergeSpanCSS(style, parseCSS(attr(n, "style")))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collectRuns(c, style, runs, text)
		}
	}
}

// mergeSpanCSS overlays a span's CSS declarations onto the inherited
// style. Bold and italic come from explicit declarations or from the
// font name itself, which is how MuPDF usually conveys weight.
func mergeSpanCSS(base spanStyle, css map[string]string) spanStyle {
	if name, ok := css["font-family"]; ok {
		base.fontName = name
		lower := strings.ToLower(name)
		if strings.Contains(lower, "bold") {
			base.bold = true
		}
		if strings.Contains(lower, "italic") || strings.Contains(lower, "oblique") {
			base.italic = true
		}
	}
	if size, ok := css["font-size"]; ok {
		base.fontSize = cssLength(size)
	}
	if weight, ok := css["font-weight"]; ok && weight == "bold" {
		base.bold = true
	}
	if fs, ok := css["font-style"]; ok && (fs == "italic" || fs == "oblique") {
		base.italic = true
	}
	if c, ok := css["color"]; ok {
		base.color = cssColor(c)
	}
	return base
}

// groupBlocks clusters lines into blocks: a line whose top is within a
// block gap of the previous line's bottom continues the block.
func groupBlocks(lines []model.Line) []model.Block {
	var blocks []model.Block
	var current []model.Line

	flush := func() {
		if len(current) == 0 {
			return
		}
		bbox := current[0].BBox
		for _, l := range current[1:] {
			bbox = bbox.Union(l.BBox)
		}
		blocks = append(blocks, model.Block{BBox: bbox, Lines: current})
		current = nil
	}

	for _, line := range lines {
		if len(current) > 0 {
			prev := current[len(current)-1]
			if line.BBox.Top()-prev.BBox.Bottom() > prev.BBox.Height*blockGapFactor {
				flush()
			}
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// parseCSS splits an inline style attribute into a declaration map.
func parseCSS(style string) map[string]string {
	decls := make(map[string]string)
	for _, part := range strings.Split(style, ";") {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		decls[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return decls
}

// cssLength parses a pt-suffixed CSS length, tolerating a bare number.
func cssLength(v string) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "pt")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// cssColor parses a #rrggbb or #rgb hex color; anything else maps to
// the default black.
func cssColor(v string) model.Color {
	v = strings.TrimPrefix(strings.TrimSpace(v), "#")
	switch len(v) {
	case 6:
		r, err1 := strconv.ParseUint(v[0:2], 16, 8)
		g, err2 := strconv.ParseUint(v[2:4], 16, 8)
		b, err3 := strconv.ParseUint(v[4:6], 16, 8)
		if err1 != nil || err2 != nil || err3 != nil {
			return model.Color{}
		}
		return model.Color{R: uint8(r), G: uint8(g), B: uint8(b)}
	case 3:
		r, err1 := strconv.ParseUint(strings.Repeat(v[0:1], 2), 16, 8)
		g, err2 := strconv.ParseUint(strings.Repeat(v[1:2], 2), 16, 8)
		b, err3 := strconv.ParseUint(strings.Repeat(v[2:3], 2), 16, 8)
		if err1 != nil || err2 != nil || err3 != nil {
			return model.Color{}
		}
		return model.Color{R: uint8(r), G: uint8(g), B: uint8(b)}
	}
	return model.Color{}
}

func orDefault(size float64) float64 {
	if size <= 0 {
		return fallbackFontSize
	}
	return size
}
