package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// mergeGapDefault is the vertical spacing between stacked crops, in
// pixels at render zoom.
const mergeGapDefault = 60

var (
	mergeBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	separatorGray   = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// Merge stacks crops vertically into one composite: each crop centered
// against the widest one, a fixed gap between consecutive crops, and a
// thin separator line centered in each gap. Crops must already be in
// page order. Canvas height is the sum of crop heights plus gap times
// (count-1); canvas width is the maximum crop width.
func Merge(crops []image.Image, gap int) (image.Image, error) {
	if len(crops) < 2 {
		return nil, fmt.Errorf("merge needs at least 2 crops, got %d", len(crops))
	}
	if gap < 0 {
		gap = 0
	}

	totalHeight := gap * (len(crops) - 1)
	maxWidth := 0
	for _, c := range crops {
		b := c.Bounds()
		totalHeight += b.Dy()
		if b.Dx() > maxWidth {
			maxWidth = b.Dx()
		}
	}

	canvas := image.NewRGBA(image.Rect(0, 0, maxWidth, totalHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(mergeBackground), image.Point{}, draw.Src)

	y := 0
	for i, c := range crops {
		b := c.Bounds()
		x := (maxWidth - b.Dx()) / 2
		dst := image.Rect(x, y, x+b.Dx(), y+b.Dy())
		draw.Draw(canvas, dst, c, b.Min, draw.Src)
		y += b.Dy()

		if i < len(crops)-1 {
			lineY := y + gap/2
			for px := 0; px < maxWidth; px++ {
				canvas.SetRGBA(px, lineY, separatorGray)
			}
			y += gap
		}
	}

	return canvas, nil
}
