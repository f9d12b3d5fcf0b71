package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/hmansour/versecrop/document"
	"github.com/hmansour/versecrop/model"
)

// Config holds configuration for artifact rendering
type Config struct {
	// Zoom is the super-sampling factor applied uniformly to every page,
	// matching the factor crop coordinates were scaled by.
	// Default: 3.0
	Zoom float64

	// OutputDir is where artifacts are written.
	OutputDir string

	// Gap is the pixel spacing between crops in a merged composite.
	// Default: 60
	Gap int

	// MaxWidth, when positive, downscales composites wider than this
	// many pixels. Used for chat delivery where wide images are
	// rejected. Default: 0 (no downscaling)
	MaxWidth int

	// Logger receives per-artifact events. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Zoom: 3.0,
		Gap:  mergeGapDefault,
	}
}

// Renderer produces the image artifacts for one extraction request.
type Renderer struct {
	config Config
}

// NewRenderer creates a renderer with default configuration
func NewRenderer() *Renderer {
	return NewRendererWithConfig(DefaultConfig())
}

// NewRendererWithConfig creates a renderer with custom configuration
func NewRendererWithConfig(config Config) *Renderer {
	if config.Zoom <= 0 {
		config.Zoom = 3.0
	}
	return &Renderer{config: config}
}

// Output reports what one Render call wrote.
type Output struct {
	// Artifacts lists every file written, in creation order.
	Artifacts []string

	// Merged is the composite path, empty when fewer than two pages
	// produced crops.
	Merged string

	// FailedPages lists pages whose raster or crop step failed. Their
	// failures never abort the remaining pages.
	FailedPages []int
}

// Render produces one uncropped raster per region page, one cropped
// raster per croppable region, and a merged composite when more than one
// page is involved. A failure on one page is logged and skipped; already
// written artifacts are always kept.
func (r *Renderer) Render(doc document.Document, regions []model.CropRegion, naming Naming) (*Output, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("no crop regions to render")
	}
	logger := r.config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if r.config.OutputDir != "" {
		if err := os.MkdirAll(r.config.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}
	}

	out := &Output{}
	var crops []image.Image

	for _, region := range regions {
		raster, err := doc.Render(region.Page, r.config.Zoom)
		if err != nil {
			logger.Warn("page raster failed", "page", region.Page, "error", err)
			out.FailedPages = append(out.FailedPages, region.Page)
			continue
		}

		fullPath := filepath.Join(r.config.OutputDir, naming.FullPage(region.Page))
		if err := writePNG(fullPath, raster); err != nil {
			logger.Warn("full page write failed", "page", region.Page, "error", err)
			out.FailedPages = append(out.FailedPages, region.Page)
			continue
		}
		out.Artifacts = append(out.Artifacts, fullPath)

		if !region.Croppable {
			continue
		}

		cropped, err := cropVertical(raster, region.Start, region.End)
		if err != nil {
			logger.Warn("crop failed", "page", region.Page, "error", err)
			out.FailedPages = append(out.FailedPages, region.Page)
			continue
		}
		croppedPath := filepath.Join(r.config.OutputDir, naming.Cropped(region.Page))
		if err := writePNG(croppedPath, cropped); err != nil {
			logger.Warn("cropped write failed", "page", region.Page, "error", err)
			out.FailedPages = append(out.FailedPages, region.Page)
			continue
		}
		out.Artifacts = append(out.Artifacts, croppedPath)
		crops = append(crops, cropped)
	}

	if len(crops) > 1 {
		merged, err := Merge(crops, r.config.Gap)
		if err != nil {
			logger.Warn("merge failed", "pages", len(crops), "error", err)
			return out, nil
		}
		if r.config.MaxWidth > 0 {
			merged = Downscale(merged, r.config.MaxWidth)
		}
		mergedPath := filepath.Join(r.config.OutputDir, naming.Merged())
		if err := writePNG(mergedPath, merged); err != nil {
			logger.Warn("merged write failed", "error", err)
			return out, nil
		}
		out.Artifacts = append(out.Artifacts, mergedPath)
		out.Merged = mergedPath
	}

	return out, nil
}

// cropVertical keeps the full width of img between render-space rows
// start and end.
func cropVertical(img image.Image, start, end float64) (image.Image, error) {
	b := img.Bounds()
	top := b.Min.Y + int(start)
	bottom := b.Min.Y + int(end)
	if top < b.Min.Y {
		top = b.Min.Y
	}
	if bottom > b.Max.Y {
		bottom = b.Max.Y
	}
	if top >= bottom {
		return nil, fmt.Errorf("degenerate crop [%d, %d)", top, bottom)
	}

	rect := image.Rect(b.Min.X, top, b.Max.X, bottom)
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)
	return out, nil
}

// Downscale shrinks img proportionally so its width does not exceed
// maxWidth. Images already narrow enough are returned unchanged.
func Downscale(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, b, xdraw.Over, nil)
	return out
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
