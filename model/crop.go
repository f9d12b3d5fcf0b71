package model

// CropRegion is one page's vertical crop in render-space coordinates
// (document units multiplied by the rasterization zoom). Regions are
// derived per request and consumed once by the renderer.
type CropRegion struct {
	Page  int
	Start float64
	End   float64

	// Croppable is false when the computed boundaries were degenerate;
	// the renderer keeps the full page instead of cropping.
	Croppable bool
}

// Height returns the region's vertical extent in render-space pixels.
func (r CropRegion) Height() float64 {
	return r.End - r.Start
}

// ExtractionResult reports the outcome of one extraction request.
type ExtractionResult struct {
	// Artifacts lists the paths of every image written, in creation order.
	Artifacts []string

	// Success is true when every sub-request produced at least one
	// artifact.
	Success bool

	// MissingVerses lists target verses never located on any scanned
	// page, ascending. A non-empty list does not by itself mean failure.
	MissingVerses []int

	// Failures counts chapters that could not be resolved to a page.
	Failures int
}
