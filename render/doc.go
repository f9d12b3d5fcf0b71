// Package render rasterizes pages, applies crop regions, and merges
// multi-page crops into one composite image.
//
// All coordinates arriving here are render-space values: document units
// already multiplied by the same zoom factor the renderer rasterizes at,
// so crops line up with the produced pixels exactly. Every relevant page
// is always written uncropped as a safety backup; cropped and merged
// variants are added when the geometry allows.
package render
