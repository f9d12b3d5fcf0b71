// Package fitz implements the document backend on MuPDF via the
// github.com/gen2brain/go-fitz binding.
//
// Styled layout trees are recovered from MuPDF's HTML rendering of a
// page: each positioned paragraph becomes a line, its spans become
// styled runs, and lines are grouped into blocks by vertical proximity.
// Plain text and rasters come straight from the binding.
package fitz
