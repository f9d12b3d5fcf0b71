package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// artifactPrefix opens every file name this package writes. Pre-run
// cleanup only touches files carrying it.
const artifactPrefix = "quran_"

// Naming derives the deterministic artifact file names for one
// chapter-local verse interval.
type Naming struct {
	Chapter    int
	StartVerse int
	EndVerse   int
}

// base returns the shared name stem, e.g. "quran_surah2_verse5-7".
func (n Naming) base() string {
	name := fmt.Sprintf("%ssurah%d_verse%d", artifactPrefix, n.Chapter, n.StartVerse)
	if n.EndVerse != n.StartVerse {
		name += fmt.Sprintf("-%d", n.EndVerse)
	}
	return name
}

// FullPage names the uncropped backup raster for a source page.
func (n Naming) FullPage(page int) string {
	return fmt.Sprintf("%s_page%d.png", n.base(), page)
}

// Cropped names the cropped raster for a source page.
func (n Naming) Cropped(page int) string {
	return fmt.Sprintf("%s_page%d_cropped.png", n.base(), page)
}

// Merged names the multi-page composite raster.
func (n Naming) Merged() string {
	return n.base() + "_merged.png"
}

// ClearOutputDir deletes prior artifacts from dir so a fresh run cannot
// be confused with stale output. Only files with the artifact prefix and
// a .png suffix are touched; a missing directory is not an error.
func ClearOutputDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading output dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, artifactPrefix) || !strings.HasSuffix(name, ".png") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("removing %s: %w", name, err)
		}
	}
	return nil
}
