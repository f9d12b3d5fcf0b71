// Package split breaks a source PDF into single-page PDFs.
package split

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Pages splits the PDF at srcPath into one file per page under outDir,
// named page_1.pdf through page_N.pdf. It returns the number of pages
// written.
func Pages(srcPath, outDir string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", srcPath, err)
	}
	pageCount, err := api.PageCount(f, nil)
	f.Close()
	if err != nil {
		return 0, fmt.Errorf("counting pages of %s: %w", srcPath, err)
	}
	if pageCount < 1 {
		return 0, fmt.Errorf("%s has no pages", srcPath)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating output dir: %w", err)
	}
	if err := api.SplitFile(srcPath, outDir, 1, nil); err != nil {
		return 0, fmt.Errorf("splitting %s: %w", srcPath, err)
	}

	// pdfcpu names the parts <stem>_<n>.pdf; rename to page_<n>.pdf.
	stem := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	for n := 1; n <= pageCount; n++ {
		from := filepath.Join(outDir, fmt.Sprintf("%s_%d.pdf", stem, n))
		to := filepath.Join(outDir, fmt.Sprintf("page_%d.pdf", n))
		if err := os.Rename(from, to); err != nil {
			return 0, fmt.Errorf("renaming part %d: %w", n, err)
		}
	}

	logger.Info("document split", "source", srcPath, "pages", pageCount, "dir", outDir)
	return pageCount, nil
}
