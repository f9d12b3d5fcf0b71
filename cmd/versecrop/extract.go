package main

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/spf13/cobra"

	versecrop "github.com/hmansour/versecrop"
	"github.com/hmansour/versecrop/internal/config"
	"github.com/hmansour/versecrop/model"
	"github.com/hmansour/versecrop/quranapi"
)

var (
	extractRange string
	extractPage  int
	extractFirst int
	extractLast  int
	extractClear bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a verse range or the range covered by mushaf pages",
	Long: `Extract renders the pages covering a verse range into PNG artifacts.
The range is given directly with --range (e.g. 2:255 or 2:255-2:257,
spanning at most two chapters), or resolved from the target mushaf
layout with --page N or --pages FIRST LAST.`,
	Example: `  versecrop extract --range 2:255-2:257
  versecrop extract --page 49
  versecrop extract --pages 1 604 --clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ext, err := buildExtractor()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		var result *model.ExtractionResult
		var warnings []versecrop.Warning
		switch {
		case extractRange != "":
			r, err := parseRange(extractRange)
			if err != nil {
				return err
			}
			result, warnings, err = ext.ExtractRange(ctx, r)
			if err != nil {
				return err
			}
		case extractFirst > 0:
			if extractLast < extractFirst {
				return fmt.Errorf("--pages needs FIRST <= LAST")
			}
			result, warnings, err = ext.ExtractPages(ctx, extractFirst, extractLast)
			if err != nil {
				return err
			}
		case extractPage > 0:
			result, warnings, err = ext.ExtractPage(ctx, extractPage)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("one of --range, --page or --pages is required")
		}

		for _, artifact := range result.Artifacts {
			fmt.Println(artifact)
		}
		if len(warnings) > 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), versecrop.FormatWarnings(warnings))
		}
		if !result.Success {
			return fmt.Errorf("extraction incomplete: %d failures", result.Failures)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractRange, "range", "r", "", "verse range, e.g. 2:255 or 2:255-2:257")
	extractCmd.Flags().IntVarP(&extractPage, "page", "p", 0, "mushaf page to resolve via the provider")
	extractCmd.Flags().IntVar(&extractFirst, "pages", 0, "first mushaf page of an interval (use with --last)")
	extractCmd.Flags().IntVar(&extractLast, "last", 0, "last mushaf page of an interval")
	extractCmd.Flags().BoolVar(&extractClear, "clear", false, "remove prior artifacts from the output directory first")
}

// buildExtractor assembles the extractor chain from the loaded config.
func buildExtractor() (*versecrop.Extractor, error) {
	apiConfig := quranapi.DefaultConfig()
	if cfg.API.BaseURL != "" {
		apiConfig.BaseURL = cfg.API.BaseURL
	}
	if cfg.API.Edition != "" {
		apiConfig.Edition = cfg.API.Edition
	}
	if cfg.API.Timeout > 0 {
		apiConfig.Timeout = cfg.API.Timeout
	}
	apiConfig.Retries = cfg.API.Retries

	ext := versecrop.Open(cfg.Document).
		WithProvider(quranapi.NewClientWithConfig(apiConfig)).
		WithOutputDir(cfg.OutputDir).
		WithZoom(cfg.Zoom).
		WithStartPage(cfg.StartPage)

	if extractClear {
		ext = ext.ClearOutput()
	}
	if cfg.KnownPagesFile != "" {
		pages, err := config.LoadKnownPages(cfg.KnownPagesFile)
		if err != nil {
			return nil, err
		}
		ext = ext.WithKnownPages(pages)
	}
	return ext, nil
}

var rangePattern = regexp.MustCompile(`^(\d+):(\d+)(?:-(\d+):(\d+))?$`)

// parseRange parses "c:v" or "c1:v1-c2:v2".
func parseRange(s string) (model.VerseRange, error) {
	m := rangePattern.FindStringSubmatch(s)
	if m == nil {
		return model.VerseRange{}, fmt.Errorf("invalid range %q, want c:v or c1:v1-c2:v2", s)
	}
	c1, _ := strconv.Atoi(m[1])
	v1, _ := strconv.Atoi(m[2])
	c2, v2 := c1, v1
	if m[3] != "" {
		c2, _ = strconv.Atoi(m[3])
		v2, _ = strconv.Atoi(m[4])
	}
	r := model.NewVerseRange(c1, v1, c2, v2)
	if !r.Valid() {
		return model.VerseRange{}, fmt.Errorf("invalid range %q", s)
	}
	return r, nil
}
