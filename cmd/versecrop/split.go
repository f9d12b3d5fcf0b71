package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hmansour/versecrop/split"
)

var splitOutDir string

var splitCmd = &cobra.Command{
	Use:   "split [source.pdf]",
	Short: "Split a PDF into single-page files named page_N.pdf",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := cfg.Document
		if len(args) == 1 {
			src = args[0]
		}
		pages, err := split.Pages(src, splitOutDir, slog.Default())
		if err != nil {
			return err
		}
		fmt.Printf("wrote %d pages to %s\n", pages, splitOutDir)
		return nil
	},
}

func init() {
	splitCmd.Flags().StringVar(&splitOutDir, "dir", "pages", "directory for the single-page files")
}
