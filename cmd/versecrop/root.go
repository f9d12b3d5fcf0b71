package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hmansour/versecrop/internal/config"
	"github.com/hmansour/versecrop/internal/logging"
	"github.com/hmansour/versecrop/version"
)

var (
	cfgFile   string
	outputDir string
	verbose   bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "versecrop",
	Short: "Extract verse-range images from a Quran translation PDF",
	Long: `Versecrop locates chapters and verse markers in a paginated Quran
translation by layout heuristics, crops the pages down to the requested
verse range, and renders the result as PNG images, merging multi-page
extracts into one composite.`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		manager, err := config.NewManager(cfgFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		cfg = manager.Get()
		if outputDir != "" {
			cfg.OutputDir = outputDir
		}

		level := logging.ParseLevel(cfg.Logging.Level)
		if verbose {
			level = logging.LevelDebug
		}
		logging.Init(level, logging.ParseFormat(cfg.Logging.Format))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.versecrop/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputDir, "output", "o", "", "output directory for image artifacts",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
