package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hmansour/versecrop/chat"
	"github.com/hmansour/versecrop/daily"
	"github.com/hmansour/versecrop/drive"
)

var (
	dailyPage    int
	dailyWorkDir string
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Fetch and deliver one mushaf page's assets to the chat channel",
	Long: `Daily downloads the scan, rendered image and recitation audio for one
mushaf page from the configured drive folder, sends each to the chat
channel, and deletes the local copies that went out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dailyPage < 1 {
			return fmt.Errorf("--page is required")
		}
		if cfg.Drive.FolderID == "" || cfg.Drive.Token == "" {
			return fmt.Errorf("drive folder_id and token must be configured")
		}
		if cfg.Chat.InstanceID == "" || cfg.Chat.Token == "" || cfg.Chat.ChatID == "" {
			return fmt.Errorf("chat instance_id, token and chat_id must be configured")
		}
		if err := os.MkdirAll(dailyWorkDir, 0o755); err != nil {
			return fmt.Errorf("creating work dir: %w", err)
		}

		deliverer := daily.NewDeliverer(
			drive.NewClient(cfg.Drive.FolderID, cfg.Drive.Token),
			chat.NewClient(cfg.Chat.InstanceID, cfg.Chat.Token, cfg.Chat.ChatID),
			dailyWorkDir,
			slog.Default(),
		)
		report, err := deliverer.Deliver(cmd.Context(), dailyPage)
		if err != nil {
			return err
		}
		fmt.Printf("sent %d assets for page %d\n", len(report.Sent), dailyPage)
		if len(report.Failed) > 0 {
			return fmt.Errorf("failed assets: %v", report.Failed)
		}
		return nil
	},
}

func init() {
	dailyCmd.Flags().IntVarP(&dailyPage, "page", "p", 0, "mushaf page to deliver")
	dailyCmd.Flags().StringVar(&dailyWorkDir, "workdir", os.TempDir(), "staging directory for downloads")
}
