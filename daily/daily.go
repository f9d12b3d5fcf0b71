// Package daily implements the download, send, delete flow for one
// mushaf page's delivery assets.
//
// For page N the channel receives three files from the drive folder:
// the scan {N+2}.jpg (the source edition's two-page front-matter
// offset), the rendered {N}.png, and the recitation {N}.mp3. Each asset
// is fetched, sent, and its local copy deleted on success; a failed
// asset keeps its local copy and the remaining assets still go out.
package daily

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Fetcher downloads a named file from the asset folder into a local
// directory, returning the local path. drive.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, name, destDir string) (string, error)
}

// Sender delivers a local file to the chat channel. chat.Client
// implements it.
type Sender interface {
	SendFile(ctx context.Context, path, caption string) error
}

// scanPageOffset converts a mushaf page number to its scan file name:
// the scanned edition numbers its images from the cover, two ahead.
const scanPageOffset = 2

// Deliverer runs the daily flow.
type Deliverer struct {
	fetcher Fetcher
	sender  Sender
	workDir string
	logger  *slog.Logger
}

// NewDeliverer creates a deliverer staging downloads in workDir.
func NewDeliverer(fetcher Fetcher, sender Sender, workDir string, logger *slog.Logger) *Deliverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deliverer{fetcher: fetcher, sender: sender, workDir: workDir, logger: logger}
}

// Report summarizes one delivery run.
type Report struct {
	// Sent lists the asset names delivered and cleaned up.
	Sent []string

	// Failed lists the asset names that could not be fetched or sent.
	Failed []string
}

// Deliver fetches and sends the three assets for one mushaf page. It
// returns an error only when every asset failed; partial failures are
// reported in the Report and logged.
func (d *Deliverer) Deliver(ctx context.Context, page int) (*Report, error) {
	if page < 1 {
		return nil, fmt.Errorf("invalid mushaf page %d", page)
	}
	assets := []string{
		fmt.Sprintf("%d.jpg", page+scanPageOffset),
		fmt.Sprintf("%d.png", page),
		fmt.Sprintf("%d.mp3", page),
	}

	report := &Report{}
	for _, name := range assets {
		if err := d.deliverAsset(ctx, name, page); err != nil {
			d.logger.Error("asset delivery failed", "asset", name, "page", page, "error", err)
			report.Failed = append(report.Failed, name)
			continue
		}
		report.Sent = append(report.Sent, name)
	}

	if len(report.Sent) == 0 {
		return report, fmt.Errorf("page %d: all %d assets failed", page, len(assets))
	}
	return report, nil
}

// deliverAsset runs one asset through fetch, send, delete. The local
// copy survives a send failure so a rerun can skip the download.
func (d *Deliverer) deliverAsset(ctx context.Context, name string, page int) error {
	path, err := d.fetcher.Fetch(ctx, name, d.workDir)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if err := d.sender.SendFile(ctx, path, fmt.Sprintf("page %d", page)); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	if err := os.Remove(path); err != nil {
		d.logger.Warn("removing delivered asset failed", "path", path, "error", err)
	}
	return nil
}
