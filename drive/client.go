// Package drive fetches files from a Google Drive folder over the v3
// REST API.
//
// Only two endpoints are needed: files.list to resolve a name within
// the configured folder to a file ID, and files.get with alt=media to
// download the content. Calls carry a bearer token and are retried a
// bounded number of times.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// Config holds configuration for the drive client
type Config struct {
	// BaseURL is the API root.
	// Default: https://www.googleapis.com/drive/v3
	BaseURL string

	// FolderID is the folder file lookups are scoped to.
	FolderID string

	// Token is the OAuth bearer token sent with every request.
	Token string

	// Timeout applies per HTTP call.
	// Default: 30s
	Timeout time.Duration

	// Retries is how many additional attempts follow a failed call.
	// Default: 2
	Retries uint

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client

	// Logger receives request events. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://www.googleapis.com/drive/v3",
		Timeout: 30 * time.Second,
		Retries: 2,
	}
}

// Client downloads named files from one drive folder.
type Client struct {
	config Config
	http   *http.Client
}

// NewClient creates a client with default configuration plus the given
// folder and token.
func NewClient(folderID, token string) *Client {
	config := DefaultConfig()
	config.FolderID = folderID
	config.Token = token
	return NewClientWithConfig(config)
}

// NewClientWithConfig creates a client with custom configuration
func NewClientWithConfig(config Config) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	return &Client{config: config, http: httpClient}
}

type fileList struct {
	Files []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"files"`
}

// FindFile resolves a file name within the configured folder to its
// file ID. A name matching nothing is an error.
func (c *Client) FindFile(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false",
		escapeQueryString(name), c.config.FolderID)
	u := fmt.Sprintf("%s/files?q=%s&fields=files(id,name)",
		c.config.BaseURL, url.QueryEscape(query))

	var id string
	err := c.withRetry(ctx, func() error {
		body, err := c.get(ctx, u)
		if err != nil {
			return err
		}
		var list fileList
		if err := json.Unmarshal(body, &list); err != nil {
			return fmt.Errorf("decoding file list: %w", err)
		}
		if len(list.Files) == 0 {
			return retry.Unrecoverable(fmt.Errorf("no file named %q in folder", name))
		}
		id = list.Files[0].ID
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("finding %s: %w", name, err)
	}
	return id, nil
}

// Download writes the content of a file ID to destPath.
func (c *Client) Download(ctx context.Context, fileID, destPath string) error {
	u := fmt.Sprintf("%s/files/%s?alt=media", c.config.BaseURL, url.PathEscape(fileID))

	err := c.withRetry(ctx, func() error {
		body, err := c.get(ctx, u)
		if err != nil {
			return err
		}
		return os.WriteFile(destPath, body, 0o644)
	})
	if err != nil {
		return fmt.Errorf("downloading %s: %w", fileID, err)
	}
	return nil
}

// Fetch resolves a name in the folder and downloads it into destDir,
// returning the local path.
func (c *Client) Fetch(ctx context.Context, name, destDir string) (string, error) {
	id, err := c.FindFile(ctx, name)
	if err != nil {
		return "", err
	}
	destPath := filepath.Join(destDir, name)
	if err := c.Download(ctx, id, destPath); err != nil {
		return "", err
	}
	c.logger().Debug("fetched drive file", "name", name, "id", id, "path", destPath)
	return destPath, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(c.config.Retries+1),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger().Debug("retrying drive call", "attempt", n+1, "error", err)
		}),
	)
}

// escapeQueryString escapes the quotes the drive query language treats
// specially.
func escapeQueryString(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `'`, `\'`)
}

func (c *Client) logger() *slog.Logger {
	if c.config.Logger != nil {
		return c.config.Logger
	}
	return slog.Default()
}
