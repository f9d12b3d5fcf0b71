// Package chat delivers files to a chat channel through the Green API
// sendFileByUpload endpoint.
package chat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
)

// Config holds configuration for the chat client
type Config struct {
	// BaseURL is the API root.
	// Default: https://api.green-api.com
	BaseURL string

	// InstanceID and Token identify the API instance.
	InstanceID string
	Token      string

	// ChatID is the channel files are sent to.
	ChatID string

	// Timeout applies per HTTP call.
	// Default: 60s
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
		BaseURL: "https://api.green-api.com",
		Timeout: 60 * time.Second,
		Retries: 2,
	}
}

// Client uploads files to one chat.
type Client struct {
	config Config
	http   *http.Client
}

// NewClient creates a client with default configuration plus the given
// instance credentials and target chat.
func NewClient(instanceID, token, chatID string) *Client {
	config := DefaultConfig()
	config.InstanceID = instanceID
	config.Token = token
	config.ChatID = chatID
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

// SendFile uploads the file at path to the configured chat with an
// optional caption. Non-2xx responses are errors after retries.
func (c *Client) SendFile(ctx context.Context, path, caption string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	fileName := filepath.Base(path)
	u := fmt.Sprintf("%s/waInstance%s/sendFileByUpload/%s",
		c.config.BaseURL, c.config.InstanceID, c.config.Token)

	err = retry.Do(
		func() error {
			body, contentType, err := encodeUpload(c.config.ChatID, fileName, caption, data)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", contentType)

			resp, err := c.http.Do(req)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
				return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, payload)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.config.Retries+1),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger().Debug("retrying chat upload", "file", fileName, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("sending %s: %w", fileName, err)
	}
	c.logger().Info("file sent", "file", fileName, "chat", c.config.ChatID)
	return nil
}

// encodeUpload builds the multipart body the endpoint expects: a chatId
// field, an optional caption, and the file content.
func encodeUpload(chatID, fileName, caption string, data []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if err := w.WriteField("chatId", chatID); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("fileName", fileName); err != nil {
		return nil, "", err
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			return nil, "", err
		}
	}
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

func (c *Client) logger() *slog.Logger {
	if c.config.Logger != nil {
		return c.config.Logger
	}
	return slog.Default()
}
