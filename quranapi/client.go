// Package quranapi implements the verse-range provider on the
// alquran.cloud REST API.
//
// The provider answers one question per call: which (chapter, verse)
// span does a given mushaf page cover. Calls are retried a bounded
// number of times with no backoff; a call that exhausts its retries is
// reported to the caller, which skips that page rather than aborting
// the run.
package quranapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/hmansour/versecrop/model"
)

// Config holds configuration for the API client
type Config struct {
	// BaseURL is the API root.
	// Default: https://api.alquran.cloud/v1
	BaseURL string

	// Edition selects the text edition pages are resolved against.
	// Default: quran-uthmani
	Edition string

	// Timeout applies per HTTP call.
	// Default: 10s
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
		BaseURL: "https://api.alquran.cloud/v1",
		Edition: "quran-uthmani",
		Timeout: 10 * time.Second,
		Retries: 2,
	}
}

// Client resolves mushaf pages to verse ranges.
type Client struct {
	config Config
	http   *http.Client
}

// NewClient creates a client with default configuration
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client with custom configuration
func NewClientWithConfig(config Config) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	return &Client{config: config, http: httpClient}
}

// pageResponse is the subset of the page payload the client consumes.
// Unknown and missing fields are tolerated; absent required fields fail
// the attempt.
type pageResponse struct {
	Code int    `json:"code"`
	Data *struct {
		Ayahs []struct {
			NumberInSurah int `json:"numberInSurah"`
			Surah         struct {
				Number        int `json:"number"`
				NumberOfAyahs int `json:"numberOfAyahs"`
			} `json:"surah"`
		} `json:"ayahs"`
	} `json:"data"`
}

type surahResponse struct {
	Code int `json:"code"`
	Data *struct {
		NumberOfAyahs int `json:"numberOfAyahs"`
	} `json:"data"`
}

// PageRange returns the first and last (chapter, verse) covered by a
// mushaf page of the target edition.
func (c *Client) PageRange(ctx context.Context, page int) (model.VerseRange, error) {
	if page < 1 {
		return model.VerseRange{}, fmt.Errorf("invalid mushaf page %d", page)
	}

	var rng model.VerseRange
	url := fmt.Sprintf("%s/page/%d/%s", c.config.BaseURL, page, c.config.Edition)
	err := c.withRetry(ctx, url, func(body []byte) error {
		var resp pageResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("decoding page payload: %w", err)
		}
		if resp.Data == nil || len(resp.Data.Ayahs) == 0 {
			return fmt.Errorf("page payload missing ayahs")
		}
		first := resp.Data.Ayahs[0]
		last := resp.Data.Ayahs[len(resp.Data.Ayahs)-1]
		rng = model.NewVerseRange(
			first.Surah.Number, first.NumberInSurah,
			last.Surah.Number, last.NumberInSurah,
		)
		if !rng.Valid() {
			return fmt.Errorf("page payload yields invalid range %s", rng)
		}
		return nil
	})
	if err != nil {
		return model.VerseRange{}, fmt.Errorf("page %d range: %w", page, err)
	}
	return rng, nil
}

// ChapterVerseCount returns the number of verses in a chapter, used to
// close the first half of a cross-chapter request. API failures fall
// back to the built-in table for the chapters it covers.
func (c *Client) ChapterVerseCount(ctx context.Context, chapter int) (int, error) {
	if chapter < 1 {
		return 0, fmt.Errorf("invalid chapter %d", chapter)
	}

	var count int
	url := fmt.Sprintf("%s/surah/%d", c.config.BaseURL, chapter)
	err := c.withRetry(ctx, url, func(body []byte) error {
		var resp surahResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("decoding surah payload: %w", err)
		}
		if resp.Data == nil || resp.Data.NumberOfAyahs < 1 {
			return fmt.Errorf("surah payload missing verse count")
		}
		count = resp.Data.NumberOfAyahs
		return nil
	})
	if err != nil {
		if fallback, ok := knownVerseCounts[chapter]; ok {
			c.logger().Warn("using built-in verse count after API failure",
				"chapter", chapter, "count", fallback, "error", err)
			return fallback, nil
		}
		return 0, fmt.Errorf("chapter %d verse count: %w", chapter, err)
	}
	return count, nil
}

// knownVerseCounts covers the chapters the known-page table covers, so
// cross-chapter splits survive provider outages for those chapters.
var knownVerseCounts = map[int]int{
	1: 7,
	2: 286,
	3: 200,
	4: 176,
	7: 206,
	9: 129,
}

// withRetry performs a GET with the configured bounded retry policy and
// hands the response body to parse. Parse errors count as failed
// attempts: a malformed payload is retried like a network error.
func (c *Client) withRetry(ctx context.Context, url string, parse func(body []byte) error) error {
	attempts := c.config.Retries + 1
	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := c.http.Do(req)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("reading response: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %d", resp.StatusCode)
			}
			return parse(body)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(100*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger().Debug("retrying provider call", "url", url, "attempt", n+1, "error", err)
		}),
	)
}

func (c *Client) logger() *slog.Logger {
	if c.config.Logger != nil {
		return c.config.Logger
	}
	return slog.Default()
}
