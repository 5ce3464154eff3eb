// Package cms implements the HTTP client for the headless CMS that serves
// list presets, card style descriptors, and playlist feeds. All methods are
// context-aware, respect the shared rate limiter, and retry on transient
// errors (429, 5xx).
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/MurthyAvanithsa/railview/internal/model"
)

const (
	defaultBaseURL = "https://strapi-dev.trilogyapps.com"
	maxRetries     = 4

	listSettingsPath = "/api/list-settings?populate=all"
	cardStylesPath   = "/api/mobile-card-styles?populate=all"
)

// Client is the CMS HTTP client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	debug      bool
}

// NewClient creates a Client against baseURL with the given timeout and
// request rate. An empty baseURL selects the default CMS host.
func NewClient(baseURL string, timeout time.Duration, ratePerSec float64, debug bool) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	burst := int(ratePerSec)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst),
		debug:   debug,
	}
}

// envelope is the `{data, meta}` wrapper both settings endpoints return.
type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta map[string]any  `json:"meta"`
}

// ─── Settings ─────────────────────────────────────────────────────────────────

// ListSettings fetches the list preset collection.
func (c *Client) ListSettings(ctx context.Context) ([]model.ListPreset, error) {
	var env envelope
	if err := c.get(ctx, c.baseURL+listSettingsPath, &env); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	var presets []model.ListPreset
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &presets); err != nil {
			return nil, fmt.Errorf("list settings: decoding data: %w", err)
		}
	}
	return presets, nil
}

// CardStyles fetches the raw card style descriptor collection. Descriptors
// stay loose maps; normalization happens in the style package.
func (c *Client) CardStyles(ctx context.Context) ([]model.RawDescriptor, error) {
	var env envelope
	if err := c.get(ctx, c.baseURL+cardStylesPath, &env); err != nil {
		return nil, fmt.Errorf("card styles: %w", err)
	}
	var styles []model.RawDescriptor
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &styles); err != nil {
			return nil, fmt.Errorf("card styles: decoding data: %w", err)
		}
	}
	return styles, nil
}

// FetchSettings fetches both settings collections concurrently and stamps
// the fetch time. Either failure fails the whole fetch.
func (c *Client) FetchSettings(ctx context.Context) (model.CachedSettings, error) {
	var (
		wg        sync.WaitGroup
		presets   []model.ListPreset
		styles    []model.RawDescriptor
		presetErr error
		stylesErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		presets, presetErr = c.ListSettings(ctx)
	}()
	go func() {
		defer wg.Done()
		styles, stylesErr = c.CardStyles(ctx)
	}()
	wg.Wait()

	if presetErr != nil {
		return model.CachedSettings{}, presetErr
	}
	if stylesErr != nil {
		return model.CachedSettings{}, stylesErr
	}
	return model.CachedSettings{
		ListSettings: presets,
		CardStyles:   styles,
		FetchedAt:    time.Now().UTC(),
	}, nil
}

// ─── Playlists ────────────────────────────────────────────────────────────────

// Playlist fetches a playlist feed by absolute URL. Feeds wrap their items
// in `entry` (playlists) or `items` (virtual feeds); an absent list decodes
// to an empty slice, not an error.
func (c *Client) Playlist(ctx context.Context, url string) ([]model.ContentItem, error) {
	if url == "" {
		return nil, fmt.Errorf("playlist: empty URL")
	}
	var raw struct {
		ID    any                 `json:"id"`
		Title string              `json:"title"`
		Entry []model.ContentItem `json:"entry"`
		Items []model.ContentItem `json:"items"`
	}
	if err := c.get(ctx, url, &raw); err != nil {
		return nil, fmt.Errorf("playlist %s: %w", url, err)
	}
	if raw.Entry != nil {
		return raw.Entry, nil
	}
	if raw.Items != nil {
		return raw.Items, nil
	}
	return []model.ContentItem{}, nil
}

// ─── Low-level HTTP ───────────────────────────────────────────────────────────

// get performs a GET request, handling rate limiting and bounded retry with
// exponential backoff on 429 and server errors.
func (c *Client) get(ctx context.Context, reqURL string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if c.debug {
		slog.Debug("cms request", "url", reqURL)
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))*500) * time.Millisecond
			slog.Debug("retrying after backoff", "attempt", attempt, "backoff", backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "railview/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("reading body: %w", err)
			continue
		}

		if c.debug {
			slog.Debug("cms response", "status", resp.StatusCode, "bytes", len(body))
		}

		// Retry on server errors and rate limiting
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			continue
		}

		if resp.StatusCode != http.StatusOK {
			var apiErr struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			}
			_ = json.Unmarshal(body, &apiErr)
			if apiErr.Error.Message != "" {
				return fmt.Errorf("API error: %s", apiErr.Error.Message)
			}
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("after %d attempts: %w", maxRetries, lastErr)
}
