// Package shortener wraps the ad-monetized link shortener used for token
// delivery. Shortening is strictly best effort: token delivery never depends
// on the provider being up.
package shortener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"filegate/internal/common/config"
	"filegate/internal/common/logger"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     logger.Logger
}

func NewClient(cfg config.ShortenerConfig, log logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		logger:  log.WithFields(map[string]interface{}{"component": "shortener"}),
	}
}

type shortenResponse struct {
	Status       string `json:"status"`
	ShortenedURL string `json:"shortenedUrl"`
}

// Shorten returns the monetized short link for longURL. On any failure the
// original URL is returned so the caller always has something to hand out.
func (c *Client) Shorten(ctx context.Context, longURL string) string {
	if c.baseURL == "" {
		return longURL
	}

	q := url.Values{}
	q.Set("api", c.apiKey)
	q.Set("url", longURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		c.logger.WithError(err).Warn("failed to build shorten request", nil)
		return longURL
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Warn("shortener unreachable, using raw link", nil)
		return longURL
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("shortener returned non-OK status", map[string]interface{}{
			"status": resp.StatusCode,
		})
		return longURL
	}

	var out shortenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logger.WithError(err).Warn("failed to decode shortener response", nil)
		return longURL
	}
	if out.ShortenedURL == "" {
		return longURL
	}
	return out.ShortenedURL
}

// DeepLink builds the bot deep link that redeems a token.
func DeepLink(botUsername, token string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", botUsername, token)
}
