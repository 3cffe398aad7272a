package shortener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"filegate/internal/common/config"
	"filegate/internal/common/logger"

	"github.com/stretchr/testify/assert"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	return NewClient(config.ShortenerConfig{
		URL:            baseURL,
		APIKey:         "test-key",
		TimeoutSeconds: 2,
	}, logger.NewTestLogger(t))
}

func TestClient_Shorten(t *testing.T) {
	t.Run("returns the shortened link", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "test-key", r.URL.Query().Get("api"))
			assert.Equal(t, "https://t.me/bot?start=tok", r.URL.Query().Get("url"))
			w.Write([]byte(`{"status":"success","shortenedUrl":"https://short.example/abc"}`))
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)
		got := c.Shorten(context.Background(), "https://t.me/bot?start=tok")
		assert.Equal(t, "https://short.example/abc", got)
	})

	t.Run("falls back to the raw link on server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)
		got := c.Shorten(context.Background(), "https://t.me/bot?start=tok")
		assert.Equal(t, "https://t.me/bot?start=tok", got)
	})

	t.Run("falls back on malformed response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)
		got := c.Shorten(context.Background(), "https://t.me/bot?start=tok")
		assert.Equal(t, "https://t.me/bot?start=tok", got)
	})

	t.Run("falls back when unreachable", func(t *testing.T) {
		c := newTestClient(t, "http://127.0.0.1:1")
		got := c.Shorten(context.Background(), "https://t.me/bot?start=tok")
		assert.Equal(t, "https://t.me/bot?start=tok", got)
	})

	t.Run("passes through when unconfigured", func(t *testing.T) {
		c := newTestClient(t, "")
		got := c.Shorten(context.Background(), "https://t.me/bot?start=tok")
		assert.Equal(t, "https://t.me/bot?start=tok", got)
	})
}

func TestDeepLink(t *testing.T) {
	assert.Equal(t, "https://t.me/gatebot?start=tok-1", DeepLink("gatebot", "tok-1"))
}
