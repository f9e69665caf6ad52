// Package catapi fetches random pictures from TheCatAPI-compatible search
// endpoints. Upstream latency is exported as a Prometheus histogram so the
// "slow external cat API" alert has something to fire on.
package catapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tbourn/go-cat-service/internal/config"
)

// ErrNoImage is returned when the upstream answered without a usable URL.
var ErrNoImage = errors.New("catapi: no image in response")

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

// Client calls the image search endpoint. It is safe for concurrent use.
type Client struct {
	http     *http.Client
	url      string
	apiKey   string
	duration *prometheus.HistogramVec
}

// New builds a Client from cfg and registers its latency histogram on reg
// (nil leaves it unregistered).
func New(cfg config.CatAPIConfig, reg prometheus.Registerer) *Client {
	return &Client{
		http:   &http.Client{Timeout: cfg.Timeout},
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cat_api_request_duration_seconds",
				Help:    "Latency of image API requests in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"outcome"},
		),
	}
}

type image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Random returns the URL of one random picture.
func (c *Client) Random(ctx context.Context) (url string, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		c.duration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("catapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("catapi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return "", fmt.Errorf("catapi: upstream status %d", resp.StatusCode)
	}

	var images []image
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&images); err != nil {
		return "", fmt.Errorf("catapi: decode: %w", err)
	}
	for _, img := range images {
		if u := strings.TrimSpace(img.URL); u != "" {
			return u, nil
		}
	}
	return "", ErrNoImage
}
