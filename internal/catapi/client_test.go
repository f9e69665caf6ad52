package catapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tbourn/go-cat-service/internal/config"
)

func newClient(t *testing.T, h http.HandlerFunc, key string) (*Client, *prometheus.Registry) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	reg := prometheus.NewRegistry()
	return New(config.CatAPIConfig{URL: srv.URL + "/v1/images/search", APIKey: key, Timeout: time.Second}, reg), reg
}

func TestRandom_ReturnsFirstURLAndSendsKey(t *testing.T) {
	var gotKey, gotPath string
	c, reg := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"abc","url":"https://cdn2.thecatapi.com/images/abc.jpg","width":500}]`))
	}, "secret")

	url, err := c.Random(context.Background())
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	if url != "https://cdn2.thecatapi.com/images/abc.jpg" {
		t.Fatalf("url = %q", url)
	}
	if gotKey != "secret" || gotPath != "/v1/images/search" {
		t.Fatalf("key=%q path=%q", gotKey, gotPath)
	}
	if n, err := testutil.GatherAndCount(reg, "cat_api_request_duration_seconds"); err != nil || n != 1 {
		t.Fatalf("latency series = %d (%v)", n, err)
	}
}

func TestRandom_NoKeyHeaderWhenUnset(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["X-Api-Key"]; ok {
			t.Errorf("x-api-key sent without a key")
		}
		_, _ = w.Write([]byte(`[{"url":"u"}]`))
	}, "")
	if _, err := c.Random(context.Background()); err != nil {
		t.Fatalf("Random: %v", err)
	}
}

func TestRandom_Failures(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
		want error
		msg  string
	}{
		{"empty array", `[]`, http.StatusOK, ErrNoImage, ""},
		{"blank url", `[{"url":"  "}]`, http.StatusOK, ErrNoImage, ""},
		{"bad json", `{`, http.StatusOK, nil, "decode"},
		{"upstream 500", `oops`, http.StatusInternalServerError, nil, "status 500"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, reg := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				_, _ = w.Write([]byte(tc.body))
			}, "")
			_, err := c.Random(context.Background())
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("err = %v; want %v", err, tc.want)
			}
			if tc.msg != "" && !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("err = %v; want it to mention %q", err, tc.msg)
			}
			if n, _ := testutil.GatherAndCount(reg, "cat_api_request_duration_seconds"); n != 1 {
				t.Fatalf("error outcome not observed")
			}
		})
	}
}

func TestRandom_HonoursContext(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, "")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Random(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v; want deadline exceeded", err)
	}
}
