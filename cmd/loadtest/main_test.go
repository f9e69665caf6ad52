package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-cat-service/internal/config"
	"github.com/tbourn/go-cat-service/internal/loadgen"
)

func TestRun_PrintsOneLinePerScenario(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run(context.Background(), []string{"-suite=alerts", "-base=" + srv.URL, "-scale=0.0005"},
		config.LoadTestConfig{}, &out, zerolog.Nop())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("output = %q; want 4 lines", out.String())
	}
	for _, name := range []string{"high_api_rps", "high_latency", "errors_5xx", "high_db_rps"} {
		if !strings.Contains(out.String(), name+":") {
			t.Fatalf("missing %s in %q", name, out.String())
		}
	}
}

func TestRun_FlagErrors(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"-suite=nope"}, "unknown suite"},
		{[]string{"-scale=0"}, "-scale"},
		{[]string{"-workers=0"}, "-workers"},
		{[]string{"-bogus"}, "flag provided but not defined"},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		err := run(context.Background(), tc.args, config.LoadTestConfig{BaseURL: "http://127.0.0.1:1", Scale: 1}, &out, zerolog.Nop())
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%v: err = %v; want %q", tc.args, err, tc.want)
		}
	}
}

func TestRun_UnavailableService(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	err := run(context.Background(), []string{"-base=" + srv.URL}, config.LoadTestConfig{Scale: 1}, &bytes.Buffer{}, zerolog.Nop())
	if !errors.Is(err, loadgen.ErrUnavailable) {
		t.Fatalf("err = %v; want ErrUnavailable", err)
	}
}
