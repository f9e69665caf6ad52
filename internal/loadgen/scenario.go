// Package loadgen drives synthetic HTTP traffic against the cat service to
// exercise its Prometheus alerting rules.
//
// A Scenario describes one traffic shape; a Suite chains stages of scenarios
// (scenarios within a stage run concurrently). Runner executes them against a
// base URL, and Launcher starts one suite at a time in the background for the
// /api/test/alerts endpoint.
package loadgen

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"
)

// Suite names.
const (
	SuiteAlerts     = "alerts"
	SuiteSequential = "sequential"
	SuiteDBLoad     = "dbload"
	SuiteMixed      = "mixed"
)

var (
	// ErrUnknownSuite is returned for an unregistered suite name.
	ErrUnknownSuite = errors.New("loadgen: unknown suite")
	// ErrBusy is returned by Launcher.Start while a run is in progress.
	ErrBusy = errors.New("loadgen: a run is already in progress")
	// ErrUnavailable is returned when the availability probe fails.
	ErrUnavailable = errors.New("loadgen: service unavailable")
)

// Target is one request shape. Weight only matters inside Scenario.Mix.
type Target struct {
	Method string
	Path   string
	Weight int
}

// Scenario is one traffic shape. Exactly one mode applies:
//
//   - Mix non-empty: Workers loop picking a weighted target, then sleep a
//     random think time in [ThinkMin, ThinkMax].
//   - Rate > 0: requests to Method/Path are paced by a token bucket at Rate
//     per second, at most Workers in flight.
//   - otherwise: Batch parallel requests to Method/Path, then Pause.
//
// Duration bounds the scenario; in-flight requests are allowed to finish.
type Scenario struct {
	Name     string
	Duration time.Duration

	Method string
	Path   string

	Batch int
	Pause time.Duration

	Rate float64

	Mix      []Target
	Workers  int
	ThinkMin time.Duration
	ThinkMax time.Duration
}

// Stage runs its scenarios concurrently, then waits Cooldown.
type Stage struct {
	Scenarios []Scenario
	Cooldown  time.Duration
}

// Suite is a named sequence of stages preceded by an availability probe.
type Suite struct {
	Name   string
	Probe  Target
	Stages []Stage
}

// Result summarizes one scenario run.
type Result struct {
	Name     string
	Requests int64
	Failures int64
	Elapsed  time.Duration
	// Statuses counts responses by HTTP status; transport errors are not included.
	Statuses map[int]int64
}

func (r Result) String() string {
	return fmt.Sprintf("%s: %d requests, %d failures in %s", r.Name, r.Requests, r.Failures, r.Elapsed.Round(time.Millisecond))
}

func (s Scenario) mode() string {
	switch {
	case len(s.Mix) > 0:
		return "mix"
	case s.Rate > 0:
		return "paced"
	default:
		return "batch"
	}
}

func get(path string) Target  { return Target{Method: http.MethodGet, Path: path} }
func post(path string) Target { return Target{Method: http.MethodPost, Path: path} }

func batch(name string, t Target, n int, pause, dur time.Duration) Scenario {
	return Scenario{Name: name, Duration: dur, Method: t.Method, Path: t.Path, Batch: n, Pause: pause}
}

// Suites returns every built-in suite. workers sizes the mixed suite.
func Suites(workers int) map[string]Suite {
	if workers < 1 {
		workers = 10
	}
	const (
		alertDur = 120 * time.Second
		seqDur   = 60 * time.Second
		cooldown = 30 * time.Second
	)
	return map[string]Suite{
		SuiteAlerts: {
			Name:  SuiteAlerts,
			Probe: get("/health"),
			Stages: []Stage{{Scenarios: []Scenario{
				batch("high_api_rps", get("/api/test/latency?ms=100"), 50, 100*time.Millisecond, alertDur),
				batch("high_latency", get("/api/test/latency?ms=1000"), 10, 200*time.Millisecond, alertDur),
				batch("errors_5xx", get("/api/test/error"), 1, 100*time.Millisecond, alertDur),
				batch("high_db_rps", post("/api/test/dbload?count=1"), 50, 100*time.Millisecond, 180*time.Second),
			}}},
		},
		SuiteSequential: {
			Name:  SuiteSequential,
			Probe: get("/api/cat"),
			Stages: []Stage{
				{Scenarios: []Scenario{batch("high_db_rps", post("/api/test/dbload?count=100"), 1, time.Second, seqDur)}, Cooldown: cooldown},
				{Scenarios: []Scenario{batch("high_api_rps", get("/api/cat"), 12, 100*time.Millisecond, seqDur)}, Cooldown: cooldown},
				{Scenarios: []Scenario{batch("high_latency", get("/api/test/latency?ms=1000"), 5, 200*time.Millisecond, seqDur)}, Cooldown: cooldown},
				{Scenarios: []Scenario{batch("errors_5xx", get("/api/test/error"), 1, 100*time.Millisecond, seqDur)}, Cooldown: cooldown},
			},
		},
		SuiteDBLoad: {
			Name:  SuiteDBLoad,
			Probe: post("/api/test/dbload?count=1"),
			Stages: []Stage{{Scenarios: []Scenario{{
				Name:     "db_rps",
				Duration: 120 * time.Second,
				Method:   http.MethodPost,
				Path:     "/api/test/dbload?count=1",
				Rate:     120,
				Workers:  64,
			}}}},
		},
		SuiteMixed: {
			Name:  SuiteMixed,
			Probe: get("/health"),
			Stages: []Stage{{Scenarios: []Scenario{{
				Name:     "mixed",
				Duration: 120 * time.Second,
				Mix: []Target{
					{Method: http.MethodPost, Path: "/api/test/dbload?count=1", Weight: 5},
					{Method: http.MethodGet, Path: "/api/test/latency?ms=100", Weight: 3},
					{Method: http.MethodGet, Path: "/api/test/error", Weight: 2},
				},
				Workers:  workers,
				ThinkMin: 10 * time.Millisecond,
				ThinkMax: 50 * time.Millisecond,
			}}}},
		},
	}
}

// SuiteByName returns the named built-in suite.
func SuiteByName(name string, workers int) (Suite, error) {
	s, ok := Suites(workers)[name]
	if !ok {
		return Suite{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownSuite, name, SuiteNames())
	}
	return s, nil
}

// SuiteNames lists the built-in suite names in sorted order.
func SuiteNames() []string {
	names := make([]string, 0, 4)
	for n := range Suites(1) {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
