package loadgen

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Runner executes scenarios against BaseURL.
type Runner struct {
	Client  *http.Client
	BaseURL string
	// Scale multiplies every scenario duration, pause, think time and
	// cooldown. Values <= 0 mean 1.
	Scale float64
	Log   zerolog.Logger
}

// NewRunner returns a Runner with a pooled HTTP client sized for load tests.
func NewRunner(baseURL string, scale float64, log zerolog.Logger) *Runner {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.MaxIdleConnsPerHost = 256
	return &Runner{
		Client:  &http.Client{Transport: tr, Timeout: 60 * time.Second},
		BaseURL: strings.TrimRight(baseURL, "/"),
		Scale:   scale,
		Log:     log,
	}
}

func (r *Runner) scaled(d time.Duration) time.Duration {
	if r.Scale <= 0 || r.Scale == 1 {
		return d
	}
	return time.Duration(float64(d) * r.Scale)
}

// tally accumulates outcomes from concurrent requests.
type tally struct {
	requests atomic.Int64
	failures atomic.Int64

	mu       sync.Mutex
	statuses map[int]int64
}

func (t *tally) record(status int, err error) {
	t.requests.Add(1)
	if err != nil || status >= 400 {
		t.failures.Add(1)
	}
	if err == nil {
		t.mu.Lock()
		t.statuses[status]++
		t.mu.Unlock()
	}
}

// do sends one request and drains the body. It returns the status code.
func (r *Runner) do(ctx context.Context, t Target) (int, error) {
	method := t.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+t.Path, nil)
	if err != nil {
		return 0, err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// Probe sends t once and fails with ErrUnavailable unless it answers 2xx.
func (r *Runner) Probe(ctx context.Context, t Target) error {
	status, err := r.do(ctx, t)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: %s %s answered %d", ErrUnavailable, t.Method, t.Path, status)
	}
	return nil
}

// Run executes s until its scaled Duration elapses or ctx is canceled.
// Every request is counted; transport errors and statuses >= 400 are failures.
func (r *Runner) Run(ctx context.Context, s Scenario) Result {
	t := &tally{statuses: map[int]int64{}}
	start := time.Now()
	deadline := start.Add(r.scaled(s.Duration))
	lg := r.Log.With().Str("scenario", s.Name).Str("mode", s.mode()).Logger()
	lg.Info().Dur("duration", r.scaled(s.Duration)).Msg("scenario started")

	switch s.mode() {
	case "mix":
		r.runMix(ctx, s, deadline, t)
	case "paced":
		r.runPaced(ctx, s, deadline, t)
	default:
		r.runBatch(ctx, s, deadline, t)
	}

	t.mu.Lock()
	statuses := make(map[int]int64, len(t.statuses))
	for k, v := range t.statuses {
		statuses[k] = v
	}
	t.mu.Unlock()

	res := Result{
		Name:     s.Name,
		Requests: t.requests.Load(),
		Failures: t.failures.Load(),
		Elapsed:  time.Since(start),
		Statuses: statuses,
	}
	lg.Info().Int64("requests", res.Requests).Int64("failures", res.Failures).
		Dur("elapsed", res.Elapsed).Msg("scenario finished")
	return res
}

func (r *Runner) runBatch(ctx context.Context, s Scenario, deadline time.Time, t *tally) {
	n := s.Batch
	if n < 1 {
		n = 1
	}
	target := Target{Method: s.Method, Path: s.Path}
	pause := r.scaled(s.Pause)
	for live(ctx, deadline) {
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				t.record(r.do(ctx, target))
			}()
		}
		wg.Wait()
		if !sleepUntil(ctx, pause, deadline) {
			return
		}
	}
}

func (r *Runner) runPaced(ctx context.Context, s Scenario, deadline time.Time, t *tally) {
	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	target := Target{Method: s.Method, Path: s.Path}
	lim := rate.NewLimiter(rate.Limit(s.Rate), 1)
	waitCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	var g errgroup.Group
	g.SetLimit(workers)
	for live(ctx, deadline) {
		if err := lim.Wait(waitCtx); err != nil {
			break
		}
		g.Go(func() error {
			t.record(r.do(ctx, target))
			return nil
		})
	}
	_ = g.Wait()
}

func (r *Runner) runMix(ctx context.Context, s Scenario, deadline time.Time, t *tally) {
	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	total := 0
	for _, m := range s.Mix {
		if m.Weight > 0 {
			total += m.Weight
		}
	}
	if total == 0 {
		return
	}
	thinkMin, thinkMax := r.scaled(s.ThinkMin), r.scaled(s.ThinkMax)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for live(ctx, deadline) {
				t.record(r.do(ctx, pick(s.Mix, total)))
				if !sleepUntil(ctx, jitter(thinkMin, thinkMax), deadline) {
					return nil
				}
			}
			return nil
		})
	}
	_ = g.Wait()
}

// pick selects a target with probability proportional to its weight.
func pick(mix []Target, total int) Target {
	n := rand.IntN(total)
	for _, m := range mix {
		if m.Weight <= 0 {
			continue
		}
		if n < m.Weight {
			return m
		}
		n -= m.Weight
	}
	return mix[len(mix)-1]
}

func jitter(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo)
}

// RunSuite probes availability, then runs every stage in order. Scenarios in
// a stage run concurrently. It returns the results gathered so far and
// ctx.Err() when canceled.
func (r *Runner) RunSuite(ctx context.Context, s Suite) ([]Result, error) {
	lg := r.Log.With().Str("suite", s.Name).Logger()
	if err := r.Probe(ctx, s.Probe); err != nil {
		lg.Error().Err(err).Msg("availability probe failed")
		return nil, err
	}
	lg.Info().Int("stages", len(s.Stages)).Msg("service available, suite started")

	var results []Result
	for i, st := range s.Stages {
		stage := make([]Result, len(st.Scenarios))
		var wg sync.WaitGroup
		for j, sc := range st.Scenarios {
			wg.Add(1)
			go func() {
				defer wg.Done()
				stage[j] = r.Run(ctx, sc)
			}()
		}
		wg.Wait()
		results = append(results, stage...)

		if err := ctx.Err(); err != nil {
			return results, err
		}
		if i < len(s.Stages)-1 && st.Cooldown > 0 {
			lg.Info().Dur("cooldown", r.scaled(st.Cooldown)).Msg("waiting for alerts to resolve")
			if !sleepUntil(ctx, r.scaled(st.Cooldown), time.Time{}) {
				return results, ctx.Err()
			}
		}
	}
	lg.Info().Msg("suite completed")
	return results, nil
}

func live(ctx context.Context, deadline time.Time) bool {
	return ctx.Err() == nil && time.Now().Before(deadline)
}

// sleepUntil sleeps d, cut short at deadline (zero means none). It returns
// false when ctx is canceled or the deadline has passed.
func sleepUntil(ctx context.Context, d time.Duration, deadline time.Time) bool {
	if !deadline.IsZero() {
		if rem := time.Until(deadline); rem < d {
			d = rem
		}
	}
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return false
		}
	}
	if ctx.Err() != nil {
		return false
	}
	return deadline.IsZero() || time.Now().Before(deadline)
}
