package loadgen

import (
	"context"
	"sync"
	"sync/atomic"
)

// Launcher runs at most one suite at a time in the background.
// It is safe for concurrent use.
type Launcher struct {
	ctx     context.Context
	runner  *Runner
	workers int

	running atomic.Bool
	wg      sync.WaitGroup

	mu   sync.Mutex
	last []Result
}

// NewLauncher binds runs to ctx: canceling it stops the current run.
func NewLauncher(ctx context.Context, runner *Runner, workers int) *Launcher {
	return &Launcher{ctx: ctx, runner: runner, workers: workers}
}

// Start looks up the named suite and runs it asynchronously.
// It returns ErrBusy while a previous run is in progress.
func (l *Launcher) Start(name string) error {
	suite, err := SuiteByName(name, l.workers)
	if err != nil {
		return err
	}
	if !l.running.CompareAndSwap(false, true) {
		return ErrBusy
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer l.running.Store(false)

		results, err := l.runner.RunSuite(l.ctx, suite)
		l.mu.Lock()
		l.last = results
		l.mu.Unlock()
		if err != nil {
			l.runner.Log.Warn().Err(err).Str("suite", name).Msg("load suite stopped")
		}
	}()
	return nil
}

// Running reports whether a suite is in progress.
func (l *Launcher) Running() bool { return l.running.Load() }

// Last returns the results of the most recently finished run.
func (l *Launcher) Last() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Result(nil), l.last...)
}

// Wait blocks until the current run, if any, returns.
func (l *Launcher) Wait() { l.wg.Wait() }
