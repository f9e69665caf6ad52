// Package metrics instruments data-access operations.
//
// Track wraps a single store call, measures its wall-clock duration and
// reports (operation, table, seconds, err) to an Observer. The store itself
// never sees the observer, and the observer never sees the store: any backend
// that implements ObserveOperation can be plugged in. PrometheusObserver is
// the production implementation.
//
// A nil Observer disables instrumentation entirely; the wrapped call still
// runs and its result passes through untouched.
package metrics

import (
	"errors"
	"time"
)

// Observer receives one report per instrumented call.
//
// err is the call's error (nil on success). When the call panicked, err is
// ErrPanicked and the panic continues to unwind after the report.
type Observer interface {
	ObserveOperation(operation, table string, seconds float64, err error)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(operation, table string, seconds float64, err error)

// ObserveOperation calls f.
func (f ObserverFunc) ObserveOperation(operation, table string, seconds float64, err error) {
	f(operation, table, seconds, err)
}

// ErrPanicked is reported to the Observer for calls that did not return.
var ErrPanicked = errors.New("operation panicked")

// Track runs fn and reports exactly one observation for it, whether fn
// returns a value, returns an error or panics. fn's value and error are
// returned as-is; the error is never wrapped.
func Track[T any](obs Observer, operation, table string, fn func() (T, error)) (v T, err error) {
	if obs == nil {
		return fn()
	}

	start := time.Now()
	returned := false
	defer func() {
		observed := err
		if !returned {
			observed = ErrPanicked
		}
		obs.ObserveOperation(operation, table, time.Since(start).Seconds(), observed)
	}()

	v, err = fn()
	returned = true
	return v, err
}

// TrackErr is Track for calls that only return an error.
func TrackErr(obs Observer, operation, table string, fn func() error) error {
	_, err := Track(obs, operation, table, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
