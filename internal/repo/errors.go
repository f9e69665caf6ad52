package repo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound so callers can match either.
// Only IncrementLikes produces it; lookups report absence with a bool.
var ErrNotFound = gorm.ErrRecordNotFound

var (
	// ErrStoreUnavailable marks connection, transport, timeout and statement
	// execution failures of the storage engine.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrConstraintViolation marks a uniqueness or integrity conflict outside
	// the upsert path. The write paths here never produce one in normal use.
	ErrConstraintViolation = errors.New("constraint violation")
)

// StoreError carries the failing operation and the driver error.
//
// errors.Is matches the classification (Kind) as well as anything in the
// driver error chain, so both errors.Is(err, ErrStoreUnavailable) and
// errors.Is(err, context.DeadlineExceeded) hold for a timed-out query.
type StoreError struct {
	Op   string
	Kind error
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("repo: %s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is reports whether target is the error's classification.
func (e *StoreError) Is(target error) bool { return target == e.Kind }

// classify maps a raw gorm/driver error into the store taxonomy.
// nil and ErrNotFound pass through untouched.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrCheckConstraintViolated):
		return &StoreError{Op: op, Kind: ErrConstraintViolation, Err: err}
	default:
		return &StoreError{Op: op, Kind: ErrStoreUnavailable, Err: err}
	}
}
