// Package services defines the query surface over the cat counter store.
// This file centralizes service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Storage failures are not redeclared here: they arrive as *repo.StoreError
// and match repo.ErrStoreUnavailable with errors.Is. Translation into HTTP
// status codes is performed at the handler layer.
package services

import "errors"

var (
	// ErrCatNotFound indicates that no cat picture has the requested id.
	ErrCatNotFound = errors.New("cat not found")

	// ErrInvalidLimit is returned for a negative limit or one above MaxLimit.
	ErrInvalidLimit = errors.New("limit out of range")

	// ErrInvalidURL is returned when a picture URL is blank.
	ErrInvalidURL = errors.New("url is empty")

	// ErrInvalidID is returned for ids below 1.
	ErrInvalidID = errors.New("id must be a positive integer")
)
