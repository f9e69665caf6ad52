// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and pair with an HTTP status in every error
// envelope produced by fail(). Clients branch on the code, not the message.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "store_unavailable",
//	  "message": "cat store unavailable"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/tbourn/go-cat-service/internal/repo"
	"github.com/tbourn/go-cat-service/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeStoreUnavailable = "store_unavailable"
	ErrCodeUpstream         = "upstream_error"
	ErrCodeSimulated        = "simulated_error"
)

// classify maps a service or store error to a status, code and client-safe
// message. Storage details never reach the client; they are logged by fail.
func classify(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, services.ErrInvalidID),
		errors.Is(err, services.ErrInvalidLimit),
		errors.Is(err, services.ErrInvalidURL):
		return http.StatusBadRequest, ErrCodeBadRequest, err.Error()
	case errors.Is(err, services.ErrCatNotFound):
		return http.StatusNotFound, ErrCodeNotFound, err.Error()
	case errors.Is(err, repo.ErrConstraintViolation):
		return http.StatusConflict, ErrCodeConflict, "constraint violation"
	case errors.Is(err, repo.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "cat store unavailable"
	default:
		return http.StatusInternalServerError, ErrCodeInternal, "internal server error"
	}
}
