package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/knockout/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// parseLimit reads the optional "limit" query parameter
func parseLimit(r *http.Request, defaultLimit, maxLimit int) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(v)
	if err != nil || limit < 1 {
		return 0, NewInvalidRequestError("limit must be a positive integer")
	}
	return min(limit, maxLimit), nil
}
