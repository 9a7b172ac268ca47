package errors

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

const internalErrorMessage = "internal server error"

// ErrorBody is the JSON body written for failed requests
type ErrorBody struct {
	Error     string     `json:"error"`
	Details   []string   `json:"details,omitempty"`
	ResetAt   *time.Time `json:"resetAt,omitempty"`
	RequestID string     `json:"requestId,omitempty"`
}

// Mapper maps domain errors to HTTP status codes
type Mapper struct {
	production bool
	logger     zerolog.Logger
}

// NewMapper creates a new error mapper. In production, internal error
// details are replaced by the request id.
func NewMapper(production bool, logger zerolog.Logger) *Mapper {
	return &Mapper{production: production, logger: logger}
}

// MapErrorToHTTP maps an error to HTTP status code and response body
func (m *Mapper) MapErrorToHTTP(err error, requestID string) (int, ErrorBody) {
	if err == nil {
		return fasthttp.StatusOK, ErrorBody{}
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return fasthttp.StatusBadRequest, ErrorBody{Error: validationErr.Error(), Details: validationErr.Details}
	}

	var unauthorizedErr *UnauthorizedError
	if errors.As(err, &unauthorizedErr) {
		return fasthttp.StatusUnauthorized, ErrorBody{Error: unauthorizedErr.Error()}
	}

	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return fasthttp.StatusNotFound, ErrorBody{Error: notFoundErr.Error()}
	}

	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) {
		return fasthttp.StatusConflict, ErrorBody{Error: conflictErr.Error()}
	}

	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		resetAt := rateLimitErr.ResetAt.UTC()
		return fasthttp.StatusTooManyRequests, ErrorBody{Error: rateLimitErr.Error(), ResetAt: &resetAt}
	}

	m.logger.Error().Err(err).Str("request_id", requestID).Msg("internal server error")

	if m.production {
		return fasthttp.StatusInternalServerError, ErrorBody{Error: internalErrorMessage, RequestID: requestID}
	}
	return fasthttp.StatusInternalServerError, ErrorBody{Error: err.Error(), RequestID: requestID}
}
