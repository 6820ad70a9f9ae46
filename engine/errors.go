// engine/errors.go
package engine

import (
	"errors"
	"fmt"
	"net/http"
)

// Denial reasons returned by the plan limit evaluator
const (
	ReasonLimitReached    = "LIMIT_REACHED"
	ReasonNoSubscription  = "NO_SUBSCRIPTION"
	ReasonFeatureDisabled = "FEATURE_DISABLED"
)

// Conversion failure codes
const (
	CodeLeadNotFound         = "LEAD_NOT_FOUND"
	CodeLeadAlreadyConverted = "LEAD_ALREADY_CONVERTED"
	CodeInvalidAmounts       = "INVALID_AMOUNTS"
	CodeMissingTarget        = "MISSING_TARGET"
)

// ValidationError reports malformed or out-of-range input naming the
// offending field. Recoverable by the user.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// LimitError reports a plan limit or feature gate denial
type LimitError struct {
	Kind   ResourceKind `json:"kind"`
	Reason string       `json:"reason"`
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("plan limit denied %s: %s", e.Kind, e.Reason)
}

// ConflictError reports a state conflict (already-converted lead,
// duplicate slug or plan code). Recoverable by refetch.
type ConflictError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NotFoundError reports a missing referenced entity
type NotFoundError struct {
	Entity string `json:"entity"`
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// HTTPStatus maps an engine error to the HTTP status the controllers
// respond with. Unrecognized errors map to 500.
func HTTPStatus(err error) int {
	var ve *ValidationError
	var le *LimitError
	var ce *ConflictError
	var ne *NotFoundError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &le):
		return http.StatusForbidden
	case errors.As(err, &ce):
		return http.StatusConflict
	case errors.As(err, &ne):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
