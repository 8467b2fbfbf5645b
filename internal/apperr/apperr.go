package apperr

import (
	"errors"
	"fmt"
)

// Validation reasons shared across packages.
const (
	ReasonInvalidIdentifier  = "invalid identifier format"
	ReasonInvalidLocation    = "invalid location"
	ReasonMissingTitle       = "missing title"
	ReasonMissingAttribution = "missing attribution"
	ReasonInvalidEventType   = "invalid event type"
	ReasonInvalidLabelCode   = "invalid label code"
)

// ValidationError reports input the caller must correct. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError reports a reference to an unknown resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ReasonOf returns the validation reason carried by err, or "".
func ReasonOf(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ""
}
