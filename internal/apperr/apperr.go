// Package apperr defines the client-visible error taxonomy. Every error the
// core hands to the HTTP layer carries a stable code and an HTTP status;
// anything else is surfaced as a generic internal error.
package apperr

import (
	"fmt"
	"net/http"
)

type Code string

const (
	CodeAccessDenied         Code = "access_denied"
	CodeNotFound             Code = "not_found"
	CodeValidation           Code = "validation_error"
	CodeActionTypeMismatch   Code = "action_type_mismatch"
	CodeOrphanViolation      Code = "orphan_violation"
	CodeProtectedAccount     Code = "protected_account"
	CodeSubmissionRestricted Code = "submission_restricted"
	CodeInternal             Code = "internal_error"
)

type Error struct {
	Code    Code
	Message string
	Status  int
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on code, so errors.Is(err, apperr.NotFound("")) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithDetails returns a copy carrying extra diagnostic fields that are
// serialized into the error response.
func (e *Error) WithDetails(details map[string]any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func AccessDenied(msg string) *Error {
	if msg == "" {
		msg = "Access denied"
	}
	return &Error{Code: CodeAccessDenied, Message: msg, Status: http.StatusForbidden}
}

func NotFound(resource string) *Error {
	msg := "not found"
	if resource != "" {
		msg = resource + " not found"
	}
	return &Error{Code: CodeNotFound, Message: msg, Status: http.StatusNotFound}
}

func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg, Status: http.StatusBadRequest}
}

func ActionTypeMismatch(action, reportType string) *Error {
	return &Error{
		Code:    CodeActionTypeMismatch,
		Message: fmt.Sprintf("action %q is not valid for %s reports", action, reportType),
		Status:  http.StatusBadRequest,
	}
}

func OrphanViolation(msg string) *Error {
	if msg == "" {
		msg = "removal would orphan the content item"
	}
	return &Error{Code: CodeOrphanViolation, Message: msg, Status: http.StatusConflict}
}

func ProtectedAccount() *Error {
	return &Error{
		Code:    CodeProtectedAccount,
		Message: "this account cannot be reported",
		Status:  http.StatusForbidden,
	}
}

func SubmissionRestricted(msg string) *Error {
	return &Error{Code: CodeSubmissionRestricted, Message: msg, Status: http.StatusForbidden}
}

func Internal(msg string) *Error {
	if msg == "" {
		msg = "Internal server error"
	}
	return &Error{Code: CodeInternal, Message: msg, Status: http.StatusInternalServerError}
}
