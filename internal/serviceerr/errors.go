// Package serviceerr defines the failure taxonomy shared by the portal:
// validation failures, authentication rejections by the Core API, transport
// failures, and storage conflicts. Callers branch on the Code, the
// Description is safe to surface to the member.
package serviceerr

import "net/http"

type Code string

const (
	CodeUnknown             Code = "unknown"
	CodeInvalidInput        Code = "invalid_input"
	CodeUnauthorized        Code = "unauthorized"
	CodeConflict            Code = "conflict"
	CodeNotFound            Code = "not_found"
	CodeEmailTaken          Code = "email_taken"
	CodeTicketConsumed      Code = "ticket_consumed"
	CodeUpstreamUnreachable Code = "upstream_unreachable"
)

// Error is a typed failure. Err carries the machine-readable code and
// Description an optional human-readable detail.
type Error struct {
	Err         Code
	Description string
}

func (e *Error) Error() string {
	if e.Description == "" {
		return string(e.Err)
	}

	return string(e.Err) + ": " + e.Description
}

// Is makes errors.Is match two *Error values by code, so that callers can
// compare against the predefined errors below regardless of Description.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Err == other.Err
}

// HTTPStatus maps the code onto the status the portal answers with when the
// failure escapes to the HTTP layer.
func (e *Error) HTTPStatus() int {
	switch e.Err {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeConflict, CodeEmailTaken, CodeTicketConsumed:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUpstreamUnreachable:
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

// WithDescription returns a copy of the error carrying the given detail.
func (e *Error) WithDescription(description string) *Error {
	return &Error{Err: e.Err, Description: description}
}

var (
	ErrUnknown             = &Error{Err: CodeUnknown, Description: "unknown error"}
	ErrInvalidInput        = &Error{Err: CodeInvalidInput, Description: "invalid input"}
	ErrUnauthorized        = &Error{Err: CodeUnauthorized, Description: "not authenticated"}
	ErrConflict            = &Error{Err: CodeConflict, Description: "already exists"}
	ErrNotFound            = &Error{Err: CodeNotFound, Description: "not found"}
	ErrEmailTaken          = &Error{Err: CodeEmailTaken, Description: "email already registered"}
	ErrTicketConsumed      = &Error{Err: CodeTicketConsumed, Description: "ticket already exchanged"}
	ErrUpstreamUnreachable = &Error{Err: CodeUpstreamUnreachable, Description: "core api unreachable"}
)
