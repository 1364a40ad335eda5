// internal/app/system/rpc/errors.go
package rpc

import (
	"errors"
	"net/http"
	"strings"

	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	"github.com/orkestra-ventures/orkestra/internal/app/system/inputval"
)

// Error codes carried in the error envelope.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotSupported = "METHOD_NOT_SUPPORTED"
	CodeConflict           = "CONFLICT"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
	CodeUnavailable        = "SERVICE_UNAVAILABLE"
)

// Error is a procedure failure with a client-safe message.
type Error struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Status  int               `json:"-"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

func newError(status int, code, msg string) *Error {
	return &Error{Code: code, Message: msg, Status: status}
}

var (
	ErrUnauthorized = newError(http.StatusUnauthorized, CodeUnauthorized, "Authentication required.")
	ErrRateLimited  = newError(http.StatusTooManyRequests, CodeTooManyRequests, "Too many requests. Please try again later.")
	ErrUnavailable  = newError(http.StatusServiceUnavailable, CodeUnavailable, "Service temporarily unavailable. Please try again.")
	errInternal     = newError(http.StatusInternalServerError, CodeInternal, "Something went wrong. Please try again.")
)

// BadRequest reports a malformed input that is not tied to one field.
func BadRequest(msg string) *Error {
	return newError(http.StatusBadRequest, CodeBadRequest, msg)
}

// FieldError reports a single invalid field.
func FieldError(field, msg string) *Error {
	e := BadRequest(msg)
	e.Fields = map[string]string{field: msg}
	return e
}

// Unauthorized reports a failed sign-in with a specific message.
func Unauthorized(msg string) *Error {
	return newError(http.StatusUnauthorized, CodeUnauthorized, msg)
}

// TooManyRequests reports a rate limit refusal with a specific message.
func TooManyRequests(msg string) *Error {
	return newError(http.StatusTooManyRequests, CodeTooManyRequests, msg)
}

// NotFound reports a missing record.
func NotFound(msg string) *Error {
	return newError(http.StatusNotFound, CodeNotFound, msg)
}

// toError maps err to its envelope. The second result is false for errors
// the client must not see the details of.
func toError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, e.Status < http.StatusInternalServerError
	}

	var res inputval.Result
	if errors.As(err, &res) {
		out := BadRequest(res.First())
		if out.Message == "" {
			out.Message = "Invalid input."
		}
		out.Fields = res.Fields()
		delete(out.Fields, "")
		return out, true
	}

	switch {
	case errors.Is(err, entity.ErrNotFound):
		return NotFound("Record not found."), true
	case errors.Is(err, entity.ErrConflict):
		return newError(http.StatusConflict, CodeConflict, "The record was changed by someone else. Reload it and try again."), true
	case errors.Is(err, entity.ErrDuplicate):
		return newError(http.StatusConflict, CodeConflict, duplicateMessage(err)), true
	case errors.Is(err, entity.ErrInvalidQuery):
		return BadRequest(err.Error()), true
	case entity.IsUnavailable(err):
		return ErrUnavailable, false
	}
	return errInternal, false
}

// duplicateMessage keeps the resource-specific part of a wrapped duplicate
// error ("invoice number is already in use").
func duplicateMessage(err error) string {
	if rest, ok := strings.CutPrefix(err.Error(), entity.ErrDuplicate.Error()+": "); ok && rest != "" {
		return rest
	}
	return "A record with the same unique value already exists."
}
