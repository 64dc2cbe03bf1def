package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/wirekit/core/message"
)

// HTTPError is a structured error rendered to clients.
type HTTPError struct {
	Status  int            `json:"-"`                 // HTTP status code (not in JSON)
	Code    string         `json:"code"`              // Machine-readable error code
	Message string         `json:"message"`           // Human-readable message
	Details map[string]any `json:"details,omitempty"` // Optional context
}

// NewHTTPError creates a 500 error with a custom message.
func NewHTTPError(message string) HTTPError {
	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_server_error",
		Message: message,
	}
}

func (e HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is an HTTPError with the same status and code,
// so errors.Is matches the predefined errors after WithMessage or WithDetails.
func (e HTTPError) Is(target error) bool {
	t, ok := target.(HTTPError)
	return ok && t.Status == e.Status && t.Code == e.Code
}

// StatusCode returns the HTTP status code for the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

// WithError returns a copy of the error carrying err as its cause.
func (e HTTPError) WithError(err error) HTTPError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details["cause"] = err.Error()
	e.Details = details
	return e
}

func newError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: message.StatusText(status)}
}

// Predefined errors.
var (
	// 4xx Client Errors
	ErrBadRequest            = newError(http.StatusBadRequest, "bad_request")
	ErrUnauthorized          = newError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden             = newError(http.StatusForbidden, "forbidden")
	ErrNotFound              = newError(http.StatusNotFound, "not_found")
	ErrMethodNotAllowed      = newError(http.StatusMethodNotAllowed, "method_not_allowed")
	ErrRequestTimeout        = newError(http.StatusRequestTimeout, "request_timeout")
	ErrConflict              = newError(http.StatusConflict, "conflict")
	ErrGone                  = newError(http.StatusGone, "gone")
	ErrRequestEntityTooLarge = newError(http.StatusRequestEntityTooLarge, "request_entity_too_large")
	ErrUnsupportedMediaType  = newError(http.StatusUnsupportedMediaType, "unsupported_media_type")
	ErrTeapot                = newError(http.StatusTeapot, "teapot")
	ErrEnhanceYourCalm       = newError(message.StatusEnhanceYourCalm, "enhance_your_calm")
	ErrUnprocessableEntity   = newError(http.StatusUnprocessableEntity, "unprocessable_entity")
	ErrTooManyRequests       = newError(http.StatusTooManyRequests, "too_many_requests")

	// 5xx Server Errors
	ErrInternalServerError = newError(http.StatusInternalServerError, "internal_server_error")
	ErrNotImplemented      = newError(http.StatusNotImplemented, "not_implemented")
	ErrBadGateway          = newError(http.StatusBadGateway, "bad_gateway")
	ErrServiceUnavailable  = newError(http.StatusServiceUnavailable, "service_unavailable")
	ErrGatewayTimeout      = newError(http.StatusGatewayTimeout, "gateway_timeout")
)

var httpErrorsByStatus = func() map[int]HTTPError {
	m := make(map[int]HTTPError)
	for _, e := range []HTTPError{
		ErrBadRequest, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrMethodNotAllowed,
		ErrRequestTimeout, ErrConflict, ErrGone, ErrRequestEntityTooLarge,
		ErrUnsupportedMediaType, ErrTeapot, ErrEnhanceYourCalm, ErrUnprocessableEntity,
		ErrTooManyRequests, ErrInternalServerError, ErrNotImplemented, ErrBadGateway,
		ErrServiceUnavailable, ErrGatewayTimeout,
	} {
		m[e.Status] = e
	}
	return m
}()

// statusCode is implemented by errors that carry an HTTP status code.
type statusCode interface {
	StatusCode() int
}

// AsHTTPError converts any error to an HTTPError. HTTPError values are
// returned as is; errors implementing StatusCode() map to the predefined
// error for that status; everything else becomes a 500 carrying the cause.
func AsHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	base, ok := httpErrorsByStatus[status]
	if !ok {
		base = ErrInternalServerError
		if status >= 400 && status < 600 {
			base = newError(status, "error")
		}
	}
	return base.WithError(err)
}

type errorEnvelope struct {
	Error HTTPError `json:"error"`
}

// ErrorResponse renders err as a JSON error document:
//
//	{"error":{"code":"not_found","message":"Not Found"}}
//
// The cause attached to 5xx errors is not exposed.
func ErrorResponse(err error) *message.Response {
	httpErr := AsHTTPError(err)
	if httpErr.Status >= http.StatusInternalServerError {
		httpErr.Details = nil
	}

	resp := message.NewResponse(httpErr.Status)
	resp.Header.Set("Content-Type", ContentTypeJSON)
	data, mErr := json.Marshal(errorEnvelope{Error: httpErr})
	if mErr != nil {
		// details held a value json cannot encode
		httpErr.Details = nil
		data, _ = json.Marshal(errorEnvelope{Error: httpErr})
	}
	resp.Body = message.Bytes(data)
	return resp
}

// TextErrorResponse renders err as plain text with the error's status.
func TextErrorResponse(err error) *message.Response {
	httpErr := AsHTTPError(err)
	return StringWithStatus(httpErr.Message, httpErr.Status)
}
