package advice

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx response from a generation backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status=%d", e.StatusCode)
}

// ModelNotFoundError indicates the requested model is not available.
type ModelNotFoundError struct{ *APIError }

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model not found: %s", e.APIError.Error())
}

// BadRequestError indicates the backend rejected the request.
type BadRequestError struct{ *APIError }

func (e *BadRequestError) Error() string { return fmt.Sprintf("bad request: %s", e.APIError.Error()) }

// ServerError indicates a 5xx error from the backend.
type ServerError struct{ *APIError }

func (e *ServerError) Error() string { return fmt.Sprintf("provider error: %s", e.APIError.Error()) }

// UnreachableError indicates the backend could not be reached.
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	if e.Host != "" {
		return fmt.Sprintf("endpoint unreachable at %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("endpoint unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// ErrEmptyGeneration is returned when the backend produced no usable text.
var ErrEmptyGeneration = errors.New("empty generation")

// classifyStatus maps an HTTP status to the typed backend errors.
func classifyStatus(status int, msg string) error {
	apiErr := &APIError{StatusCode: status, Message: msg}
	switch {
	case status == 404:
		return &ModelNotFoundError{APIError: apiErr}
	case status >= 500:
		return &ServerError{APIError: apiErr}
	case status == 400:
		return &BadRequestError{APIError: apiErr}
	}
	return apiErr
}

// Retryable reports whether err is transient: the backend was unreachable or
// answered with a 5xx or 429.
func Retryable(err error) bool {
	var unreachable *UnreachableError
	var server *ServerError
	var api *APIError
	switch {
	case errors.As(err, &unreachable), errors.As(err, &server):
		return true
	case errors.As(err, &api):
		return api.StatusCode == 429
	}
	return false
}
