package errs

import (
	"net/http"
)

// InvalidParameterMessage is sent with every 422 validation failure.
const InvalidParameterMessage = "An invalid parameter was provided."

func newHTTPError(status int, message string, override bool) *HTTPError {
	return &HTTPError{
		// http.StatusText(422) => "Unprocessable Entity" => "UNPROCESSABLE_ENTITY"
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message:  message,
		Status:   status,
		Override: override,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError for requests that
// cannot even be parsed (e.g. a malformed JSON body).
func NewBadRequestError(message string, override bool) *HTTPError {
	return newHTTPError(http.StatusBadRequest, message, override)
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool) *HTTPError {
	return newHTTPError(http.StatusNotFound, message, override)
}

// NewMethodNotAllowedError creates a 405 Method Not Allowed HTTPError.
func NewMethodNotAllowedError(message string) *HTTPError {
	return newHTTPError(http.StatusMethodNotAllowed, message, false)
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError(message string) *HTTPError {
	return newHTTPError(http.StatusTooManyRequests, message, false)
}

// NewValidationError creates the 422 HTTPError carrying every field failure.
//
// The message is fixed; the detail lives in Errors.
func NewValidationError(fieldErrors FieldErrors) *HTTPError {
	err := newHTTPError(http.StatusUnprocessableEntity, InvalidParameterMessage, false)
	err.Errors = fieldErrors

	return err
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the internal error.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false)
}
