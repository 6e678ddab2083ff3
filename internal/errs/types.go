package errs

import (
	"sort"
	"strings"
)

// FieldErrors maps a parameter name to its ordered validation messages.
//
// List elements use dotted index notation:
//
//	{ "isbn.0": ["An ISBN must contain 10 or 13 digits."] }
type FieldErrors map[string][]string

// Add appends messages for field. Empty message lists are ignored so
// callers can pass a rule result straight through.
func (f FieldErrors) Add(field string, messages ...string) {
	if len(messages) == 0 {
		return
	}
	f[field] = append(f[field], messages...)
}

// Merge copies every entry of other into f.
func (f FieldErrors) Merge(other FieldErrors) {
	for field, messages := range other {
		f.Add(field, messages...)
	}
}

// Fields returns the field names in a stable order.
func (f FieldErrors) Fields() []string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Error lets FieldErrors travel as a plain error value.
func (f FieldErrors) Error() string {
	return "validation failed: " + strings.Join(f.Fields(), ", ")
}

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface via Error(). The global error handler
// renders it as the uniform response envelope.
// Fields:
//   - Code: machine-friendly error code (e.g. "UNPROCESSABLE_ENTITY"), used in logs.
//   - Message: human-friendly message sent to the client.
//   - Status: HTTP status code.
//   - Override: flag to let middleware decide whether to override the message.
//   - Errors: per-field errors (validation).
type HTTPError struct {
	Code     string      `json:"code"`
	Message  string      `json:"message"`
	Status   int         `json:"status"`
	Override bool        `json:"override"`
	Errors   FieldErrors `json:"errors,omitempty"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also a *HTTPError. It does not compare fields.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
	}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Unprocessable Entity" -> "UNPROCESSABLE_ENTITY"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
