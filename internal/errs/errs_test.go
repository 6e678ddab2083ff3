package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldErrors_AddIgnoresEmpty(t *testing.T) {
	fe := FieldErrors{}

	fe.Add("author")
	fe.Add("offset", "The offset field must be at least 0.", "The offset must be a multiple of 20.")

	assert.NotContains(t, fe, "author")
	assert.Equal(t, []string{
		"The offset field must be at least 0.",
		"The offset must be a multiple of 20.",
	}, fe["offset"])
}

func TestFieldErrors_Merge(t *testing.T) {
	fe := FieldErrors{"isbn.0": {"An ISBN must contain 10 or 13 digits."}}

	fe.Merge(FieldErrors{
		"isbn.1": {"An ISBN must contain 10 or 13 digits."},
		"title":  {"The title field must be a string."},
	})

	assert.Equal(t, []string{"isbn.0", "isbn.1", "title"}, fe.Fields())
	assert.Equal(t, "validation failed: isbn.0, isbn.1, title", fe.Error())
}

func TestNewValidationError(t *testing.T) {
	fe := FieldErrors{"offset": {"The offset field must be an integer."}}

	err := NewValidationError(fe)

	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.Equal(t, "UNPROCESSABLE_ENTITY", err.Code)
	assert.Equal(t, InvalidParameterMessage, err.Message)
	assert.Equal(t, fe, err.Errors)
}

func TestHTTPError_IsAndAs(t *testing.T) {
	wrapped := fmt.Errorf("route: %w", NewNotFoundError("Route not found", false))

	var httpErr *HTTPError
	assert.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.True(t, errors.Is(wrapped, &HTTPError{}))

	copied := httpErr.WithMessage("gone")
	assert.Equal(t, "gone", copied.Error())
	assert.Equal(t, "Route not found", httpErr.Message)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "TOO_MANY_REQUESTS", MakeUpperCaseWithUnderscores("Too Many Requests"))
}
