package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches parsed tags.
var validate = validator.New()

// StringMessage is the failure message for a non-string value.
func StringMessage(field string) string {
	return fmt.Sprintf("The %s field must be a string.", field)
}

// IntegerMessage is the failure message for a non-integer value.
func IntegerMessage(field string) string {
	return fmt.Sprintf("The %s field must be an integer.", field)
}

// ArrayMessage is the failure message for a value that should be a list.
func ArrayMessage(field string) string {
	return fmt.Sprintf("The %s field must be an array.", field)
}

// MinMessage is the failure message for a numeric value below min.
func MinMessage(field string, min string) string {
	return fmt.Sprintf("The %s field must be at least %s.", field, min)
}

// IsPresent reports whether a raw value counts as provided. Nil values and
// strings that are empty after trimming are treated as absent.
func IsPresent(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	default:
		return true
	}
}

// StringValue returns the trimmed string when value is string-typed.
func StringValue(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// Number is a raw value read as a number.
//
// Integer is set when the value is integer-typed (an integer literal
// or an integer string). Numeric is set for any numeric value, so a
// decimal like "25.5" is Numeric but not Integer.
type Number struct {
	Int     int64
	Float   float64
	Integer bool
	Numeric bool
}

// NumberValue classifies value. Strings are trimmed first; booleans,
// lists and objects are neither numeric nor integer.
func NumberValue(value any) Number {
	var s string

	switch v := value.(type) {
	case string:
		s = strings.TrimSpace(v)
	case json.Number:
		s = v.String()
	case int:
		return Number{Int: int64(v), Float: float64(v), Integer: true, Numeric: true}
	case int64:
		return Number{Int: v, Float: float64(v), Integer: true, Numeric: true}
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < math.MaxInt64 {
			return Number{Int: int64(v), Float: v, Integer: true, Numeric: true}
		}
		return Number{Int: int64(v), Float: v, Numeric: true}
	default:
		return Number{}
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Number{Int: n, Float: float64(n), Integer: true, Numeric: true}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Number{Int: int64(f), Float: f, Numeric: true}
	}

	return Number{}
}

// AtLeast reports whether value >= min using the validator's min rule.
func AtLeast(value float64, min int) bool {
	return validate.Var(value, fmt.Sprintf("min=%d", min)) == nil
}

// DigitsOfLength reports whether s consists only of decimal digits and its
// length is one of lengths.
func DigitsOfLength(s string, lengths ...int) bool {
	if len(lengths) == 0 {
		return validate.Var(s, "required,number") == nil
	}

	alternatives := make([]string, len(lengths))
	for i, l := range lengths {
		alternatives[i] = fmt.Sprintf("len=%d", l)
	}

	return validate.Var(s, "required,number,"+strings.Join(alternatives, "|")) == nil
}

// ScalarString renders a scalar raw value as the string a client sent.
// It reports false for lists, objects, booleans and nil.
func ScalarString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}
