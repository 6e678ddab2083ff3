package bestseller

import (
	"fmt"
	"strconv"

	"github.com/deppfellow/bestsellers-api/internal/errs"
	"github.com/deppfellow/bestsellers-api/internal/validation"
)

// Rule messages that are specific to this endpoint.
const (
	MessageISBNDigits     = "An ISBN must contain 10 or 13 digits."
	MessageOffsetMultiple = "The offset must be a multiple of 20."
)

// ISBN lengths accepted by the upstream API.
var isbnLengths = []int{10, 13}

// rule checks one parameter of the raw request. It never mutates the
// params and returns nil when the parameter is valid or absent.
type rule func(params validation.Params) errs.FieldErrors

// rules run in this order; every rule runs even after a failure.
var rules = []rule{
	authorRule,
	isbnRule,
	titleRule,
	offsetRule,
}

// Validate runs every field rule and merges the failures.
// It returns nil when the request is valid.
func Validate(params validation.Params) errs.FieldErrors {
	failures := errs.FieldErrors{}
	for _, r := range rules {
		failures.Merge(r(params))
	}

	if len(failures) == 0 {
		return nil
	}
	return failures
}

func authorRule(params validation.Params) errs.FieldErrors {
	return stringRule(FieldAuthor, params[FieldAuthor])
}

func titleRule(params validation.Params) errs.FieldErrors {
	return stringRule(FieldTitle, params[FieldTitle])
}

func stringRule(field string, value any) errs.FieldErrors {
	if !validation.IsPresent(value) {
		return nil
	}
	if _, ok := validation.StringValue(value); !ok {
		return errs.FieldErrors{field: {validation.StringMessage(field)}}
	}
	return nil
}

// isbnRule checks the list shape and then each element on its own, keyed
// by position: isbn.0, isbn.1, ...
func isbnRule(params validation.Params) errs.FieldErrors {
	value, ok := params[FieldISBN]
	if !ok || value == nil {
		return nil
	}

	list, ok := value.([]any)
	if !ok {
		return errs.FieldErrors{FieldISBN: {validation.ArrayMessage(FieldISBN)}}
	}

	failures := errs.FieldErrors{}
	for i, item := range list {
		if !validation.IsPresent(item) {
			continue
		}

		s, ok := validation.ScalarString(item)
		if !ok || !isISBN(s) {
			failures.Add(fmt.Sprintf("%s.%d", FieldISBN, i), MessageISBNDigits)
		}
	}

	if len(failures) == 0 {
		return nil
	}
	return failures
}

func isISBN(s string) bool {
	d, _ := validation.StringValue(s)
	return validation.DigitsOfLength(d, isbnLengths...)
}

// offsetRule applies integer, min:0 and multiple-of-20 in that order.
//
// Numeric values that are not integers still get the min and multiple
// checks on their numeric value; anything else only reports the type.
func offsetRule(params validation.Params) errs.FieldErrors {
	value := params[FieldOffset]
	if !validation.IsPresent(value) {
		return nil
	}

	n := validation.NumberValue(value)

	var messages []string
	if !n.Integer {
		messages = append(messages, validation.IntegerMessage(FieldOffset))
	}
	if !n.Numeric {
		return errs.FieldErrors{FieldOffset: messages}
	}

	if !validation.AtLeast(n.Float, 0) {
		messages = append(messages, validation.MinMessage(FieldOffset, strconv.Itoa(0)))
	}
	if n.Int%OffsetStep != 0 {
		messages = append(messages, MessageOffsetMultiple)
	}

	if len(messages) == 0 {
		return nil
	}
	return errs.FieldErrors{FieldOffset: messages}
}
