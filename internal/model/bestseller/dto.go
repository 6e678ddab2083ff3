package bestseller

import (
	"github.com/deppfellow/bestsellers-api/internal/validation"
	"github.com/labstack/echo/v4"
)

// SearchRequest is the raw Best Sellers search as sent by the client.
//
// It binds itself from the query string and an optional JSON body so
// values keep their original types until the rules have seen them.
type SearchRequest struct {
	Params validation.Params
}

// NewSearchRequest wraps an already collected parameter set.
func NewSearchRequest(params validation.Params) *SearchRequest {
	return &SearchRequest{Params: params}
}

// Bind implements validation.Binder.
func (r *SearchRequest) Bind(c echo.Context) error {
	params, err := validation.RequestParams(c, FieldISBN)
	if err != nil {
		return err
	}

	r.Params = params
	return nil
}

// Validate implements validation.Validatable.
func (r *SearchRequest) Validate() error {
	if failures := Validate(r.Params); failures != nil {
		return failures
	}
	return nil
}

// Query converts a validated request into a SearchQuery. Calling it on a
// request that failed Validate is a programming error; invalid values are
// dropped rather than converted.
func (r *SearchRequest) Query() SearchQuery {
	var q SearchQuery

	if s, ok := validation.StringValue(r.Params[FieldAuthor]); ok && s != "" {
		q.Author = &s
	}
	if s, ok := validation.StringValue(r.Params[FieldTitle]); ok && s != "" {
		q.Title = &s
	}

	if list, ok := r.Params[FieldISBN].([]any); ok {
		for _, item := range list {
			if !validation.IsPresent(item) {
				continue
			}
			if s, ok := validation.ScalarString(item); ok && isISBN(s) {
				d, _ := validation.StringValue(s)
				q.ISBNs = append(q.ISBNs, d)
			}
		}
	}

	if validation.IsPresent(r.Params[FieldOffset]) {
		if n := validation.NumberValue(r.Params[FieldOffset]); n.Integer {
			offset := int(n.Int)
			q.Offset = &offset
		}
	}

	return q
}
