// Package bestseller holds the Best Sellers search request, its field
// rules and the normalized query sent upstream.
package bestseller

import (
	"net/url"
	"strconv"
	"strings"
)

// Parameter names shared by the inbound request and the upstream query.
const (
	FieldAuthor = "author"
	FieldISBN   = "isbn"
	FieldTitle  = "title"
	FieldOffset = "offset"
)

// OffsetStep is the page size of the upstream API; offsets must be a multiple of it.
const OffsetStep = 20

// ISBNSeparator joins ISBNs into the single upstream isbn value.
const ISBNSeparator = ";"

// SearchQuery is the validated, normalized search.
//
// Nil pointers and an empty ISBNs slice mean the parameter was not sent.
// ISBNs keep their digits as sent (trimmed), so ISBN-10 values with a
// leading zero survive.
type SearchQuery struct {
	Author *string
	ISBNs  []string
	Title  *string
	Offset *int
}

// Values renders the query as upstream parameters. Absent fields are
// omitted instead of being sent empty. The API key is added by the client.
func (q SearchQuery) Values() url.Values {
	values := url.Values{}

	if q.Author != nil {
		values.Set(FieldAuthor, *q.Author)
	}
	if len(q.ISBNs) > 0 {
		values.Set(FieldISBN, strings.Join(q.ISBNs, ISBNSeparator))
	}
	if q.Title != nil {
		values.Set(FieldTitle, *q.Title)
	}
	if q.Offset != nil {
		values.Set(FieldOffset, strconv.Itoa(*q.Offset))
	}

	return values
}

// LogFields returns the query as a flat map for structured logs.
func (q SearchQuery) LogFields() map[string]any {
	fields := map[string]any{}
	for k, v := range q.Values() {
		fields[k] = v[0]
	}
	return fields
}
