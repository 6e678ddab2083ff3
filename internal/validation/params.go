package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/deppfellow/bestsellers-api/internal/errs"
	"github.com/labstack/echo/v4"
)

// Params is an untyped parameter set as received from the client.
//
// Values keep their original type so rules can reject, for example,
// a number sent where a string is expected:
//   - string for query values
//   - []any for list parameters
//   - string, json.Number, bool, nil, []any or map[string]any for JSON bodies
type Params map[string]any

var indexedKey = regexp.MustCompile(`^([^\[\]]+)\[(\d+)\]$`)

// QueryParams converts a query string into Params.
//
// Names in listFields always become lists. A list can be sent as a repeated
// key (isbn=1&isbn=2), with brackets (isbn[]=1&isbn[]=2) or with explicit
// indexes (isbn[0]=1&isbn[1]=2). Other repeated keys keep their last value.
func QueryParams(values url.Values, listFields ...string) Params {
	lists := make(map[string]bool, len(listFields))
	for _, f := range listFields {
		lists[f] = true
	}

	params := Params{}
	indexed := map[string]map[int]string{}

	// Sorting the keys keeps bracket and plain forms in a stable order.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := values[key]

		if name, ok := strings.CutSuffix(key, "[]"); ok {
			params[name] = appendList(params[name], vals...)
			continue
		}

		if m := indexedKey.FindStringSubmatch(key); m != nil {
			idx, err := strconv.Atoi(m[2])
			if err == nil && len(vals) > 0 {
				if indexed[m[1]] == nil {
					indexed[m[1]] = map[int]string{}
				}
				indexed[m[1]][idx] = vals[len(vals)-1]
				continue
			}
		}

		if lists[key] {
			params[key] = appendList(params[key], vals...)
			continue
		}

		if len(vals) > 0 {
			params[key] = vals[len(vals)-1]
		}
	}

	for name, byIndex := range indexed {
		idxs := make([]int, 0, len(byIndex))
		for i := range byIndex {
			idxs = append(idxs, i)
		}
		sort.Ints(idxs)

		for _, i := range idxs {
			params[name] = appendList(params[name], byIndex[i])
		}
	}

	return params
}

func appendList(existing any, vals ...string) []any {
	list, _ := existing.([]any)
	for _, v := range vals {
		list = append(list, v)
	}
	return list
}

// JSONParams decodes a JSON object body into Params. An empty body yields
// an empty set. Numbers are kept as json.Number so integers never pass
// through float64.
func JSONParams(body io.Reader) (Params, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	params := Params{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return params, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if err := dec.Decode(&params); err != nil {
		return nil, err
	}

	return params, nil
}

// RequestParams merges the query string with a JSON body, if the request
// declares one. Body values override query values of the same name.
func RequestParams(c echo.Context, listFields ...string) (Params, error) {
	req := c.Request()
	params := QueryParams(req.URL.Query(), listFields...)

	if req.Body == nil || !isJSON(req.Header.Get(echo.HeaderContentType)) {
		return params, nil
	}

	body, err := JSONParams(req.Body)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || isSyntaxError(err) {
			return nil, errs.NewBadRequestError("The request body must be a valid JSON object.", false)
		}
		return nil, errs.NewBadRequestError("The request body could not be read.", false)
	}

	for k, v := range body {
		params[k] = v
	}

	return params, nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == echo.MIMEApplicationJSON
}

func isSyntaxError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
