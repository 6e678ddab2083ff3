// Package nyt is the HTTP client for the NYT Books "Best Sellers history" API.
//
// It only transports: it builds the outbound request, issues exactly one GET
// and hands back the raw status and body. Mapping statuses onto responses is
// the service layer's job.
package nyt

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/deppfellow/bestsellers-api/internal/config"
	"github.com/newrelic/go-agent/v3/newrelic"
	pkgerrors "github.com/pkg/errors"
)

// APIKeyParam is the query parameter carrying the API key.
const APIKeyParam = "api-key"

// maxBodyBytes caps how much of an upstream body is read.
const maxBodyBytes = 10 << 20

// Response is a received upstream HTTP response, whatever its status.
type Response struct {
	StatusCode int
	Body       []byte
}

// TransportError reports that no HTTP response was obtained at all.
//
// Its message is the innermost failure (e.g. "dial tcp: lookup ...: no such
// host") so the request URL, and with it the API key, never leaks.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	var urlErr *url.Error
	if errors.As(e.Err, &urlErr) {
		return urlErr.Err.Error()
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client calls the configured Best Sellers endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   *url.URL
	apiKey     string
}

// NewClient builds a Client from config.
//
// The transport is a clone of http.DefaultTransport wrapped by New Relic's
// round tripper, which records an external segment when the request context
// carries a transaction and is transparent otherwise.
func NewClient(cfg config.NYTConfig) (*Client, error) {
	endpoint, err := url.Parse(cfg.BestSellersEndpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid best sellers endpoint: %w", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		// The legacy deployment's upstream chain does not verify.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	return &Client{
		httpClient: &http.Client{
			Transport: newrelic.NewRoundTripper(transport),
			Timeout:   cfg.Timeout,
		},
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
	}, nil
}

// BestSellersHistory issues one GET with the given query plus the API key.
//
// A non-nil Response is returned for every received status, 2xx or not.
// A *TransportError (carrying a stack) is returned when no response arrived.
func (c *Client) BestSellersHistory(ctx context.Context, query url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(query), nil)
	if err != nil {
		return nil, pkgerrors.WithStack(&TransportError{Err: err})
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.WithStack(&TransportError{Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, pkgerrors.WithStack(&TransportError{Err: err})
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

func (c *Client) requestURL(query url.Values) string {
	u := *c.endpoint

	values := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			values.Add(k, v)
		}
	}
	values.Set(APIKeyParam, c.apiKey)

	u.RawQuery = values.Encode()
	return u.String()
}
