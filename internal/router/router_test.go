package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/deppfellow/bestsellers-api/internal/config"
	"github.com/deppfellow/bestsellers-api/internal/handler"
	"github.com/deppfellow/bestsellers-api/internal/server"
	"github.com/deppfellow/bestsellers-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const endpoint = "/api/1/nyt/best-sellers"

// fakeUpstream records every query it receives and replies with a fixed status and body.
type fakeUpstream struct {
	mu      sync.Mutex
	status  int
	body    string
	queries []url.Values
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.queries = append(f.queries, r.URL.Query())
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
}

func (f *fakeUpstream) lastQuery(t *testing.T) url.Values {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	require.NotEmpty(t, f.queries, "upstream was not called")
	return f.queries[len(f.queries)-1]
}

func (f *fakeUpstream) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func newTestConfig(upstreamURL string) *config.Config {
	return &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        config.DefaultReadTimeout,
			WriteTimeout:       config.DefaultWriteTimeout,
			IdleTimeout:        config.DefaultIdleTimeout,
			CORSAllowedOrigins: []string{"*"},
			APIVersion:         config.DefaultAPIVersion,
		},
		NYT: config.NYTConfig{
			BestSellersEndpoint: upstreamURL,
			APIKey:              "test-key",
		},
		Observability: config.DefaultObservabilityConfig(),
	}
}

func newTestRouter(t *testing.T, upstream http.Handler, mutate func(*config.Config)) *echo.Echo {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	cfg := newTestConfig(srv.URL)
	if mutate != nil {
		mutate(cfg)
	}

	logger := zerolog.Nop()
	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)

	services, err := service.NewServices(s)
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services))
}

func serve(e *echo.Echo, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestBestSellers_NoParams(t *testing.T) {
	upstream := &fakeUpstream{
		status: http.StatusOK,
		body:   `{"status":"OK","results":[{"title":"YOU JUST NEED TO LOSE WEIGHT","author":"Aubrey Gordon"},{"title":"#GIRLBOSS","author":"Sophia Amoruso"}]}`,
	}
	e := newTestRouter(t, upstream, nil)

	rec, body := serve(e, httptest.NewRequest(http.MethodGet, endpoint, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 200, body["status"])
	assert.Equal(t, "Successfully executed the request.", body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "OK", data["status"])
	assert.NotEmpty(t, data["results"])

	query := upstream.lastQuery(t)
	assert.Equal(t, "test-key", query.Get("api-key"))
	for _, field := range []string{"author", "isbn", "title", "offset"} {
		assert.NotContains(t, query, field)
	}
}

func TestBestSellers_AuthorParam(t *testing.T) {
	upstream := &fakeUpstream{
		status: http.StatusOK,
		body:   `{"results":[{"title":"A FACE IN THE CROWD","author":"Stephen King"}]}`,
	}
	e := newTestRouter(t, upstream, nil)

	rec, body := serve(e, httptest.NewRequest(http.MethodGet, endpoint+"?author="+url.QueryEscape("  Stephen King "), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Stephen King", upstream.lastQuery(t).Get("author"))

	results := body["data"].(map[string]any)["results"].([]any)
	assert.Equal(t, "Stephen King", results[0].(map[string]any)["author"])
}

func TestBestSellers_TitleInJSONBody(t *testing.T) {
	upstream := &fakeUpstream{
		status: http.StatusOK,
		body:   `{"results":[{"title":"FOURTH WING","author":"Rebecca Yarros"}]}`,
	}
	e := newTestRouter(t, upstream, nil)

	req := httptest.NewRequest(http.MethodGet, endpoint, strings.NewReader(`{"title":"FOURTH WING"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec, body := serve(e, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "FOURTH WING", upstream.lastQuery(t).Get("title"))
}

func TestBestSellers_ISBNParam(t *testing.T) {
	forms := map[string]string{
		"brackets": "?isbn[]=1649374046&isbn[]=9781649374042",
		"repeated": "?isbn=1649374046&isbn=9781649374042",
		"indexed":  "?isbn[1]=9781649374042&isbn[0]=1649374046",
	}

	for name, rawQuery := range forms {
		t.Run(name, func(t *testing.T) {
			upstream := &fakeUpstream{status: http.StatusOK, body: `{"results":[{"title":"FOURTH WING"}]}`}
			e := newTestRouter(t, upstream, nil)

			rec, body := serve(e, httptest.NewRequest(http.MethodGet, endpoint+rawQuery, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, true, body["success"])
			assert.Equal(t, "1649374046;9781649374042", upstream.lastQuery(t).Get("isbn"))
		})
	}
}

func TestBestSellers_ISBNInJSONBody(t *testing.T) {
	upstream := &fakeUpstream{status: http.StatusOK, body: `{"results":[]}`}
	e := newTestRouter(t, upstream, nil)

	req := httptest.NewRequest(http.MethodGet, endpoint, strings.NewReader(`{"isbn":[1649374046, 9781649374042]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec, _ := serve(e, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1649374046;9781649374042", upstream.lastQuery(t).Get("isbn"))
}

func TestBestSellers_OffsetString(t *testing.T) {
	upstream := &fakeUpstream{status: http.StatusOK, body: `{}`}
	e := newTestRouter(t, upstream, nil)

	rec, _ := serve(e, httptest.NewRequest(http.MethodGet, endpoint+"?offset=string", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{
		"success": false,
		"status": 422,
		"message": "An invalid parameter was provided.",
		"error": {"offset": ["The offset field must be an integer."]}
	}`, rec.Body.String())
	assert.Zero(t, upstream.calls())
}

func TestBestSellers_CollectsAllViolations(t *testing.T) {
	upstream := &fakeUpstream{status: http.StatusOK, body: `{}`}
	e := newTestRouter(t, upstream, nil)

	req := httptest.NewRequest(http.MethodGet, endpoint, strings.NewReader(`{"author":123,"title":true,"isbn":["isbn","9781649374042"],"offset":15}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec, body := serve(e, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, map[string]any{
		"author": []any{"The author field must be a string."},
		"title":  []any{"The title field must be a string."},
		"isbn.0": []any{"An ISBN must contain 10 or 13 digits."},
		"offset": []any{"The offset must be a multiple of 20."},
	}, body["error"])
	assert.Zero(t, upstream.calls())
}

func TestBestSellers_MalformedJSONBody(t *testing.T) {
	upstream := &fakeUpstream{status: http.StatusOK, body: `{}`}
	e := newTestRouter(t, upstream, nil)

	req := httptest.NewRequest(http.MethodGet, endpoint, strings.NewReader(`{"title":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec, body := serve(e, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.EqualValues(t, 400, body["status"])
	assert.Zero(t, upstream.calls())
}

func TestBestSellers_UpstreamRateLimited(t *testing.T) {
	upstream := &fakeUpstream{status: http.StatusTooManyRequests, body: `{"fault":{"faultstring":"Rate limit quota violation"}}`}
	e := newTestRouter(t, upstream, nil)

	rec, _ := serve(e, httptest.NewRequest(http.MethodGet, endpoint, nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{
		"success": false,
		"status": 429,
		"message": "Too many requests were made to the NYT API in a short amount of time. Please try again in 5 minutes.",
		"error": null
	}`, rec.Body.String())
}

func TestBestSellers_UpstreamUnknownStatus(t *testing.T) {
	upstream := &fakeUpstream{status: 520, body: `unexpected`}
	e := newTestRouter(t, upstream, nil)

	rec, body := serve(e, httptest.NewRequest(http.MethodGet, endpoint, nil))

	assert.Equal(t, 520, rec.Code)
	assert.EqualValues(t, 520, body["status"])
	assert.Equal(t, "Unable to complete the request at this time.", body["message"])
	assert.NotContains(t, rec.Body.String(), "unexpected")
}

func TestBestSellers_TransportFailure(t *testing.T) {
	upstream := &fakeUpstream{status: http.StatusOK, body: `{}`}
	e := newTestRouter(t, upstream, func(cfg *config.Config) {
		cfg.NYT.BestSellersEndpoint = "http://127.0.0.1:1/history.json"
	})

	rec, body := serve(e, httptest.NewRequest(http.MethodGet, endpoint, nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.EqualValues(t, 500, body["status"])
	assert.Equal(t, "An unexpected error occurred. Please try again later.", body["message"])
	assert.NotEmpty(t, body["error"])
	assert.NotContains(t, rec.Body.String(), "test-key")
}

func TestBestSellers_LegacyStatusOK(t *testing.T) {
	upstream := &fakeUpstream{status: http.StatusOK, body: `{}`}
	e := newTestRouter(t, upstream, func(cfg *config.Config) {
		cfg.Server.LegacyStatusOK = true
	})

	rec, body := serve(e, httptest.NewRequest(http.MethodGet, endpoint+"?offset=string", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 422, body["status"])
}

func TestBestSellers_APIVersionPrefix(t *testing.T) {
	upstream := &fakeUpstream{status: http.StatusOK, body: `{}`}
	e := newTestRouter(t, upstream, func(cfg *config.Config) {
		cfg.Server.APIVersion = "2"
	})

	rec, _ := serve(e, httptest.NewRequest(http.MethodGet, "/api/2/nyt/best-sellers", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := serve(e, httptest.NewRequest(http.MethodGet, endpoint, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", body["message"])
}

func TestBestSellers_MethodNotAllowed(t *testing.T) {
	upstream := &fakeUpstream{status: http.StatusOK, body: `{}`}
	e := newTestRouter(t, upstream, nil)

	rec, body := serve(e, httptest.NewRequest(http.MethodPost, endpoint, nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Zero(t, upstream.calls())
}

func TestBestSellers_InboundRateLimit(t *testing.T) {
	upstream := &fakeUpstream{status: http.StatusOK, body: `{}`}
	e := newTestRouter(t, upstream, func(cfg *config.Config) {
		cfg.Server.RateLimit = 1
	})

	first, _ := serve(e, httptest.NewRequest(http.MethodGet, endpoint, nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second, body := serve(e, httptest.NewRequest(http.MethodGet, endpoint, nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.EqualValues(t, 429, body["status"])
	assert.Equal(t, 1, upstream.calls())
}

func TestSystemRoutes(t *testing.T) {
	upstream := &fakeUpstream{status: http.StatusOK, body: `{"results":[]}`}
	e := newTestRouter(t, upstream, nil)

	t.Run("status", func(t *testing.T) {
		rec, body := serve(e, httptest.NewRequest(http.MethodGet, "/status", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "healthy", body["message"])
	})

	t.Run("docs", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
		assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
		assert.Contains(t, rec.Body.String(), "/static/openapi.json")
	})

	t.Run("openapi document", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/openapi.json", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Contains(t, doc["paths"], endpoint)
	})

	t.Run("metrics", func(t *testing.T) {
		serve(e, httptest.NewRequest(http.MethodGet, endpoint, nil))

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, bytes.Contains(rec.Body.Bytes(), []byte("bestsellers_upstream_requests_total")))
	})
}
