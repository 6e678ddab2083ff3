package middleware

import (
	"net/http"

	"github.com/deppfellow/bestsellers-api/internal/errs"
	"github.com/deppfellow/bestsellers-api/internal/model"
	"github.com/deppfellow/bestsellers-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Messages for errors raised by the framework rather than by a handler.
const (
	MessageRouteNotFound    = "Route not found"
	MessageMethodNotAllowed = "Method not allowed"
)

// GlobalMiddlewares groups the global middleware and the global error handler
// so they can read config (CORS origins, legacy status mode) from *server.Server.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS returns Echo's CORS middleware configured by the server config.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
	})
}

// RequestLogger returns Echo's request logger middleware writing one "API"
// line per request through the request-scoped zerolog logger.
//
// Level follows the status: 5xx -> error, 4xx -> warn, otherwise info.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// When a handler returns an error the response is written later by
			// GlobalErrorHandler, so v.Status is not final yet. Derive it from
			// the error instead.
			// Reference: https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				var httpErr *errs.HTTPError
				var echoErr *echo.HTTPError

				if errors.As(v.Error, &httpErr) {
					statusCode = httpErr.Status
				} else if errors.As(v.Error, &echoErr) {
					statusCode = echoErr.Code
				} else {
					statusCode = http.StatusInternalServerError
				}
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover returns Echo's panic recovery middleware. Panics reach
// GlobalErrorHandler as errors and become 500 envelopes.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns Echo's secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the final error funnel for the entire HTTP server.
//
// Every error, whatever layer raised it, is rendered as an envelope:
//   - *errs.HTTPError keeps its status and message; field errors become "error"
//   - Echo's 404/405/429 get fixed messages
//   - anything else is a generic 500; the internal error is only logged
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	// Keep the original error for logging; the client gets the sanitized one.
	originalErr := err

	httpErr := toHTTPError(err)

	var detail any
	if len(httpErr.Errors) > 0 {
		detail = httpErr.Errors
	}
	envelope := model.ErrorEnvelope(httpErr.Status, httpErr.Message, detail)

	logger := GetLogger(c)
	logger.Error().Stack().
		Err(originalErr).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	if c.Response().Committed {
		return
	}

	status := envelope.TransportStatus(global.server.Config.Server.LegacyStatusOK)
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}

	_ = c.JSON(status, envelope)
}

func toHTTPError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var echoErr *echo.HTTPError
	if !errors.As(err, &echoErr) {
		return errs.NewInternalServerError()
	}

	switch echoErr.Code {
	case http.StatusNotFound:
		return errs.NewNotFoundError(MessageRouteNotFound, false)
	case http.StatusMethodNotAllowed:
		return errs.NewMethodNotAllowedError(MessageMethodNotAllowed)
	case http.StatusTooManyRequests:
		return errs.NewTooManyRequestsError(MessageRateLimited)
	}

	if echoErr.Code >= http.StatusInternalServerError {
		return errs.NewInternalServerError()
	}

	message, ok := echoErr.Message.(string)
	if !ok {
		message = http.StatusText(echoErr.Code)
	}

	return &errs.HTTPError{
		Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
		Message: message,
		Status:  echoErr.Code,
	}
}
