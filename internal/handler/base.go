package handler

import (
	"strings"
	"time"

	"github.com/deppfellow/bestsellers-api/internal/errs"
	"github.com/deppfellow/bestsellers-api/internal/metrics"
	"github.com/deppfellow/bestsellers-api/internal/middleware"
	"github.com/deppfellow/bestsellers-api/internal/model"
	"github.com/deppfellow/bestsellers-api/internal/server"
	"github.com/deppfellow/bestsellers-api/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
)

// Handler is the base handler type that holds shared application dependencies.
//
// Concrete handlers embed it to reach config and loggers through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint function receiving a bound and validated request.
//
// Req is usually a pointer type so binding can populate it.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// ResponseHandler defines how a successful handler result is written and
// which observability attributes it adds.
type ResponseHandler interface {
	// Handle writes the HTTP response for the given result.
	Handle(c echo.Context, result interface{}) error

	// GetOperation returns an operation name used for structured logging.
	GetOperation() string

	// AddAttributes attaches New Relic attributes based on the result.
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// EnvelopeResponseHandler writes a model.Envelope.
//
// The HTTP status mirrors the envelope status unless legacyStatusOK is set,
// in which case every envelope is written with 200.
type EnvelopeResponseHandler struct {
	legacyStatusOK bool
}

func (h EnvelopeResponseHandler) Handle(c echo.Context, result interface{}) error {
	envelope := result.(model.Envelope)
	return c.JSON(envelope.TransportStatus(h.legacyStatusOK), envelope)
}

func (h EnvelopeResponseHandler) GetOperation() string {
	return "handler_envelope"
}

func (h EnvelopeResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if txn == nil {
		return
	}
	if envelope, ok := result.(model.Envelope); ok {
		txn.AddAttribute("envelope.success", envelope.Success)
		txn.AddAttribute("envelope.status", envelope.Status)
	}
}

// handleRequest is the shared execution pipeline for every typed handler.
//
// It centralizes binding and validation, request-scoped logging, New Relic
// attributes and error reporting, timings and response writing.
//
// Errors are returned untouched so GlobalErrorHandler renders them.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	method := c.Request().Method
	route := c.Path()

	// Set by the nrecho middleware when New Relic is enabled.
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", method).
		Str("route", route).
		Logger()

	logger.Info().Msg("handling request")

	validationStart := time.Now()

	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Error().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		recordValidationFailure(err)

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	logger.Debug().
		Dur("validation_duration", validationDuration).
		Msg("request validation successful")

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())

		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed")

	return responseHandler.Handle(c, result)
}

// recordValidationFailure counts failed fields. List items are counted under
// their list name so "isbn.3" becomes "isbn".
func recordValidationFailure(err error) {
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		return
	}

	for _, field := range httpErr.Errors.Fields() {
		name, _, _ := strings.Cut(field, ".")
		metrics.ValidationFailuresTotal.WithLabelValues(name).Inc()
	}
}

// Handle wraps an envelope-returning handler with validation, error handling,
// logging, metrics and tracing.
//
// newReq is called once per request so concurrent requests never share a
// payload:
//
//	api.GET("/x", handler.Handle(h.Handler, h.Search, newSearchRequest))
func Handle[Req validation.Validatable](
	h Handler,
	handler HandlerFunc[Req, model.Envelope],
	newReq func() Req,
) echo.HandlerFunc {
	responseHandler := EnvelopeResponseHandler{
		legacyStatusOK: h.server.Config.Server.LegacyStatusOK,
	}

	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, responseHandler)
	}
}
