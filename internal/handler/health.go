package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/deppfellow/bestsellers-api/internal/middleware"
	"github.com/deppfellow/bestsellers-api/internal/model"
	"github.com/deppfellow/bestsellers-api/internal/server"
	"github.com/labstack/echo/v4"
)

// Health messages.
const (
	MessageHealthy   = "healthy"
	MessageUnhealthy = "unhealthy"
)

// HealthHandler exposes the endpoint uptime monitors and load balancers poll.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth reports service status as an envelope.
//
// The NYT API is not called: every call spends quota. The check only
// confirms that an endpoint and API key are configured.
//
// It returns 200 when healthy and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	nytCheck := h.checkUpstreamConfig()

	data := map[string]interface{}{
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks": map[string]interface{}{
			"nyt": nytCheck,
		},
	}

	if nytCheck["status"] != MessageHealthy {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Interface("nyt", nytCheck).
			Msg("health check failed")

		if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
			h.server.LoggerService.GetApplication().RecordCustomEvent(
				"HealthCheckError",
				map[string]interface{}{
					"check_type":        "nyt",
					"operation":         "health_check",
					"error_type":        "nyt_not_configured",
					"total_duration_ms": time.Since(start).Milliseconds(),
				},
			)
		}

		envelope := model.ErrorEnvelope(http.StatusServiceUnavailable, MessageUnhealthy, data)
		return c.JSON(envelope.TransportStatus(h.server.Config.Server.LegacyStatusOK), envelope)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	envelope := model.SuccessEnvelope(http.StatusOK, MessageHealthy, data)
	if err := c.JSON(http.StatusOK, envelope); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) checkUpstreamConfig() map[string]interface{} {
	cfg := h.server.Config.NYT

	endpoint, err := url.Parse(cfg.BestSellersEndpoint)
	switch {
	case cfg.BestSellersEndpoint == "" || err != nil || endpoint.Host == "":
		return map[string]interface{}{"status": MessageUnhealthy, "error": "endpoint not configured"}
	case cfg.APIKey == "":
		return map[string]interface{}{"status": MessageUnhealthy, "error": "API key not configured"}
	}

	return map[string]interface{}{
		"status":           MessageHealthy,
		"host":             endpoint.Host,
		"tls_verification": !cfg.InsecureSkipVerify,
		"timeout":          cfg.Timeout.String(),
	}
}
