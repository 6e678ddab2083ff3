package router

import (
	"github.com/deppfellow/bestsellers-api/internal/handler"
	"github.com/deppfellow/bestsellers-api/static"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerSystemRoutes registers endpoints that are not part of the API itself:
// health, docs, the embedded static assets and Prometheus metrics.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.StaticFS("/static", static.FS)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	r.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
