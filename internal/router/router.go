// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/deppfellow/bestsellers-api/internal/handler"
	"github.com/deppfellow/bestsellers-api/internal/middleware"
	"github.com/deppfellow/bestsellers-api/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with global middleware, system routes
// and the versioned API group.
//
// Middleware order matters:
//   - RequestID runs before the context enhancer and tracing read the id
//   - NewRelicMiddleware starts the transaction EnhanceTracing decorates
//   - ContextEnhancer builds the logger RequestLogger writes through
//   - Recover is innermost so panics still pass through the logger
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	// Route-level rather than group-level middleware: Echo answers unknown
	// methods under a group with middleware as 404 instead of 405.
	api := router.Group(s.Config.Server.APIPrefix())
	registerBestSellersRoutes(api, h, middlewares.RateLimit.Limit())

	return router
}
