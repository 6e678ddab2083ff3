package router

import (
	"github.com/deppfellow/bestsellers-api/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerBestSellersRoutes(api *echo.Group, h *handler.Handlers, rateLimit echo.MiddlewareFunc) {
	nyt := api.Group("/nyt")

	nyt.GET("/best-sellers", handler.Handle(
		h.BestSellers.Handler,
		h.BestSellers.Search,
		handler.NewSearchRequest,
	), rateLimit)
}
