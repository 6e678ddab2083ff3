package handler

import (
	"github.com/deppfellow/bestsellers-api/internal/model"
	"github.com/deppfellow/bestsellers-api/internal/model/bestseller"
	"github.com/deppfellow/bestsellers-api/internal/server"
	"github.com/deppfellow/bestsellers-api/internal/service"
	"github.com/labstack/echo/v4"
)

type BestSellersHandler struct {
	Handler
	service *service.BestSellersService
}

func NewBestSellersHandler(s *server.Server, bestSellersService *service.BestSellersService) *BestSellersHandler {
	return &BestSellersHandler{
		Handler: NewHandler(s),
		service: bestSellersService,
	}
}

// Search forwards a validated search upstream. Upstream failures are
// envelopes, not errors, so the returned error is always nil.
func (h *BestSellersHandler) Search(c echo.Context, req *bestseller.SearchRequest) (model.Envelope, error) {
	return h.service.Search(c.Request().Context(), req.Query()), nil
}

// NewSearchRequest returns an empty request for Handle to bind into.
func NewSearchRequest() *bestseller.SearchRequest {
	return bestseller.NewSearchRequest(nil)
}
