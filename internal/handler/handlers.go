package handler

import (
	"github.com/deppfellow/bestsellers-api/internal/server"
	"github.com/deppfellow/bestsellers-api/internal/service"
)

// Handlers groups all HTTP handlers so router setup receives one value.
type Handlers struct {
	Health      *HealthHandler      // service health (liveness)
	OpenAPI     *OpenAPIHandler     // API documentation UI
	BestSellers *BestSellersHandler // NYT Best Sellers search
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(s),
		OpenAPI:     NewOpenAPIHandler(s),
		BestSellers: NewBestSellersHandler(s, services.BestSellers),
	}
}
