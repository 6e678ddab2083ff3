package service

import (
	"fmt"

	"github.com/deppfellow/bestsellers-api/internal/lib/nyt"
	"github.com/deppfellow/bestsellers-api/internal/server"
)

// Services groups every business service so handlers receive one value.
type Services struct {
	BestSellers *BestSellersService
}

// NewServices builds the upstream client from config and the services on top of it.
func NewServices(s *server.Server) (*Services, error) {
	client, err := nyt.NewClient(s.Config.NYT)
	if err != nil {
		return nil, fmt.Errorf("failed to create NYT client: %w", err)
	}

	return &Services{
		BestSellers: NewBestSellersService(s, client),
	}, nil
}
