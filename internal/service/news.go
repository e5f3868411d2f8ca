package service

import (
	"context"
	"errors"

	"news/aggregator/internal/client"
	"news/aggregator/internal/query"

	log "github.com/sirupsen/logrus"
)

// ErrFetchFailed is the only error callers see; the upstream cause is logged.
var ErrFetchFailed = errors.New("failed to fetch news")

// Params are the raw GET /api/news parameters.
type Params struct {
	Category string
	Search   string
	Page     string
}

type Service struct {
	client client.NewsAPIClient
}

func NewService(client client.NewsAPIClient) *Service {
	return &Service{
		client: client,
	}
}

// News resolves params into a query mode and returns the upstream body verbatim.
func (s *Service) News(ctx context.Context, params Params) ([]byte, error) {
	mode := query.FromParams(params.Category, params.Search, params.Page)

	body, err := s.client.Fetch(ctx, mode)
	if err != nil {
		log.WithFields(log.Fields{
			"mode": mode.UpstreamPath(),
			"page": mode.PageNumber(),
		}).WithError(err).Error("❌ Upstream news request failed")
		return nil, ErrFetchFailed
	}

	return body, nil
}
