package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/deppfellow/bestsellers-api/internal/lib/nyt"
	"github.com/deppfellow/bestsellers-api/internal/metrics"
	"github.com/deppfellow/bestsellers-api/internal/model"
	"github.com/deppfellow/bestsellers-api/internal/model/bestseller"
	"github.com/deppfellow/bestsellers-api/internal/server"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// BestSellersFetcher performs the outbound Best Sellers call.
// *nyt.Client implements it.
type BestSellersFetcher interface {
	BestSellersHistory(ctx context.Context, query url.Values) (*nyt.Response, error)
}

// BestSellersService forwards validated searches to the NYT API and
// normalizes every outcome into an envelope.
type BestSellersService struct {
	server *server.Server
	client BestSellersFetcher
}

func NewBestSellersService(s *server.Server, client BestSellersFetcher) *BestSellersService {
	return &BestSellersService{
		server: s,
		client: client,
	}
}

// Search issues exactly one upstream call for q.
//
// It never returns an error: transport failures and rejected statuses are
// envelopes too. The call is detached from ctx cancellation so a client
// hanging up does not abort a request that is already on the wire.
func (s *BestSellersService) Search(ctx context.Context, q bestseller.SearchQuery) model.Envelope {
	logger := s.logger(ctx).With().
		Str("operation", "nyt_best_sellers_history").
		Logger()

	start := time.Now()
	resp, err := s.client.BestSellersHistory(context.WithoutCancel(ctx), q.Values())
	elapsed := time.Since(start)

	if err != nil {
		observeUpstream(metrics.OutcomeTransport, "", elapsed)
		return s.failure(ctx, &logger, err)
	}

	if resp.StatusCode == http.StatusOK {
		if !json.Valid(resp.Body) {
			observeUpstream(metrics.OutcomeTransport, strconv.Itoa(resp.StatusCode), elapsed)
			return s.failure(ctx, &logger, errors.New("invalid JSON in NYT API response"))
		}

		observeUpstream(metrics.OutcomeSuccess, strconv.Itoa(resp.StatusCode), elapsed)

		logger.Debug().
			Dur("upstream_duration", elapsed).
			Msg("NYT API request succeeded")

		return model.SuccessEnvelope(http.StatusOK, MessageSuccess, json.RawMessage(resp.Body))
	}

	observeUpstream(metrics.OutcomeRejected, strconv.Itoa(resp.StatusCode), elapsed)
	return s.rejected(ctx, &logger, q, resp)
}

// rejected maps a non-200 upstream status through the status table.
func (s *BestSellersService) rejected(ctx context.Context, logger *zerolog.Logger, q bestseller.SearchQuery, resp *nyt.Response) model.Envelope {
	entry := lookupUpstreamStatus(resp.StatusCode)

	event := logger.WithLevel(entry.level).Int("status", resp.StatusCode)
	if entry.logParams {
		event = event.Interface("params", q.LogFields())
	}
	if entry.logBody {
		event = event.Bytes("response", resp.Body)
	}
	event.Msg(entry.logMsg)

	if txn := newrelic.FromContext(ctx); txn != nil {
		txn.AddAttribute("nyt.status_code", resp.StatusCode)
	}

	return model.ErrorEnvelope(resp.StatusCode, entry.message, nil)
}

// failure reports a call that produced no usable response.
//
// The error text goes back to the caller; the client already reduced it to
// the innermost cause so it carries no URL.
func (s *BestSellersService) failure(ctx context.Context, logger *zerolog.Logger, err error) model.Envelope {
	logger.Error().Stack().
		Err(err).
		Msg("NYT API request exception")

	if txn := newrelic.FromContext(ctx); txn != nil {
		txn.NoticeError(nrpkgerrors.Wrap(err))
	}

	return model.ErrorEnvelope(http.StatusInternalServerError, MessageUnexpectedError, err.Error())
}

// logger prefers the request-scoped logger and falls back to the server's.
func (s *BestSellersService) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.server.Logger
}

func observeUpstream(outcome, status string, elapsed time.Duration) {
	metrics.UpstreamRequestsTotal.WithLabelValues(outcome, status).Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
