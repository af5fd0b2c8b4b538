package application

import (
	"context"
	"time"

	"storesync-core/internal/domain"
	"storesync-core/internal/infrastructure/metrics"
	"storesync-core/internal/ports"

	"github.com/rs/zerolog"
)

// SyncService orchestrates order synchronization: it selects the connector
// for an integration's platform tag, merges fetched orders idempotently and
// stamps the integration's last-sync time.
type SyncService struct {
	integrations ports.IntegrationRepository
	orders       ports.OrderRepository
	connectors   map[domain.Platform]ports.PlatformConnector
	logger       zerolog.Logger
}

// NewSyncService creates a new sync service with the given connectors.
func NewSyncService(
	integrations ports.IntegrationRepository,
	orders ports.OrderRepository,
	connectors []ports.PlatformConnector,
	logger zerolog.Logger,
) *SyncService {
	registry := make(map[domain.Platform]ports.PlatformConnector, len(connectors))
	for _, connector := range connectors {
		registry[connector.Platform()] = connector
	}
	return &SyncService{
		integrations: integrations,
		orders:       orders,
		connectors:   registry,
		logger:       logger,
	}
}

// SyncIntegration fetches and upserts orders for one integration. The
// last-sync time is stamped even when zero orders were fetched, anchoring
// the next incremental window; fetch or persistence failures propagate to
// the caller without a stamp and without retry.
func (s *SyncService) SyncIntegration(ctx context.Context, integration *domain.Integration) (*domain.SyncResult, error) {
	connector, ok := s.connectors[integration.Platform]
	if !ok {
		return nil, domain.ValidationError("unsupported platform %q", integration.Platform)
	}

	platform := string(integration.Platform)
	start := time.Now()

	orders, err := connector.FetchOrders(ctx, integration)
	if err != nil {
		metrics.SyncRuns.WithLabelValues(platform, "error").Inc()
		return nil, err
	}

	if len(orders) > 0 {
		if err := s.orders.UpsertMany(ctx, orders); err != nil {
			metrics.SyncRuns.WithLabelValues(platform, "error").Inc()
			return nil, err
		}
	}

	if err := s.integrations.StampLastSync(ctx, integration.ID, time.Now()); err != nil {
		metrics.SyncRuns.WithLabelValues(platform, "error").Inc()
		return nil, err
	}

	metrics.SyncRuns.WithLabelValues(platform, "success").Inc()
	metrics.OrdersIngested.WithLabelValues(platform).Add(float64(len(orders)))
	metrics.SyncDuration.WithLabelValues(platform).Observe(time.Since(start).Seconds())

	s.logger.Info().
		Str("integrationId", integration.ID).
		Str("platform", platform).
		Int("orders", len(orders)).
		Msg("Sync completed")

	return &domain.SyncResult{IntegrationID: integration.ID, Count: len(orders)}, nil
}

// SyncAll synchronizes every active integration sequentially. A failure in
// one integration is recorded in its result slot and does not stop
// processing of subsequent integrations.
func (s *SyncService) SyncAll(ctx context.Context) (*domain.BatchResult, error) {
	active, err := s.integrations.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SyncResult, 0, len(active))
	total := 0

	for _, integration := range active {
		result, err := s.SyncIntegration(ctx, integration)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("integrationId", integration.ID).
				Str("platform", string(integration.Platform)).
				Msg("Integration sync failed")
			results = append(results, domain.SyncResult{
				IntegrationID: integration.ID,
				Count:         0,
				Error:         err.Error(),
			})
			continue
		}
		results = append(results, *result)
		total += result.Count
	}

	return &domain.BatchResult{
		Success:      true,
		Integrations: len(results),
		Orders:       total,
		Results:      results,
	}, nil
}
