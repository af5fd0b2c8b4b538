package ports

import (
	"context"
	"time"

	"storesync-core/internal/domain"
)

// IntegrationRepository defines the interface for integration persistence.
type IntegrationRepository interface {
	// GetByID retrieves an integration by id. Returns (nil, nil) when no
	// integration exists with that id.
	GetByID(ctx context.Context, id string) (*domain.Integration, error)

	// ListActive retrieves all integrations with status active.
	ListActive(ctx context.Context) ([]*domain.Integration, error)

	// Upsert inserts or overwrites an integration keyed on
	// (user_id, platform, store_url) and fills in the stored id.
	Upsert(ctx context.Context, integration *domain.Integration) error

	// StampLastSync records the time of the most recent completed sync
	// attempt for the integration.
	StampLastSync(ctx context.Context, id string, at time.Time) error
}

// OrderRepository defines the interface for order persistence.
type OrderRepository interface {
	// UpsertMany inserts or overwrites orders keyed on
	// (integration_id, external_id).
	UpsertMany(ctx context.Context, orders []*domain.Order) error
}
