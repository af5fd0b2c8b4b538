package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Order is one externally-sourced order, locally cached. The pair
// (IntegrationID, ExternalID) is the upsert conflict key: re-ingesting the
// same order overwrites fields instead of duplicating rows.
type Order struct {
	IntegrationID string          `json:"integration_id"`
	ExternalID    string          `json:"external_id"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Currency      string          `json:"currency"`
	CustomerName  string          `json:"customer_name"`
	Status        string          `json:"status"`
	OrderedAt     time.Time       `json:"ordered_at"`
	RawData       json.RawMessage `json:"raw_data,omitempty"`
}
