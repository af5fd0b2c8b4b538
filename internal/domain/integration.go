package domain

import "time"

// Platform identifies a supported commerce platform.
type Platform string

const (
	PlatformShopify     Platform = "shopify"
	PlatformWooCommerce Platform = "woocommerce"
)

// IntegrationStatus is the lifecycle state of a linked store.
type IntegrationStatus string

const (
	IntegrationActive   IntegrationStatus = "active"
	IntegrationInactive IntegrationStatus = "inactive"
)

// Integration represents one linked external store: its credentials and sync state.
// StoreURL is canonical: a *.myshopify.com hostname for Shopify, an https://
// origin with no trailing slash for WooCommerce. For WooCommerce the
// AccessToken/RefreshToken pair carries the consumer key and consumer secret.
type Integration struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	Platform     Platform          `json:"platform"`
	StoreURL     string            `json:"store_url"`
	AccessToken  string            `json:"-"`
	RefreshToken string            `json:"-"`
	Scope        string            `json:"scope,omitempty"`
	Status       IntegrationStatus `json:"status"`
	LastSyncAt   *time.Time        `json:"last_sync_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
