package ports

import (
	"context"

	"storesync-core/internal/domain"
)

// AuthorizeRequest carries what a connector needs to build the platform's
// authorization URL during the initiate step.
type AuthorizeRequest struct {
	UserID string
	// StoreIdentifier is the already-normalized store identifier: a
	// *.myshopify.com host for Shopify, an https:// origin for WooCommerce.
	StoreIdentifier string
	// State is the opaque correlation token echoed back by the platform.
	// Unused by platforms that correlate via callback query parameters.
	State string
}

// Grant carries the authorization grant delivered by the platform's
// callback. Shopify delivers a code to exchange; WooCommerce delivers the
// credentials directly.
type Grant struct {
	Code           string
	Shop           string
	ConsumerKey    string
	ConsumerSecret string
}

// Credentials is the outcome of a completed grant exchange.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Scope        string
}

// PlatformConnector is the per-platform capability set: one implementation
// per platform tag, selected from a dispatch table rather than scattered
// conditionals.
type PlatformConnector interface {
	Platform() domain.Platform

	// NormalizeIdentifier canonicalizes a merchant-supplied store
	// identifier. Idempotent: normalizing an already-normalized value
	// returns it unchanged.
	NormalizeIdentifier(raw string) (string, error)

	// BuildAuthorizeURL returns the platform's authorize-endpoint URL for
	// the initiate step.
	BuildAuthorizeURL(ctx context.Context, req AuthorizeRequest) (string, error)

	// ExchangeGrant turns a callback grant into stored credentials.
	ExchangeGrant(ctx context.Context, grant Grant) (*Credentials, error)

	// FetchOrders pulls and normalizes orders for the integration's
	// current sync window.
	FetchOrders(ctx context.Context, integration *domain.Integration) ([]*domain.Order, error)
}
