package application

import (
	"context"

	"storesync-core/internal/domain"
	"storesync-core/internal/infrastructure/oauthstate"
	"storesync-core/internal/ports"

	"github.com/rs/zerolog"
)

// ConnectService runs the per-platform authorization flows: initiate
// produces the platform's authorize URL, callback turns the delivered grant
// into a persisted integration.
type ConnectService struct {
	integrations ports.IntegrationRepository
	connectors   map[domain.Platform]ports.PlatformConnector
	state        ports.StateCodec
	nonces       ports.NonceStore
	logger       zerolog.Logger
}

// NewConnectService creates a new connect service.
func NewConnectService(
	integrations ports.IntegrationRepository,
	connectors []ports.PlatformConnector,
	state ports.StateCodec,
	nonces ports.NonceStore,
	logger zerolog.Logger,
) *ConnectService {
	registry := make(map[domain.Platform]ports.PlatformConnector, len(connectors))
	for _, connector := range connectors {
		registry[connector.Platform()] = connector
	}
	return &ConnectService{
		integrations: integrations,
		connectors:   registry,
		state:        state,
		nonces:       nonces,
		logger:       logger,
	}
}

// ShopifyInstallURL builds the authorize URL for a verified user and shop.
// The signed state token is the only correlation mechanism between initiate
// and callback; its nonce is saved for one-time consumption.
func (s *ConnectService) ShopifyInstallURL(ctx context.Context, userID, shop string) (string, error) {
	connector := s.connectors[domain.PlatformShopify]

	host, err := connector.NormalizeIdentifier(shop)
	if err != nil {
		return "", err
	}

	token, nonce, err := s.state.Encode(userID)
	if err != nil {
		return "", err
	}
	// Nonce lifetime tracks the token's expiry so the two bounds cannot drift.
	if err := s.nonces.Save(ctx, nonce, oauthstate.TTL); err != nil {
		return "", err
	}

	return connector.BuildAuthorizeURL(ctx, ports.AuthorizeRequest{
		UserID:          userID,
		StoreIdentifier: host,
		State:           token,
	})
}

// CompleteShopifyInstall handles the platform redirect: verifies and
// consumes the state, exchanges the code for a token and upserts the
// integration as active.
func (s *ConnectService) CompleteShopifyInstall(ctx context.Context, code, shop, stateToken string) (*domain.Integration, error) {
	if code == "" || shop == "" || stateToken == "" {
		return nil, domain.ValidationError("missing code, shop or state parameter")
	}

	userID, nonce, err := s.state.Decode(stateToken)
	if err != nil {
		return nil, err
	}

	used, err := s.nonces.Consume(ctx, nonce)
	if err != nil {
		return nil, err
	}
	if !used {
		return nil, domain.ValidationError("state has already been used or expired")
	}

	connector := s.connectors[domain.PlatformShopify]
	host, err := connector.NormalizeIdentifier(shop)
	if err != nil {
		return nil, err
	}

	creds, err := connector.ExchangeGrant(ctx, ports.Grant{Code: code, Shop: host})
	if err != nil {
		return nil, err
	}

	integration := &domain.Integration{
		UserID:      userID,
		Platform:    domain.PlatformShopify,
		StoreURL:    host,
		AccessToken: creds.AccessToken,
		Scope:       creds.Scope,
		Status:      domain.IntegrationActive,
	}
	if err := s.integrations.Upsert(ctx, integration); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("userId", userID).
		Str("shop", host).
		Msg("Shopify integration connected")

	return integration, nil
}

// WooAuthorizeURL builds the store's external-authentication URL for a
// verified user. Identity travels as plain query parameters on the callback
// URL; the platform echoes them back on delivery.
func (s *ConnectService) WooAuthorizeURL(ctx context.Context, userID, storeURL string) (string, error) {
	connector := s.connectors[domain.PlatformWooCommerce]

	store, err := connector.NormalizeIdentifier(storeURL)
	if err != nil {
		return "", err
	}

	return connector.BuildAuthorizeURL(ctx, ports.AuthorizeRequest{
		UserID:          userID,
		StoreIdentifier: store,
	})
}

// CompleteWooAuthorization handles the store's callback POST and upserts
// the integration with the delivered consumer key/secret pair.
func (s *ConnectService) CompleteWooAuthorization(ctx context.Context, userID, storeURL, consumerKey, consumerSecret string) (*domain.Integration, error) {
	if userID == "" || storeURL == "" {
		return nil, domain.ValidationError("missing user_id or store_url callback parameter")
	}

	connector := s.connectors[domain.PlatformWooCommerce]
	store, err := connector.NormalizeIdentifier(storeURL)
	if err != nil {
		return nil, err
	}

	creds, err := connector.ExchangeGrant(ctx, ports.Grant{
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
	})
	if err != nil {
		return nil, err
	}

	integration := &domain.Integration{
		UserID:       userID,
		Platform:     domain.PlatformWooCommerce,
		StoreURL:     store,
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		Status:       domain.IntegrationActive,
	}
	if err := s.integrations.Upsert(ctx, integration); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("userId", userID).
		Str("store", store).
		Msg("WooCommerce integration connected")

	return integration, nil
}
