package application

import (
	"context"
	"testing"

	"storesync-core/internal/domain"
	"storesync-core/internal/infrastructure/oauthstate"
	"storesync-core/internal/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectFixture() (*ConnectService, *fakeIntegrationRepo, *fakeConnector, *fakeConnector, *fakeNonceStore) {
	integrations := newFakeIntegrationRepo()
	shopify := &fakeConnector{
		platform: domain.PlatformShopify,
		authURL:  "https://acme.myshopify.com/admin/oauth/authorize",
		creds:    &ports.Credentials{AccessToken: "shpat_token", Scope: "read_orders,read_products"},
	}
	woo := &fakeConnector{
		platform: domain.PlatformWooCommerce,
		authURL:  "https://shop.example.com/wc-auth/v1/authorize",
		creds:    &ports.Credentials{AccessToken: "ck_key", RefreshToken: "cs_secret"},
	}
	nonces := newFakeNonceStore()
	svc := NewConnectService(
		integrations,
		[]ports.PlatformConnector{shopify, woo},
		newFakeStateCodec(),
		nonces,
		zerolog.Nop(),
	)
	return svc, integrations, shopify, woo, nonces
}

func TestShopifyInstallURL(t *testing.T) {
	svc, _, _, _, nonces := connectFixture()

	url, err := svc.ShopifyInstallURL(context.Background(), "user-1", "ACME.myshopify.com")
	require.NoError(t, err)

	assert.Contains(t, url, "store=acme.myshopify.com")
	assert.Contains(t, url, "state=state-for-user-1")
	assert.True(t, nonces.saved["nonce-1"], "nonce must be saved for one-time consumption")
	assert.Equal(t, oauthstate.TTL, nonces.ttls["nonce-1"], "nonce lifetime must match the state token's expiry")
}

func TestShopifyInstallURLInvalidShop(t *testing.T) {
	svc, _, _, _, _ := connectFixture()

	_, err := svc.ShopifyInstallURL(context.Background(), "user-1", "   ")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestCompleteShopifyInstall(t *testing.T) {
	svc, integrations, shopify, _, _ := connectFixture()

	_, err := svc.ShopifyInstallURL(context.Background(), "user-1", "acme.myshopify.com")
	require.NoError(t, err)

	integration, err := svc.CompleteShopifyInstall(context.Background(), "grant-code", "acme.myshopify.com", "state-for-user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", integration.UserID)
	assert.Equal(t, domain.PlatformShopify, integration.Platform)
	assert.Equal(t, "acme.myshopify.com", integration.StoreURL)
	assert.Equal(t, "shpat_token", integration.AccessToken)
	assert.Equal(t, "read_orders,read_products", integration.Scope)
	assert.Equal(t, domain.IntegrationActive, integration.Status)
	assert.NotEmpty(t, integration.ID)

	require.Len(t, shopify.grants, 1)
	assert.Equal(t, "grant-code", shopify.grants[0].Code)
	assert.Equal(t, "acme.myshopify.com", shopify.grants[0].Shop)
	require.Len(t, integrations.upserts, 1)
}

func TestCompleteShopifyInstallRejectsReplay(t *testing.T) {
	svc, _, _, _, _ := connectFixture()

	_, err := svc.ShopifyInstallURL(context.Background(), "user-1", "acme.myshopify.com")
	require.NoError(t, err)

	_, err = svc.CompleteShopifyInstall(context.Background(), "grant-code", "acme.myshopify.com", "state-for-user-1")
	require.NoError(t, err)

	_, err = svc.CompleteShopifyInstall(context.Background(), "grant-code", "acme.myshopify.com", "state-for-user-1")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Contains(t, err.Error(), "already been used")
}

func TestCompleteShopifyInstallRejectsForgedState(t *testing.T) {
	svc, _, _, _, _ := connectFixture()

	_, err := svc.CompleteShopifyInstall(context.Background(), "grant-code", "acme.myshopify.com", "state-for-attacker")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestCompleteShopifyInstallMissingParameters(t *testing.T) {
	svc, _, _, _, _ := connectFixture()

	for _, tc := range []struct{ code, shop, state string }{
		{"", "acme.myshopify.com", "state"},
		{"code", "", "state"},
		{"code", "acme.myshopify.com", ""},
	} {
		_, err := svc.CompleteShopifyInstall(context.Background(), tc.code, tc.shop, tc.state)
		require.Error(t, err)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	}
}

func TestWooAuthorizeURL(t *testing.T) {
	svc, _, _, _, _ := connectFixture()

	url, err := svc.WooAuthorizeURL(context.Background(), "user-1", "https://Shop.Example.com")
	require.NoError(t, err)
	assert.Contains(t, url, "store=https://shop.example.com")
}

func TestCompleteWooAuthorization(t *testing.T) {
	svc, integrations, _, woo, _ := connectFixture()

	integration, err := svc.CompleteWooAuthorization(context.Background(), "user-1", "https://shop.example.com", "ck_key", "cs_secret")
	require.NoError(t, err)

	assert.Equal(t, "user-1", integration.UserID)
	assert.Equal(t, domain.PlatformWooCommerce, integration.Platform)
	assert.Equal(t, "https://shop.example.com", integration.StoreURL)
	assert.Equal(t, "ck_key", integration.AccessToken)
	assert.Equal(t, "cs_secret", integration.RefreshToken)
	assert.Equal(t, domain.IntegrationActive, integration.Status)

	require.Len(t, woo.grants, 1)
	assert.Equal(t, "ck_key", woo.grants[0].ConsumerKey)
	require.Len(t, integrations.upserts, 1)
}

func TestCompleteWooAuthorizationMissingIdentity(t *testing.T) {
	svc, integrations, _, _, _ := connectFixture()

	_, err := svc.CompleteWooAuthorization(context.Background(), "", "https://shop.example.com", "ck_key", "cs_secret")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.CompleteWooAuthorization(context.Background(), "user-1", "", "ck_key", "cs_secret")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	assert.Empty(t, integrations.upserts)
}

func TestCompleteWooAuthorizationRejectsBadGrant(t *testing.T) {
	svc, integrations, _, woo, _ := connectFixture()
	woo.grantErr = domain.ValidationError("missing consumer_key or consumer_secret")

	_, err := svc.CompleteWooAuthorization(context.Background(), "user-1", "https://shop.example.com", "", "")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Empty(t, integrations.upserts)
}
