package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storesync-core/internal/domain"
	"storesync-core/internal/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	authorizePath = "/wc-auth/v1/authorize"
	ordersPath    = "/wp-json/wc/v3/orders"

	// Look-back for integrations that have never completed a sync.
	firstSyncWindow = 180 * 24 * time.Hour
)

// Connector implements the WooCommerce platform adapter and auth connector.
// WooCommerce has no token exchange: the store POSTs a consumer key/secret
// pair to the callback URL registered during initiate.
type Connector struct {
	appName     string
	callbackURL string
	returnURL   string
	httpClient  *http.Client
	logger      zerolog.Logger
}

// NewConnector creates the WooCommerce connector. callbackURL is where the
// store delivers credentials; returnURL is where the merchant's browser is
// sent afterwards.
func NewConnector(appName, callbackURL, returnURL string, logger zerolog.Logger) *Connector {
	return &Connector{
		appName:     appName,
		callbackURL: callbackURL,
		returnURL:   returnURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

// Platform returns the platform tag this connector serves.
func (c *Connector) Platform() domain.Platform {
	return domain.PlatformWooCommerce
}

// NormalizeIdentifier canonicalizes a store URL to an https:// origin (plus
// any subdirectory path) with no trailing slash.
func (c *Connector) NormalizeIdentifier(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", domain.ValidationError("store_url is required")
	}

	candidate := trimmed
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return "", domain.ValidationError("invalid store_url %q", trimmed)
	}

	normalized := "https://" + strings.ToLower(u.Host) + u.Path
	return strings.TrimRight(normalized, "/"), nil
}

// BuildAuthorizeURL returns the store's external-authentication endpoint
// URL. WooCommerce correlates initiate and callback via the user_id and
// store_url query parameters embedded in the callback URL.
func (c *Connector) BuildAuthorizeURL(_ context.Context, req ports.AuthorizeRequest) (string, error) {
	callback := fmt.Sprintf("%s?user_id=%s&store_url=%s",
		c.callbackURL,
		url.QueryEscape(req.UserID),
		url.QueryEscape(req.StoreIdentifier),
	)

	authURL := fmt.Sprintf("%s%s?app_name=%s&scope=read_write&user_id=%s&return_url=%s&callback_url=%s",
		req.StoreIdentifier,
		authorizePath,
		url.QueryEscape(c.appName),
		url.QueryEscape(req.UserID),
		url.QueryEscape(c.returnURL),
		url.QueryEscape(callback),
	)

	c.logger.Info().
		Str("store", req.StoreIdentifier).
		Msg("Built WooCommerce authorization URL")

	return authURL, nil
}

// ExchangeGrant validates the credentials delivered by the store's callback
// POST. No upstream call is involved.
func (c *Connector) ExchangeGrant(_ context.Context, grant ports.Grant) (*ports.Credentials, error) {
	if grant.ConsumerKey == "" || grant.ConsumerSecret == "" {
		return nil, domain.ValidationError("missing consumer_key or consumer_secret")
	}
	return &ports.Credentials{
		AccessToken:  grant.ConsumerKey,
		RefreshToken: grant.ConsumerSecret,
	}, nil
}

// FetchOrders pulls orders modified after the integration's sync window via
// the store's REST API and normalizes them. Authentication is Basic auth
// first; on 401/403 it retries once with the credentials as query
// parameters, because some hosts strip Authorization headers.
func (c *Connector) FetchOrders(ctx context.Context, integration *domain.Integration) ([]*domain.Order, error) {
	if integration.RefreshToken == "" {
		return nil, domain.ValidationError("missing WooCommerce consumer secret")
	}

	after := time.Now().Add(-firstSyncWindow)
	if integration.LastSyncAt != nil {
		after = *integration.LastSyncAt
	}

	baseURL := strings.TrimRight(integration.StoreURL, "/")
	apiURL := fmt.Sprintf("%s%s?after=%s&per_page=100&status=any",
		baseURL,
		ordersPath,
		url.QueryEscape(after.UTC().Format(time.RFC3339)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create orders request: %w", err)
	}
	req.SetBasicAuth(integration.AccessToken, integration.RefreshToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.KindUpstream, err, "woocommerce orders request failed")
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		c.logger.Debug().
			Str("store", integration.StoreURL).
			Int("status", resp.StatusCode).
			Msg("Basic auth rejected, retrying with query-parameter credentials")

		retryURL := fmt.Sprintf("%s&consumer_key=%s&consumer_secret=%s",
			apiURL,
			url.QueryEscape(integration.AccessToken),
			url.QueryEscape(integration.RefreshToken),
		)
		retryReq, err := http.NewRequestWithContext(ctx, http.MethodGet, retryURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create retry request: %w", err)
		}
		resp, err = c.httpClient.Do(retryReq)
		if err != nil {
			return nil, domain.WrapError(domain.KindUpstream, err, "woocommerce orders request failed")
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, domain.UpstreamError("woocommerce api error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var items []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, domain.WrapError(domain.KindUpstream, err, "failed to decode woocommerce orders response")
	}

	orders := make([]*domain.Order, 0, len(items))
	for _, raw := range items {
		order, err := normalizeOrder(integration.ID, raw)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	c.logger.Debug().
		Str("store", integration.StoreURL).
		Int("orders", len(orders)).
		Time("after", after).
		Msg("Fetched WooCommerce orders")

	return orders, nil
}

func normalizeOrder(integrationID string, raw json.RawMessage) (*domain.Order, error) {
	var item struct {
		ID          int64  `json:"id"`
		Total       string `json:"total"`
		Currency    string `json:"currency"`
		Status      string `json:"status"`
		DateCreated string `json:"date_created"`
		Billing     *struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		} `json:"billing"`
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, domain.WrapError(domain.KindUpstream, err, "failed to decode woocommerce order")
	}

	price, err := decimal.NewFromString(item.Total)
	if err != nil {
		price = decimal.Zero
	}

	customer := "Guest"
	if item.Billing != nil {
		if name := strings.TrimSpace(item.Billing.FirstName + " " + item.Billing.LastName); name != "" {
			customer = name
		}
	}

	return &domain.Order{
		IntegrationID: integrationID,
		ExternalID:    strconv.FormatInt(item.ID, 10),
		TotalPrice:    price,
		Currency:      item.Currency,
		CustomerName:  customer,
		Status:        item.Status,
		OrderedAt:     parseOrderedAt(item.DateCreated),
		RawData:       raw,
	}, nil
}

// parseOrderedAt handles both RFC3339 and the timezone-less local datetime
// WooCommerce emits in date_created.
func parseOrderedAt(value string) time.Time {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return t
	}
	return time.Time{}
}
