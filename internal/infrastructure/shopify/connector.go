package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storesync-core/internal/domain"
	"storesync-core/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	apiVersion = "2024-01"
	oauthScope = "read_orders,read_products"

	// Look-back for integrations that have never completed a sync.
	firstSyncWindow = 30 * 24 * time.Hour
)

// Connector implements the Shopify platform adapter and OAuth connector.
type Connector struct {
	clientID     string
	clientSecret string
	redirectURI  string
	app          goshopify.App
	httpClient   *http.Client
	logger       zerolog.Logger

	// Test hooks. Empty in production; requests go to the shop's domain.
	graphqlEndpoint string
	tokenEndpoint   string
}

// NewConnector creates the Shopify connector.
func NewConnector(clientID, clientSecret, redirectURI string, logger zerolog.Logger) *Connector {
	return &Connector{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		app: goshopify.App{
			ApiKey:      clientID,
			ApiSecret:   clientSecret,
			RedirectUrl: redirectURI,
			Scope:       oauthScope,
		},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Platform returns the platform tag this connector serves.
func (c *Connector) Platform() domain.Platform {
	return domain.PlatformShopify
}

// NormalizeIdentifier canonicalizes a shop identifier to a *.myshopify.com host.
func (c *Connector) NormalizeIdentifier(raw string) (string, error) {
	return NormalizeShopDomain(raw)
}

// BuildAuthorizeURL returns the shop's OAuth authorize URL.
func (c *Connector) BuildAuthorizeURL(_ context.Context, req ports.AuthorizeRequest) (string, error) {
	if c.clientID == "" {
		return "", domain.ConfigurationError("shopify is not configured: missing SHOPIFY_CLIENT_ID")
	}

	authURL := fmt.Sprintf(
		"https://%s/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=%s&state=%s",
		req.StoreIdentifier,
		url.QueryEscape(c.clientID),
		url.QueryEscape(oauthScope),
		url.QueryEscape(c.redirectURI),
		url.QueryEscape(req.State),
	)

	c.logger.Info().
		Str("shop", req.StoreIdentifier).
		Str("scopes", oauthScope).
		Msg("Built Shopify authorization URL")

	return authURL, nil
}

// ExchangeGrant exchanges the callback code for an access token via a
// server-to-server POST to the shop's token endpoint.
func (c *Connector) ExchangeGrant(ctx context.Context, grant ports.Grant) (*ports.Credentials, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return nil, domain.ConfigurationError("shopify is not configured: missing SHOPIFY_CLIENT_ID/SHOPIFY_CLIENT_SECRET")
	}

	if c.redirectURI == "" {
		// Without an explicit redirect URI the go-shopify exchange is
		// sufficient; Shopify only enforces redirect_uri matching when one
		// was sent during authorization.
		token, err := c.app.GetAccessToken(ctx, grant.Shop, grant.Code)
		if err != nil {
			return nil, domain.WrapError(domain.KindUpstream, err, "shopify token exchange failed")
		}
		return &ports.Credentials{AccessToken: token, Scope: oauthScope}, nil
	}

	body, err := json.Marshal(map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"code":          grant.Code,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL(grant.Shop), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.KindUpstream, err, "shopify token exchange failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, domain.UpstreamError("shopify token exchange failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		Scope       string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return nil, domain.WrapError(domain.KindUpstream, err, "failed to decode shopify token response")
	}

	return &ports.Credentials{AccessToken: tokenResponse.AccessToken, Scope: tokenResponse.Scope}, nil
}

// FetchOrders pulls the first page of orders created inside the sync window
// via the shop's GraphQL admin API and normalizes them.
func (c *Connector) FetchOrders(ctx context.Context, integration *domain.Integration) ([]*domain.Order, error) {
	window := time.Now().Add(-firstSyncWindow)
	if integration.LastSyncAt != nil {
		window = *integration.LastSyncAt
	}

	query := fmt.Sprintf(`
		query getOrders($cursor: String) {
			orders(first: 50, after: $cursor, query: "created_at:>=%s") {
				edges {
					node {
						id
						createdAt
						totalPriceSet {
							shopMoney {
								amount
								currencyCode
							}
						}
						displayFinancialStatus
						name
						billingAddress {
							name
						}
					}
				}
			}
		}`, window.UTC().Format(time.RFC3339))

	body, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": map[string]interface{}{"cursor": nil},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode orders query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL(integration.StoreURL), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create orders request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", integration.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.KindUpstream, err, "shopify orders request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, domain.UpstreamError("shopify graphql error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var payload struct {
		Data struct {
			Orders struct {
				Edges []struct {
					Node json.RawMessage `json:"node"`
				} `json:"edges"`
			} `json:"orders"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, domain.WrapError(domain.KindUpstream, err, "failed to decode shopify orders response")
	}

	if len(payload.Errors) > 0 {
		messages := make([]string, 0, len(payload.Errors))
		for _, e := range payload.Errors {
			messages = append(messages, e.Message)
		}
		return nil, domain.UpstreamError("shopify graphql errors: %s", strings.Join(messages, "; "))
	}

	orders := make([]*domain.Order, 0, len(payload.Data.Orders.Edges))
	for _, edge := range payload.Data.Orders.Edges {
		order, err := normalizeOrder(integration.ID, edge.Node)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	c.logger.Debug().
		Str("shop", integration.StoreURL).
		Int("orders", len(orders)).
		Time("window", window).
		Msg("Fetched Shopify orders")

	return orders, nil
}

func normalizeOrder(integrationID string, raw json.RawMessage) (*domain.Order, error) {
	var node struct {
		ID                     string    `json:"id"`
		CreatedAt              time.Time `json:"createdAt"`
		DisplayFinancialStatus string    `json:"displayFinancialStatus"`
		TotalPriceSet          struct {
			ShopMoney struct {
				Amount       string `json:"amount"`
				CurrencyCode string `json:"currencyCode"`
			} `json:"shopMoney"`
		} `json:"totalPriceSet"`
		BillingAddress *struct {
			Name string `json:"name"`
		} `json:"billingAddress"`
	}
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, domain.WrapError(domain.KindUpstream, err, "failed to decode shopify order")
	}

	price, err := decimal.NewFromString(node.TotalPriceSet.ShopMoney.Amount)
	if err != nil {
		price = decimal.Zero
	}

	customer := "Guest"
	if node.BillingAddress != nil && strings.TrimSpace(node.BillingAddress.Name) != "" {
		customer = node.BillingAddress.Name
	}

	return &domain.Order{
		IntegrationID: integrationID,
		// Extract the numeric id from gid://shopify/Order/123.
		ExternalID:   node.ID[strings.LastIndex(node.ID, "/")+1:],
		TotalPrice:   price,
		Currency:     node.TotalPriceSet.ShopMoney.CurrencyCode,
		CustomerName: customer,
		Status:       strings.ToLower(node.DisplayFinancialStatus),
		OrderedAt:    node.CreatedAt,
		RawData:      raw,
	}, nil
}

func (c *Connector) graphqlURL(shop string) string {
	if c.graphqlEndpoint != "" {
		return c.graphqlEndpoint
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shop, apiVersion)
}

func (c *Connector) tokenURL(shop string) string {
	if c.tokenEndpoint != "" {
		return c.tokenEndpoint
	}
	return fmt.Sprintf("https://%s/admin/oauth/access_token", shop)
}
