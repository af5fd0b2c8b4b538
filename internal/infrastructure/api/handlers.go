package api

import (
	"encoding/json"
	"net/http"

	"storesync-core/internal/application"
	"storesync-core/internal/domain"
	"storesync-core/internal/ports"

	"github.com/rs/zerolog"
)

// Handler carries the HTTP surface: the OAuth entry points, the
// single-integration sync entry point and the scheduled batch entry point.
type Handler struct {
	sync         *application.SyncService
	connect      *application.ConnectService
	auth         *application.AuthService
	integrations ports.IntegrationRepository
	frontendURL  string
	logger       zerolog.Logger
}

// NewHandler creates the HTTP handler set.
func NewHandler(
	sync *application.SyncService,
	connect *application.ConnectService,
	auth *application.AuthService,
	integrations ports.IntegrationRepository,
	frontendURL string,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		sync:         sync,
		connect:      connect,
		auth:         auth,
		integrations: integrations,
		frontendURL:  frontendURL,
		logger:       logger,
	}
}

// ShopifyInstall handles GET /auth/shopify/install?shop=<host>.
// Requires an end-user bearer token; responds with the authorize URL.
func (h *Handler) ShopifyInstall(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shop := r.URL.Query().Get("shop")
	if shop == "" {
		h.writeError(w, domain.ValidationError("missing shop parameter"))
		return
	}

	userID, err := h.auth.ResolveUser(ctx, r.Header.Get("Authorization"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	installURL, err := h.connect.ShopifyInstallURL(ctx, userID, shop)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"url": installURL})
}

// ShopifyCallback handles GET /auth/shopify/callback?code&shop&state,
// invoked by the platform redirect with no bearer token present. On success
// the browser is redirected to the dashboard.
func (h *Handler) ShopifyCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	if _, err := h.connect.CompleteShopifyInstall(ctx, query.Get("code"), query.Get("shop"), query.Get("state")); err != nil {
		h.logger.Error().Err(err).Msg("Shopify callback failed")
		http.Error(w, err.Error(), domain.HTTPStatus(err))
		return
	}

	http.Redirect(w, r, h.frontendURL+"/dashboard?success=true", http.StatusFound)
}

// WooInitiate handles GET /auth/woocommerce/initiate?store_url=<url>.
// Requires an end-user bearer token; responds with the authorize URL.
func (h *Handler) WooInitiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeURL := r.URL.Query().Get("store_url")
	if storeURL == "" {
		h.writeError(w, domain.ValidationError("missing store_url parameter"))
		return
	}

	userID, err := h.auth.ResolveUser(ctx, r.Header.Get("Authorization"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	authURL, err := h.connect.WooAuthorizeURL(ctx, userID, storeURL)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"url": authURL})
}

// WooCallback handles POST /auth/woocommerce/callback?user_id&store_url.
// The store POSTs the consumer key/secret pair as the body; identity is
// accepted from the query parameters set during initiate.
func (h *Handler) WooCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		ConsumerKey    string `json:"consumer_key"`
		ConsumerSecret string `json:"consumer_secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, domain.ValidationError("invalid callback body"))
		return
	}

	query := r.URL.Query()
	_, err := h.connect.CompleteWooAuthorization(ctx,
		query.Get("user_id"),
		query.Get("store_url"),
		body.ConsumerKey,
		body.ConsumerSecret,
	)
	if err != nil {
		h.logger.Error().Err(err).Msg("WooCommerce callback failed")
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Sync handles POST /sync with body {integration_id}. The caller must
// present either the scheduled-channel secret or a bearer token resolving
// to the integration's owner; with neither, the request is rejected before
// the integration record is read.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		IntegrationID string `json:"integration_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.IntegrationID == "" {
		h.writeError(w, domain.ValidationError("missing integration_id"))
		return
	}

	scheduled := h.auth.ValidScheduledSecret(r.Header.Get("X-Cron-Secret"))
	authHeader := r.Header.Get("Authorization")
	if !scheduled && authHeader == "" {
		h.writeError(w, domain.UnauthorizedError("missing credentials"))
		return
	}

	integration, err := h.integrations.GetByID(ctx, body.IntegrationID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if integration == nil {
		h.writeError(w, domain.NotFoundError("integration not found"))
		return
	}

	if !scheduled {
		if err := h.auth.AuthorizeOwner(ctx, authHeader, integration); err != nil {
			h.writeError(w, err)
			return
		}
	}

	result, err := h.sync.SyncIntegration(ctx, integration)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"integration_id": result.IntegrationID,
		"count":          result.Count,
	})
}

// SyncAll handles the scheduled batch entry point. Only the scheduled
// channel is accepted.
func (h *Handler) SyncAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.auth.ValidScheduledSecret(r.Header.Get("X-Cron-Secret")) {
		h.writeError(w, domain.UnauthorizedError("missing or invalid scheduled secret"))
		return
	}

	batch, err := h.sync.SyncAll(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, batch)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := domain.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg("Request failed")
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
