package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"storesync-core/internal/domain"
	"storesync-core/internal/ports"

	"github.com/rs/zerolog"
)

// HTTPVerifier resolves bearer tokens against the external identity
// collaborator's user endpoint.
type HTTPVerifier struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewHTTPVerifier creates a verifier for the identity service at baseURL.
func NewHTTPVerifier(baseURL, apiKey string, logger zerolog.Logger) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

var _ ports.IdentityVerifier = (*HTTPVerifier)(nil)

// VerifyToken resolves the bearer token to a user id. Failures resolve to
// unauthorized: the guard fails closed.
func (v *HTTPVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.UnauthorizedError("missing bearer token")
	}
	if v.baseURL == "" {
		return "", domain.ConfigurationError("identity provider is not configured: missing AUTH_BASE_URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return "", domain.WrapError(domain.KindUnauthorized, err, "failed to create identity request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", v.apiKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", domain.WrapError(domain.KindUnauthorized, err, "identity verification failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", domain.UnauthorizedError("invalid or expired token")
	}
	if resp.StatusCode != http.StatusOK {
		return "", domain.UpstreamError("identity provider returned status %d", resp.StatusCode)
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", domain.WrapError(domain.KindUnauthorized, err, "failed to decode identity response")
	}
	if user.ID == "" {
		return "", domain.UnauthorizedError("identity response is missing user id")
	}

	v.logger.Debug().Str("userId", user.ID).Msg("Resolved bearer token")
	return user.ID, nil
}
