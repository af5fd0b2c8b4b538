package application

import (
	"context"
	"strings"

	"storesync-core/internal/domain"
	"storesync-core/internal/ports"

	"github.com/rs/zerolog"
)

// AuthService is the authorization guard. It distinguishes two mutually
// exclusive trust channels: the scheduled channel, authenticated by a
// pre-shared secret header, and the end-user channel, authenticated by a
// bearer token resolved through the identity collaborator.
type AuthService struct {
	verifier   ports.IdentityVerifier
	cronSecret string
	logger     zerolog.Logger
}

// NewAuthService creates a new authorization guard. An empty cronSecret
// disables the scheduled channel entirely.
func NewAuthService(verifier ports.IdentityVerifier, cronSecret string, logger zerolog.Logger) *AuthService {
	return &AuthService{
		verifier:   verifier,
		cronSecret: cronSecret,
		logger:     logger,
	}
}

// ValidScheduledSecret reports whether the presented secret authenticates
// the scheduled channel.
func (a *AuthService) ValidScheduledSecret(secret string) bool {
	return a.cronSecret != "" && secret == a.cronSecret
}

// ResolveUser resolves an Authorization header value to a user id.
func (a *AuthService) ResolveUser(ctx context.Context, authHeader string) (string, error) {
	if authHeader == "" {
		return "", domain.UnauthorizedError("missing authorization header")
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return a.verifier.VerifyToken(ctx, token)
}

// AuthorizeOwner resolves the bearer token and requires the resolved user
// to own the integration.
func (a *AuthService) AuthorizeOwner(ctx context.Context, authHeader string, integration *domain.Integration) error {
	userID, err := a.ResolveUser(ctx, authHeader)
	if err != nil {
		return err
	}
	if userID != integration.UserID {
		a.logger.Warn().
			Str("userId", userID).
			Str("integrationId", integration.ID).
			Msg("Ownership check failed")
		return domain.ForbiddenError("integration belongs to another user")
	}
	return nil
}
