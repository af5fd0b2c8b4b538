package ports

import "context"

// IdentityVerifier resolves an end-user bearer token to a user id via the
// external identity collaborator.
type IdentityVerifier interface {
	// VerifyToken returns the user id the token belongs to, or an
	// unauthorized error when the token is missing, invalid or expired.
	VerifyToken(ctx context.Context, token string) (string, error)
}
