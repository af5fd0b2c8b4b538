package ports

import (
	"context"
	"time"
)

// StateCodec builds and verifies the OAuth state token that correlates the
// initiate and callback steps of the Shopify flow.
type StateCodec interface {
	// Encode produces a signed, time-bounded state token for the user and
	// the nonce embedded in it.
	Encode(userID string) (token string, nonce string, err error)

	// Decode verifies the token's signature and expiry and returns the
	// embedded user id and nonce.
	Decode(token string) (userID string, nonce string, err error)
}

// NonceStore tracks outstanding OAuth state nonces so each state token can
// be consumed at most once.
type NonceStore interface {
	Save(ctx context.Context, nonce string, ttl time.Duration) error

	// Consume removes the nonce and reports whether it was present.
	Consume(ctx context.Context, nonce string) (bool, error)
}
