package oauthstate

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"storesync-core/internal/domain"
	"storesync-core/internal/ports"
)

// TTL bounds how long a state token stays valid between initiate and
// callback.
const TTL = 10 * time.Minute

// Codec signs OAuth state tokens with HMAC-SHA256. The token is
// base64url(JSON{user_id, nonce, exp}) + "." + hex signature; the state
// travels through a third-party redirect, so the signature is what anchors
// trust in the embedded user id.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec keyed with the given secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

var _ ports.StateCodec = (*Codec)(nil)

type payload struct {
	UserID string `json:"user_id"`
	Nonce  string `json:"nonce"`
	Exp    int64  `json:"exp"`
}

// Encode produces a signed state token for the user and the nonce embedded
// in it.
func (c *Codec) Encode(userID string) (string, string, error) {
	nonceBytes := make([]byte, 16)
	if _, err := rand.Read(nonceBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate state nonce: %w", err)
	}
	nonce := hex.EncodeToString(nonceBytes)

	raw, err := json.Marshal(payload{
		UserID: userID,
		Nonce:  nonce,
		Exp:    time.Now().Add(TTL).Unix(),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to encode state: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(raw)
	return encoded + "." + c.sign(encoded), nonce, nil
}

// Decode verifies the token's signature and expiry and returns the embedded
// user id and nonce.
func (c *Codec) Decode(token string) (string, string, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return "", "", domain.ValidationError("invalid state parameter")
	}

	if !hmac.Equal([]byte(c.sign(parts[0])), []byte(parts[1])) {
		return "", "", domain.ValidationError("invalid state signature")
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", "", domain.ValidationError("invalid state parameter")
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", "", domain.ValidationError("invalid state parameter")
	}
	if p.UserID == "" {
		return "", "", domain.ValidationError("state is missing user id")
	}
	if time.Now().Unix() > p.Exp {
		return "", "", domain.ValidationError("state has expired")
	}

	return p.UserID, p.Nonce, nil
}

func (c *Codec) sign(encoded string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encoded))
	return hex.EncodeToString(mac.Sum(nil))
}
