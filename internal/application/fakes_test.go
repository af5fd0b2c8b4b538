package application

import (
	"context"
	"strings"
	"time"

	"storesync-core/internal/domain"
	"storesync-core/internal/ports"
)

type fakeIntegrationRepo struct {
	byID     map[string]*domain.Integration
	active   []*domain.Integration
	stamps   map[string]time.Time
	upserts  []*domain.Integration
	getCalls int
	listErr  error
	stampErr error
}

func newFakeIntegrationRepo() *fakeIntegrationRepo {
	return &fakeIntegrationRepo{
		byID:   make(map[string]*domain.Integration),
		stamps: make(map[string]time.Time),
	}
}

func (f *fakeIntegrationRepo) GetByID(_ context.Context, id string) (*domain.Integration, error) {
	f.getCalls++
	return f.byID[id], nil
}

func (f *fakeIntegrationRepo) ListActive(_ context.Context) ([]*domain.Integration, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.active, nil
}

func (f *fakeIntegrationRepo) Upsert(_ context.Context, integration *domain.Integration) error {
	integration.ID = "stored-" + integration.UserID
	f.upserts = append(f.upserts, integration)
	f.byID[integration.ID] = integration
	return nil
}

func (f *fakeIntegrationRepo) StampLastSync(_ context.Context, id string, at time.Time) error {
	if f.stampErr != nil {
		return f.stampErr
	}
	f.stamps[id] = at
	return nil
}

type fakeOrderRepo struct {
	byKey map[string]*domain.Order
	calls int
	err   error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{byKey: make(map[string]*domain.Order)}
}

func (f *fakeOrderRepo) UpsertMany(_ context.Context, orders []*domain.Order) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	for _, order := range orders {
		f.byKey[order.IntegrationID+"/"+order.ExternalID] = order
	}
	return nil
}

// fakeConnector serves one platform tag. FetchOrders returns the configured
// orders stamped with the integration's id, or the error registered for
// that id.
type fakeConnector struct {
	platform domain.Platform
	authURL  string
	creds    *ports.Credentials
	grantErr error
	grants   []ports.Grant
	orders   []*domain.Order
	fetchErr map[string]error
}

func (f *fakeConnector) Platform() domain.Platform {
	return f.platform
}

func (f *fakeConnector) NormalizeIdentifier(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", domain.ValidationError("store identifier is required")
	}
	return strings.ToLower(trimmed), nil
}

func (f *fakeConnector) BuildAuthorizeURL(_ context.Context, req ports.AuthorizeRequest) (string, error) {
	url := f.authURL + "?store=" + req.StoreIdentifier
	if req.State != "" {
		url += "&state=" + req.State
	}
	return url, nil
}

func (f *fakeConnector) ExchangeGrant(_ context.Context, grant ports.Grant) (*ports.Credentials, error) {
	f.grants = append(f.grants, grant)
	if f.grantErr != nil {
		return nil, f.grantErr
	}
	return f.creds, nil
}

func (f *fakeConnector) FetchOrders(_ context.Context, integration *domain.Integration) ([]*domain.Order, error) {
	if err := f.fetchErr[integration.ID]; err != nil {
		return nil, err
	}
	out := make([]*domain.Order, 0, len(f.orders))
	for _, order := range f.orders {
		copied := *order
		copied.IntegrationID = integration.ID
		out = append(out, &copied)
	}
	return out, nil
}

type fakeStateCodec struct {
	tokens map[string]string // token -> userID
	nonce  string
}

func newFakeStateCodec() *fakeStateCodec {
	return &fakeStateCodec{tokens: make(map[string]string), nonce: "nonce-1"}
}

func (f *fakeStateCodec) Encode(userID string) (string, string, error) {
	token := "state-for-" + userID
	f.tokens[token] = userID
	return token, f.nonce, nil
}

func (f *fakeStateCodec) Decode(token string) (string, string, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return "", "", domain.ValidationError("invalid state signature")
	}
	return userID, f.nonce, nil
}

type fakeNonceStore struct {
	saved map[string]bool
	ttls  map[string]time.Duration
}

func newFakeNonceStore() *fakeNonceStore {
	return &fakeNonceStore{
		saved: make(map[string]bool),
		ttls:  make(map[string]time.Duration),
	}
}

func (f *fakeNonceStore) Save(_ context.Context, nonce string, ttl time.Duration) error {
	f.saved[nonce] = true
	f.ttls[nonce] = ttl
	return nil
}

func (f *fakeNonceStore) Consume(_ context.Context, nonce string) (bool, error) {
	if !f.saved[nonce] {
		return false, nil
	}
	delete(f.saved, nonce)
	return true, nil
}

type fakeVerifier struct {
	users map[string]string // token -> userID
}

func (f *fakeVerifier) VerifyToken(_ context.Context, token string) (string, error) {
	userID, ok := f.users[token]
	if !ok {
		return "", domain.UnauthorizedError("invalid or expired token")
	}
	return userID, nil
}
