package application

import (
	"context"
	"testing"

	"storesync-core/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authFixture() *AuthService {
	verifier := &fakeVerifier{users: map[string]string{"valid-token": "user-1"}}
	return NewAuthService(verifier, "cron-secret", zerolog.Nop())
}

func TestValidScheduledSecret(t *testing.T) {
	svc := authFixture()

	assert.True(t, svc.ValidScheduledSecret("cron-secret"))
	assert.False(t, svc.ValidScheduledSecret("wrong"))
	assert.False(t, svc.ValidScheduledSecret(""))
}

func TestValidScheduledSecretDisabledWhenUnconfigured(t *testing.T) {
	svc := NewAuthService(&fakeVerifier{}, "", zerolog.Nop())

	// With no configured secret the scheduled channel must stay closed,
	// including for an empty presented value.
	assert.False(t, svc.ValidScheduledSecret(""))
	assert.False(t, svc.ValidScheduledSecret("anything"))
}

func TestResolveUser(t *testing.T) {
	svc := authFixture()

	userID, err := svc.ResolveUser(context.Background(), "Bearer valid-token")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestResolveUserMissingHeader(t *testing.T) {
	svc := authFixture()

	_, err := svc.ResolveUser(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
}

func TestResolveUserInvalidToken(t *testing.T) {
	svc := authFixture()

	_, err := svc.ResolveUser(context.Background(), "Bearer expired-token")
	require.Error(t, err)
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
}

func TestAuthorizeOwner(t *testing.T) {
	svc := authFixture()
	integration := &domain.Integration{ID: "I1", UserID: "user-1"}

	require.NoError(t, svc.AuthorizeOwner(context.Background(), "Bearer valid-token", integration))
}

func TestAuthorizeOwnerRejectsOtherUser(t *testing.T) {
	svc := authFixture()
	integration := &domain.Integration{ID: "I1", UserID: "someone-else"}

	err := svc.AuthorizeOwner(context.Background(), "Bearer valid-token", integration)
	require.Error(t, err)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestAuthorizeOwnerRejectsInvalidToken(t *testing.T) {
	svc := authFixture()
	integration := &domain.Integration{ID: "I1", UserID: "user-1"}

	err := svc.AuthorizeOwner(context.Background(), "Bearer bad-token", integration)
	require.Error(t, err)
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
}
