package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type accountsMap map[string]*Account

func (m accountsMap) FindByUsername(_ context.Context, username string) (*Account, error) {
	if acc, ok := m[username]; ok {
		return acc, nil
	}
	return nil, errors.New("account not found")
}

func testAccounts(t *testing.T) accountsMap {
	t.Helper()
	hash, err := HashPassword("password12")
	require.NoError(t, err)
	return accountsMap{"nelly": {
		ID:           "user-1",
		Username:     "nelly",
		PasswordHash: hash,
		Role:         RoleAdmin,
		Secret:       "s3cret",
		Webhook:      "https://hooks.example.com/nelly",
	}}
}

func testService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	keys, err := NewDevKeyPair()
	require.NoError(t, err)
	return NewService(testAccounts(t), keys, ttl, NewMemoryRevocationList(), zap.NewNop())
}

func TestLogin(t *testing.T) {
	svc := testService(t, time.Hour)

	tests := []struct {
		name               string
		username, password string
		wantErr            error
	}{
		{name: "valid credentials", username: "nelly", password: "password12"},
		{name: "wrong password", username: "nelly", password: "password13", wantErr: ErrInvalidCredentials},
		{name: "unknown user", username: "ghost", password: "password12", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.Login(context.Background(), tt.username, tt.password)
			assert.Equal(t, tt.wantErr, err)
			if tt.wantErr == nil {
				assert.Equal(t, "user-1", p.ID)
				assert.Equal(t, RoleAdmin, p.Role)
			}
		})
	}
}

func TestVerifyTokenRoundTrip(t *testing.T) {
	svc := testService(t, time.Hour)

	p := Principal{ID: "user-1", Role: RoleAdmin, Secret: "s3cret", Webhook: "https://hooks.example.com/nelly"}
	token, err := svc.IssueToken(p)
	require.NoError(t, err)

	got, err := svc.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Role, got.Role)
	assert.Equal(t, p.Secret, got.Secret)
	assert.Equal(t, p.Webhook, got.Webhook)
	assert.WithinDuration(t, time.Now().Add(time.Hour), got.Expiry, time.Minute)
}

func TestVerifyTokenRejections(t *testing.T) {
	svc := testService(t, time.Hour)

	otherKeys, err := NewDevKeyPair()
	require.NoError(t, err)
	foreign := NewService(testAccounts(t), otherKeys, time.Hour, NewMemoryRevocationList(), zap.NewNop())
	foreignToken, err := foreign.IssueToken(Principal{ID: "user-1", Role: RoleAdmin})
	require.NoError(t, err)

	expiredSvc := testService(t, -time.Minute)
	expiredToken, err := expiredSvc.IssueToken(Principal{ID: "user-1", Role: RoleAdmin})
	require.NoError(t, err)
	// Same keys so only expiry can fail.
	expiredSvc.ttl = time.Hour

	tests := []struct {
		name     string
		svc      *Service
		token    string
		wantKind string
	}{
		{name: "garbage token", svc: svc, token: "not.a.token", wantKind: KindMalformed},
		{name: "foreign signature", svc: svc, token: foreignToken, wantKind: KindInvalidSignature},
		{name: "expired", svc: expiredSvc, token: expiredToken, wantKind: KindExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.VerifyToken(tt.token)
			var authErr *Error
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.wantKind, authErr.Kind)
		})
	}
}

func TestRevoke(t *testing.T) {
	svc := testService(t, time.Hour)
	token, err := svc.IssueToken(Principal{ID: "user-1", Role: RoleAdmin})
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	require.NoError(t, err)

	assert.True(t, svc.Revoke(token))
	// Revoking again is a no-op, not an error.
	assert.False(t, svc.Revoke(token))
	assert.False(t, svc.Revoke(token))

	for i := 0; i < 3; i++ {
		_, err = svc.VerifyToken(token)
		var authErr *Error
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, KindRevoked, authErr.Kind)
	}
}
