// Package auth implements the credential service: password login, RS256
// bearer tokens, token revocation and role checks.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Claims is the signed claim set. Claims are immutable once issued; a
// Principal is rebuilt from them on every verified request.
type Claims struct {
	jwt.RegisteredClaims
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Secret  string `json:"secret"`
	Webhook string `json:"webhook"`
}

type Service struct {
	accounts Accounts
	keys     *KeyPair
	ttl      time.Duration
	revoked  RevocationList
	log      *zap.Logger
}

func NewService(accounts Accounts, keys *KeyPair, ttl time.Duration, revoked RevocationList, log *zap.Logger) *Service {
	return &Service{accounts: accounts, keys: keys, ttl: ttl, revoked: revoked, log: log}
}

// dummyHash is compared against when the username is unknown, so lookups and
// wrong passwords take the same time and the caller can't tell which failed.
var dummyHash, _ = HashPassword("gorecipes-dummy")

// Login verifies the password against the stored hash and returns the
// matching Principal. Both an unknown username and a wrong password fail
// with ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (Principal, error) {
	acc, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		HashMatchesPassword(dummyHash, password)
		s.log.Warn("login rejected", zap.String("kind", KindInvalidCredentials), zap.String("username", username))
		return Principal{}, ErrInvalidCredentials
	}
	if !HashMatchesPassword(acc.PasswordHash, password) {
		s.log.Warn("login rejected", zap.String("kind", KindInvalidCredentials), zap.String("username", username))
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{ID: acc.ID, Role: acc.Role, Secret: acc.Secret, Webhook: acc.Webhook}, nil
}

// IssueToken signs {id, role, secret, webhook} with the private key. Expiry
// is the configured TTL from issuance time.
func (s *Service) IssueToken(p Principal) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		ID:      p.ID,
		Role:    p.Role,
		Secret:  p.Secret,
		Webhook: p.Webhook,
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.keys.Private)
}

// VerifyToken validates the signature against the public key, checks expiry
// and the revocation list, and rebuilds the Principal from the claims.
func (s *Service) VerifyToken(token string) (Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.keys.Public, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	if err != nil || !parsed.Valid {
		kind := KindMalformed
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			kind = KindExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			kind = KindInvalidSignature
		}
		s.log.Warn("token rejected", zap.String("kind", kind), zap.Error(err))
		return Principal{}, &Error{Kind: kind, Cause: err}
	}
	if s.revoked.IsRevoked(token) {
		s.log.Warn("token rejected", zap.String("kind", KindRevoked))
		return Principal{}, &Error{Kind: KindRevoked}
	}
	p := Principal{ID: claims.ID, Role: claims.Role, Secret: claims.Secret, Webhook: claims.Webhook}
	if claims.ExpiresAt != nil {
		p.Expiry = claims.ExpiresAt.Time
	}
	return p, nil
}

// Revoke blacklists the token until its natural expiry and reports whether it
// was newly added. Revoking an already-revoked token is a no-op, not an error.
func (s *Service) Revoke(token string) bool {
	ttl := s.ttl
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil && claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return s.revoked.Revoke(token, ttl)
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }
