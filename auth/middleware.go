package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type contextKey int

const (
	principalKey contextKey = iota
	tokenKey
)

func NewContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// TokenFromContext returns the raw bearer token the request carried.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey).(string)
	return t, ok
}

// RequireAuth verifies the bearer token and, when roles are given, checks the
// principal's role against them. Any failure, including a non-Bearer scheme,
// is a 403 to the client.
func RequireAuth(next http.Handler, svc *Service, roles ...Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || scheme != "Bearer" || token == "" {
			forbid(w)
			return
		}

		p, err := svc.VerifyToken(token)
		if err != nil {
			forbid(w)
			return
		}

		if len(roles) > 0 && !Authorize(p.Role, roles...) {
			svc.log.Warn("request rejected", zap.String("kind", KindForbidden), zap.String("role", string(p.Role)))
			forbid(w)
			return
		}

		ctx := NewContext(r.Context(), p)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func forbid(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  http.StatusForbidden,
		"message": "Unauthorized",
	})
}
