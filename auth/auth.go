// Package auth guards mutating endpoints with a shared API token.
package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/diewo77/quotes/httpx"
)

type ctxKey string

const (
	tokenHeader      = "X-API-Token"
	authorizedCtxKey = ctxKey("authorized")
)

// Gate checks request tokens against a configured secret. The secret is
// either the plain token or its bcrypt hash.
type Gate struct {
	secret string
}

func NewGate(secret string) *Gate { return &Gate{secret: strings.TrimSpace(secret)} }

// Open reports whether no token is configured; every request then passes.
func (g *Gate) Open() bool { return g == nil || g.secret == "" }

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// Check validates a presented token.
func (g *Gate) Check(token string) bool {
	if g.Open() {
		return true
	}
	if token == "" {
		return false
	}
	if isBcrypt(g.secret) {
		return bcrypt.CompareHashAndPassword([]byte(g.secret), []byte(token)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(g.secret), []byte(token)) == 1
}

// HashToken returns the bcrypt hash to configure instead of a plain token.
func HashToken(token string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// TokenFromRequest reads X-API-Token, then a Bearer authorization header.
func TokenFromRequest(r *http.Request) string {
	if t := r.Header.Get(tokenHeader); t != "" {
		return t
	}
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// WithAuthorized marks the context as carrying a valid token.
func WithAuthorized(ctx context.Context) context.Context {
	return context.WithValue(ctx, authorizedCtxKey, true)
}

// Authorized reports whether the request presented a valid token.
func Authorized(ctx context.Context) bool {
	v, _ := ctx.Value(authorizedCtxKey).(bool)
	return v
}

// Middleware attaches the authorization flag to the request context.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.Check(TokenFromRequest(r)) {
			r = r.WithContext(WithAuthorized(r.Context()))
		}
		next.ServeHTTP(w, r)
	})
}

// Require answers 401 JSON unless Middleware marked the request authorized.
func Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !Authorized(r.Context()) {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
