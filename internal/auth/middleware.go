package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bscmoz/consultoria-platform/internal/dataclient"
)

type contextKey string

const sessionKey contextKey = "session"

// RequireSession enforces a bearer token on admin endpoints. The token is the
// HMAC-signed JWT the hosted backend issues at sign-in; secret is its signing
// key.
func RequireSession(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "admin auth disabled", http.StatusUnauthorized)
				return
			}
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")
			sess, err := VerifyToken(secret, tokenString)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// VerifyToken checks an HMAC-signed backend token and rebuilds the session it
// represents.
func VerifyToken(secret, tokenString string) (*dataclient.Session, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	sess := &dataclient.Session{
		AccessToken: tokenString,
		TokenType:   "bearer",
		User:        dataclient.User{ID: claims.Subject},
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// SessionFromContext returns the verified session if present.
func SessionFromContext(ctx context.Context) (*dataclient.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*dataclient.Session)
	return sess, ok
}
