package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fotom-studio/fotom/internal/services/editor/domain"
	"github.com/golang-jwt/jwt/v5"
)

// accessTokenCookie carries the signed user token issued at sign-in.
const accessTokenCookie = "accessToken"

// guestIDHeader identifies anonymous sessions that never signed in.
const guestIDHeader = "X-Guest-Id"

type contextKey string

const identityContextKey contextKey = "editor-identity"

// CallerIdentity extracts the resolved owner identity from a request
// context. The zero identity means the middleware did not run.
func CallerIdentity(ctx context.Context) domain.OwnerIdentity {
	identity, _ := ctx.Value(identityContextKey).(domain.OwnerIdentity)
	return identity
}

// IdentityMiddleware resolves the caller identity before handlers run.
//
// Users present a signed HS256 JWT in the accessToken cookie; guests send
// their id in the X-Guest-Id header. A request with neither, with both, or
// with an invalid token never reaches the wrapped handler.
type IdentityMiddleware struct {
	secret []byte
}

// NewIdentityMiddleware creates the middleware with the token signing secret.
func NewIdentityMiddleware(secret []byte) *IdentityMiddleware {
	return &IdentityMiddleware{secret: secret}
}

// Require wraps a handler with identity resolution.
func (m *IdentityMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.resolve(r)
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityContextKey, identity)))
	})
}

func (m *IdentityMiddleware) resolve(r *http.Request) (domain.OwnerIdentity, error) {
	var userID string
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		subject, err := m.subjectFromToken(cookie.Value)
		if err != nil {
			return domain.OwnerIdentity{}, err
		}
		userID = subject
	}
	guestID := r.Header.Get(guestIDHeader)
	return domain.NewOwnerIdentity(userID, guestID)
}

func (m *IdentityMiddleware) subjectFromToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrIdentityMissing
	}
	if claims.Subject == "" {
		return "", domain.ErrIdentityMissing
	}
	return claims.Subject, nil
}
