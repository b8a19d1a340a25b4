package app

import (
	"context"
	"net/http"

	"github.com/LoanRangers/SelfServiceLoaningBackend/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const AppSessionCookie = "app_session"

// SessionClaims is the JWT payload in the session cookie. Subject carries
// the SSO id; SessionID points at the revocable Redis session.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	Name      string `json:"name,omitempty"`
}

// SessionChecker is what AuthRequired needs from the session store.
type SessionChecker interface {
	Get(ctx context.Context, id string) (*session.AppSession, error)
}

func ParseSessionToken(token, secret string) (*SessionClaims, error) {
	var claims SessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	return &claims, nil
}

// AuthRequired verifies the JWT cookie, confirms the Redis session still
// exists (logout revokes it), and puts the caller identity in the context.
func AuthRequired(secret string, sess SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		claims, err := ParseSessionToken(ck.Value, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}
		if _, err := sess.Get(c.Request.Context(), claims.SessionID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "session expired"})
			return
		}
		c.Set("ssoId", claims.Subject)
		c.Set("ssoName", claims.Name)
		c.Next()
	}
}

// SsoID returns the authenticated caller's SSO id set by AuthRequired.
func SsoID(c *gin.Context) string {
	v, _ := c.Get("ssoId")
	id, _ := v.(string)
	return id
}
