package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "auth.identity"

// Middleware resolves the caller identity from an HS256 bearer token and
// stashes the subject claim in the request context. No token is not an
// error: identities may also arrive as explicit user_id fields, so the
// middleware never aborts the request.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		if sub, err := token.Claims.GetSubject(); err == nil && sub != "" {
			c.Set(identityKey, sub)
		}
		c.Next()
	}
}

// Identity returns the token subject for the request, or "" when the
// caller did not present a valid token.
func Identity(c *gin.Context) string {
	return c.GetString(identityKey)
}

// Caller prefers an explicitly supplied user id over the token subject.
// The original Auth0 frontend sends user_id in request payloads; the
// token path exists for clients that authenticate properly.
func Caller(c *gin.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return Identity(c)
}
