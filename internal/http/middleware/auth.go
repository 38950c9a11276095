// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication and role-based route
// guards. Auth() validates the Authorization header and stashes the caller's
// identity in the Gin context; RequireRoles() gates a route group to a set of
// roles. The two are deliberately separate so public routes can still run
// OptionalAuth() and pick up identity when a token happens to be present.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/services"
)

// Context keys for the authenticated identity.
const (
	CtxUserID   = "userID"
	CtxUserRole = "userRole"
)

// TokenParser validates a bearer token and returns its claims. AuthService
// satisfies it; tests substitute a fake.
type TokenParser interface {
	ParseToken(token string) (*services.Claims, error)
}

// UserID returns the authenticated user id from the Gin context, empty when
// the request is anonymous.
func UserID(c *gin.Context) string {
	v, _ := c.Get(CtxUserID)
	s, _ := v.(string)
	return s
}

// UserRole returns the authenticated role, empty when anonymous.
func UserRole(c *gin.Context) string {
	v, _ := c.Get(CtxUserRole)
	s, _ := v.(string)
	return s
}

// BearerToken extracts the token from an "Authorization: Bearer x" header.
// Exported because the WebSocket handler accepts header credentials too.
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Auth requires a valid access token and stores the identity in the context.
// Refresh tokens are rejected here; they are only good for the refresh route.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		claims, err := parser.ParseToken(token)
		if err != nil || claims.TokenType != "access" {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxUserRole, claims.Role)
		c.Next()
	}
}

// OptionalAuth picks up identity when a valid token is present but never
// rejects the request. Used on public routes whose behavior improves with a
// known caller (e.g. order submission idempotency).
func OptionalAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := BearerToken(c); token != "" {
			if claims, err := parser.ParseToken(token); err == nil && claims.TokenType == "access" {
				c.Set(CtxUserID, claims.Subject)
				c.Set(CtxUserRole, claims.Role)
			}
		}
		c.Next()
	}
}

// RequireRoles gates a route to callers whose role is in the allow list.
// Must run after Auth().
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := UserRole(c)
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "forbidden",
				"message":    "insufficient role",
			})
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    msg,
	})
}
