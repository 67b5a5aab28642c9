// Package middleware holds the gin middleware of the form server.
package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/goliatone/go-formbuilder/internal/response"
	"github.com/goliatone/go-formbuilder/pkg/gateway"
)

// ContextKeyAdmin is set to true for requests carrying the admin credential.
const ContextKeyAdmin = "is_admin"

// Admin checks the static admin credential. The configured secret is either
// the password itself or its bcrypt hash. An empty secret disables admin
// access entirely.
type Admin struct {
	secret string
}

// NewAdmin returns a checker for secret.
func NewAdmin(secret string) Admin {
	return Admin{secret: strings.TrimSpace(secret)}
}

// Enabled reports whether a secret is configured.
func (a Admin) Enabled() bool {
	return a.secret != ""
}

// Verify reports whether credential matches the configured secret.
func (a Admin) Verify(credential string) bool {
	if a.secret == "" || credential == "" {
		return false
	}
	if isBcryptHash(a.secret) {
		return bcrypt.CompareHashAndPassword([]byte(a.secret), []byte(credential)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(a.secret), []byte(credential)) == 1
}

// Detect marks the request as admin when it carries a valid bearer token.
// It never blocks.
func (a Admin) Detect() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.Verify(BearerToken(c)) {
			c.Set(ContextKeyAdmin, true)
		}
		c.Next()
	}
}

// Require aborts with 401 unless the request carries a valid bearer token.
func (a Admin) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Verify(BearerToken(c)) {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyAdmin, true)
		c.Next()
	}
}

// IsAdmin reports whether Detect or Require accepted the request.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ContextKeyAdmin)
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader(gateway.HeaderAuthorization))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func isBcryptHash(secret string) bool {
	return strings.HasPrefix(secret, "$2a$") || strings.HasPrefix(secret, "$2b$") || strings.HasPrefix(secret, "$2y$")
}
