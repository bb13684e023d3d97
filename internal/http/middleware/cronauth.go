// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements CronAuth, a shared-secret bearer guard for the
// scheduler-triggered aggregation endpoint. The external cron presents the
// secret as "Authorization: Bearer <secret>"; everything else is rejected.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CronAuth returns a Gin middleware that admits requests carrying the shared
// scheduler secret as a bearer token.
//
// Behavior:
//   - An empty configured secret disables the endpoint entirely (401 for all
//     callers). Never deploy the rollup trigger unguarded.
//   - The presented token is compared in constant time.
//   - Rejections use the standard error envelope with code "unauthorized".
func CronAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if secret == "" || token == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "unauthorized",
				"message":    "invalid scheduler credentials",
			})
			return
		}
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer x" header,
// returning "" when the scheme is absent or different.
func bearerToken(h string) string {
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
