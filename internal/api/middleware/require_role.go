package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobmatch/internal/utils"
)

// RequireRole must run after JWTAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allow := make(map[string]bool, len(roles))
	for _, r := range roles {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			allow[r] = true
		}
	}
	msg := strings.Join(roles, " or ") + " role required"

	return func(c *gin.Context) {
		role := strings.ToLower(c.GetString(ContextRole))
		if !allow[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{Code: utils.CodeForbidden, Message: msg})
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc { return RequireRole("admin") }
