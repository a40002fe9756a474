package handlers

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/services"
)

const accountKey = "account"

// RequireAuth resolves the bearer token to an account with a live session.
func RequireAuth(authService services.AuthService, base BaseHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := authService.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			base.handleServiceError(c, err)
			c.Abort()
			return
		}
		c.Set(accountKey, account)
		c.Next()
	}
}

// RequireRole rejects accounts whose role is not listed. It must run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		account := currentAccount(c)
		if account == nil || !slices.Contains(roles, account.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Access denied",
			})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func currentAccount(c *gin.Context) *models.Account {
	if v, ok := c.Get(accountKey); ok {
		if account, ok := v.(*models.Account); ok {
			return account
		}
	}
	return nil
}

func accountID(c *gin.Context) string {
	if account := currentAccount(c); account != nil {
		return account.ID
	}
	return ""
}
