package middleware

import (
	"strings"

	"quranstudy/apperror"
	"quranstudy/models"
	"quranstudy/response"
	"quranstudy/services"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

type TokenParser interface {
	Parse(token string, want models.TokenType) (*services.Claims, error)
}

// AuthMiddleware accepts an access token from the Authorization header or the token query parameter.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			response.Abort(c, apperror.Unauthorized("Please authenticate"))
			return
		}

		claims, err := tokens.Parse(tokenString, models.TokenTypeAccess)
		if err != nil {
			response.Abort(c, apperror.Unauthorized("Please authenticate"))
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

// RequireRights lets a request through when the caller's role has every right,
// or when the route's :userId is the caller.
func RequireRights(rights ...models.Right) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			response.Abort(c, apperror.Unauthorized("Please authenticate"))
			return
		}

		role, _ := c.Get(ContextUserRole)
		r, _ := role.(models.Role)
		if r.HasRights(rights...) {
			c.Next()
			return
		}
		if target := c.Param("userId"); target != "" && target == userID {
			c.Next()
			return
		}
		response.Abort(c, apperror.Forbidden("Forbidden"))
	}
}

// UserID returns the authenticated caller set by AuthMiddleware.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserID)
	return id, id != ""
}
