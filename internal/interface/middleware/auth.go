package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	repo "github.com/oksasatya/docvault-api/internal/domain/repository"
	"github.com/oksasatya/docvault-api/pkg/helpers"
	"github.com/oksasatya/docvault-api/pkg/response"
)

// Context keys set by Auth.
const (
	CtxUserID    = "userID"
	CtxUserName  = "userName"
	CtxUserEmail = "userEmail"
	CtxIsAdmin   = "isAdmin"
)

// bearerToken reads "Authorization: Bearer <jwt>", falling back to the
// access_token cookie set at login.
func bearerToken(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	tok, err := c.Cookie(helpers.AccessCookie)
	if err != nil {
		return ""
	}
	return tok
}

// Auth validates the access token, checks that its session is still the active
// one in Redis (when Redis is configured) and loads the caller. It sets userID,
// userName, userEmail and isAdmin in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager, users repo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "Not authorized, no token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Not authorized, token failed", err.Error())
			return
		}

		if rdb != nil {
			sid, err := rdb.HGet(c.Request.Context(), helpers.SessionKey(claims.UserID), "sid").Result()
			if err != nil || sid != claims.SessionID {
				response.Abort(c, http.StatusUnauthorized, "Not authorized, session expired", nil)
				return
			}
		}

		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || u == nil {
			response.Abort(c, http.StatusUnauthorized, "Not authorized, user not found", nil)
			return
		}

		c.Set(CtxUserID, u.ID)
		c.Set(CtxUserName, u.Name)
		c.Set(CtxUserEmail, u.Email)
		c.Set(CtxIsAdmin, u.IsAdmin)
		c.Next()
	}
}

// AdminOnly must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserID) == "" {
			response.Abort(c, http.StatusUnauthorized, "Not authorized", nil)
			return
		}
		if !c.GetBool(CtxIsAdmin) {
			response.Abort(c, http.StatusForbidden, "Access denied, admin only", nil)
			return
		}
		c.Next()
	}
}
