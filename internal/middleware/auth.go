package middleware

import (
	"net/http"
	"strings"
	"time"

	"jar-ledger/internal/models"
	"jar-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Context key under which the session claims are stored.
const SessionKey = "session"

// Session returns the claims stored by AuthMiddleware, or nil.
func Session(c *gin.Context) *util.Claims {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*util.Claims)
	if !ok {
		return nil
	}
	return claims
}

// AuthMiddleware verifies the session token and stores the claims in the
// context. Consumer sessions are additionally checked against the registry:
// a deleted consumer's token stops working immediately.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) URL query ?token=xxx (for downloads where headers are awkward)
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		// 3) Cookie
		if tokenStr == "" {
			if cookie, err := c.Cookie("jl_token"); err == nil {
				tokenStr = cookie
			}
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
			c.Abort()
			return
		}

		if claims.Role == util.RoleConsumer {
			var consumer models.Consumer
			if err := db.First(&consumer, "mobile = ?", claims.Mobile).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					util.Error(c, http.StatusUnauthorized, util.CodeAuth, "consumer no longer registered")
				} else {
					util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "lookup consumer failed")
				}
				c.Abort()
				return
			}
			// keep the display name fresh even if the profile was edited
			claims.Name = consumer.Name
		}

		c.Set(SessionKey, claims)
		c.Next()
	}
}

// RequireAdmin gates a route group to the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Session(c)
		if claims == nil || claims.Role != util.RoleAdmin {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}
