package middleware

import (
	"strings"

	"chamber-cms/helper"
	"chamber-cms/models"
	"chamber-cms/services"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

var HTTPHelper = helper.NewHTTPHelper()

// Authenticate requires a valid bearer token: none gives 401, a bad or
// expired one gives 403. The claims are stored in the gin context.
func Authenticate(tokens *services.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if authHeader == "" || tokenString == "" || tokenString == authHeader {
			HTTPHelper.SendUnauthorizedError(c, "Access token required")
			c.Abort()
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			HTTPHelper.SendForbiddenError(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Set("user_id", claims.UserID)
		c.Set("role", string(claims.Role))
		c.Next()
	}
}

// CurrentClaims returns the claims set by Authenticate, or nil.
func CurrentClaims(c *gin.Context) *services.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*services.Claims)
	return claims
}

// RequireAdmin trusts the role claim in the token.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(string(models.RoleAdmin))
}

func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			HTTPHelper.SendUnauthorizedError(c, "Access token required")
			c.Abort()
			return
		}

		roleStr, _ := userRole.(string)
		for _, role := range roles {
			if roleStr == role {
				c.Next()
				return
			}
		}

		HTTPHelper.SendForbiddenError(c, "Admin access required")
		c.Abort()
	}
}

type UserLookup interface {
	GetUserByID(id uint) (*models.User, error)
}

// RequireFreshAdmin re-reads the caller's role from storage, so a demoted
// or deleted admin loses access before the token expires.
func RequireFreshAdmin(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil {
			HTTPHelper.SendUnauthorizedError(c, "Access token required")
			c.Abort()
			return
		}

		user, err := users.GetUserByID(claims.UserID)
		if err != nil || !user.IsAdmin() {
			HTTPHelper.SendForbiddenError(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
