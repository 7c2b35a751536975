package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"jobfill/services"
	"jobfill/utils"
)

// RequireAuth validates the Bearer token and stores the user identity on the
// request context under "userID" and "email".
func RequireAuth(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.UnauthorizedError(c, "Missing or malformed Authorization header")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.UnauthorizedError(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
