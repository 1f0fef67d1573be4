package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"
)

// AccessTokenMiddleware requires a Bearer token and stores it under
// "accessToken" for forwarding to the Haram backend. The backend verifies the
// signature; here the claims are only read to tag the request with the
// caller's subject under "userID".
func AccessTokenMiddleware() gin.HandlerFunc {
	parser := &jwt.Parser{}
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims := jwt.MapClaims{}
		if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
			zap.L().Debug("Rejected malformed access token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("accessToken", tokenString)
		if sub, ok := claims["sub"].(string); ok {
			c.Set("userID", sub)
		}
		c.Next()
	}
}
