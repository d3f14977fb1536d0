package middleware

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/LucasBertrand/SkateHub-Back/internal/utils"
)

// OptionalAuthMiddleware tente d'identifier l'utilisateur sans bloquer la requête.
// Utilisé sur les routes publiques (feed, parks, annonces) où la présence d'un
// user_id enrichit simplement la réponse (is_liked, etc.).
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		refreshToken := c.GetHeader("X-Refresh-Token")

		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		jwtSecret := []byte(os.Getenv("JWT_SECRET"))

		// Lecture des claims sans vérifier la signature, juste pour l'expiration
		claims := utils.ParseJWTClaims(tokenStr)
		expFloat, ok := claims["exp"].(float64)
		if !ok {
			c.Next()
			return
		}

		exp := int64(expFloat)
		now := time.Now().Unix()

		// Rafraîchissement si expiré
		if now > exp && refreshToken != "" {
			if newToken, err := refreshAccessToken(refreshToken); err == nil {
				tokenStr = newToken
				c.Set("access_token", newToken)
				c.Header("X-New-Access-Token", newToken)
			}
		}

		// Re-validation avec clé secrète
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("méthode signature invalide")
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		claims = token.Claims.(jwt.MapClaims)
		if userID, ok := claims["sub"].(string); ok {
			c.Set("user_id", userID)
		}

		c.Next()
	}
}
