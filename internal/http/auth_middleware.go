package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecofinds/internal/service"
)

const authUserIDKey = "auth_user_id"

// SessionAuthMiddleware valida la cookie de sesion y guarda el user id
// en el contexto. Cookie ausente, malformada o expirada: 401.
func SessionAuthMiddleware(sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "session service not configured"})
			c.Abort()
			return
		}

		token := GetSessionToken(c.Request)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized - no token provided"})
			c.Abort()
			return
		}

		userID, err := sessions.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized - invalid token"})
			c.Abort()
			return
		}

		c.Set(authUserIDKey, userID)
		c.Next()
	}
}

// GetAuthUserID obtiene el user id validado desde el contexto.
func GetAuthUserID(c *gin.Context) (string, bool) {
	val, ok := c.Get(authUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := val.(string)
	return id, ok
}
