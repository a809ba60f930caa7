package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecofinds/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas de auth.
func NewRouter(
	logger *zap.Logger,
	authH *AuthHandler,
	sessions *service.SessionService,
	clientURL string,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery, CORS hacia el cliente.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware(clientURL))

	auth := r.Group("/api/auth")
	auth.POST("/signup", authH.Signup)
	auth.POST("/verify-email", authH.VerifyEmail)
	auth.POST("/login", authH.Login)
	auth.POST("/logout", authH.Logout)
	auth.POST("/forgot-password", authH.ForgotPassword)
	auth.POST("/reset-password/:token", authH.ResetPassword)
	auth.GET("/check-auth", SessionAuthMiddleware(sessions), authH.CheckAuth)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// corsMiddleware habilita CORS con credenciales para el origen del cliente,
// necesario para que la cookie de sesion viaje desde el navegador.
func corsMiddleware(clientURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if clientURL != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", clientURL)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
