package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecofinds/internal/service"
)

// AuthHandler mantiene dependencias para los endpoints de autenticacion.
type AuthHandler struct {
	logger   *zap.Logger
	authServ *service.AuthService
	sessions *service.SessionService
	cookies  *SessionCookies
}

// NewAuthHandler crea una instancia de AuthHandler con dependencias necesarias.
func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService, sessions *service.SessionService, cookies *SessionCookies) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		authServ: authServ,
		sessions: sessions,
		cookies:  cookies,
	}
}

// Signup maneja POST /api/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid signup request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required"})
		return
	}

	user, err := h.authServ.Signup(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAllFieldsRequired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required"})
		case errors.Is(err, service.ErrUserExists):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already exists"})
		case errors.Is(err, service.ErrEmailSendFailure):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Error sending verification email"})
		default:
			h.logger.Error("signup failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		}
		return
	}

	// El usuario queda logueado de inmediato, aunque sin verificar.
	token, err := h.sessions.Issue(user.ID)
	if err != nil {
		h.logger.Error("session issue failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "could not issue session"})
		return
	}
	h.cookies.Set(c, token)

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user.Sanitized()})
}

// VerifyEmail maneja POST /api/auth/verify-email.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid verify email request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired code"})
		return
	}

	user, err := h.authServ.VerifyEmail(c.Request.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCode):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired code"})
		case errors.Is(err, service.ErrEmailSendFailure):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Error sending welcome email"})
		default:
			h.logger.Error("verify email failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email verified successfully",
		"user":    user.Sanitized(),
	})
}

// Login maneja POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	user, err := h.authServ.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid credentials"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	token, err := h.sessions.Issue(user.ID)
	if err != nil {
		h.logger.Error("session issue failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "could not issue session"})
		return
	}
	h.cookies.Set(c, token)

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user.Sanitized()})
}

// Logout maneja POST /api/auth/logout. Siempre responde exito.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// ForgotPassword maneja POST /api/auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid forgot password request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User not found"})
		return
	}

	if err := h.authServ.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User not found"})
		case errors.Is(err, service.ErrEmailSendFailure):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Error sending password reset email"})
		default:
			h.logger.Error("forgot password failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reset link sent"})
}

// ResetPassword maneja POST /api/auth/reset-password/:token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := c.Param("token")
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid reset password request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired token"})
		return
	}

	if err := h.authServ.ResetPassword(c.Request.Context(), token, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetToken):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired token"})
		case errors.Is(err, service.ErrEmailSendFailure):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Error sending password reset success email"})
		default:
			h.logger.Error("reset password failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successful"})
}

// CheckAuth maneja GET /api/auth/check-auth (detras del middleware de sesion).
func (h *AuthHandler) CheckAuth(c *gin.Context) {
	userID, ok := GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized - no token provided"})
		return
	}

	user, err := h.authServ.CheckAuth(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User not found"})
			return
		}
		h.logger.Error("check auth failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
