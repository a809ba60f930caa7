package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ecofinds/internal/domain"
	"ecofinds/internal/email"
	"ecofinds/internal/repository"
)

// AuthService coordina signup, verificacion, login y reset de password
// contra el repositorio de usuarios y el despachador de correos.
type AuthService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	emailSender email.Sender
	cache       UserCache
	clientURL   string
}

var (
	ErrAllFieldsRequired  = errors.New("all fields are required")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCode        = errors.New("invalid or expired code")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailSendFailure   = errors.New("email send failed")
)

const (
	verificationTTL = 24 * time.Hour
	resetTokenTTL   = time.Hour
	userCacheTTL    = 5 * time.Minute
)

func NewAuthService(logger *zap.Logger, users repository.UserRepository, emailSender email.Sender, cache UserCache, clientURL string) *AuthService {
	if cache == nil {
		cache = NewMemoryUserCache()
	}
	return &AuthService{
		logger:      logger,
		users:       users,
		emailSender: emailSender,
		cache:       cache,
		clientURL:   strings.TrimRight(clientURL, "/"),
	}
}

// Signup crea la cuenta sin verificar, con su codigo inicial de 24h, y
// despacha el correo de verificacion antes de responder. La sesion la
// emite la capa HTTP con el usuario devuelto.
func (s *AuthService) Signup(ctx context.Context, emailAddr, password, name string) (domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	name = strings.TrimSpace(name)
	if emailAddr == "" || password == "" || name == "" {
		return domain.User{}, ErrAllFieldsRequired
	}

	_, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return domain.User{}, ErrUserExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	code, err := generateVerificationCode()
	if err != nil {
		return domain.User{}, err
	}

	expiresAt := time.Now().UTC().Add(verificationTTL)
	user := domain.User{
		ID:                    uuid.NewString(),
		Email:                 emailAddr,
		Name:                  name,
		PasswordHash:          string(hashBytes),
		VerificationCode:      code,
		VerificationExpiresAt: &expiresAt,
		CreatedAt:             time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		// El unique de email cierra la carrera entre signups concurrentes.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, err
	}

	if err := s.sendVerification(ctx, user.Email, code, expiresAt); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

// VerifyEmail consume un codigo vigente; invalido y expirado colapsan en
// el mismo error, igual que en el flujo observado.
func (s *AuthService) VerifyEmail(ctx context.Context, code string) (domain.User, error) {
	code = strings.TrimSpace(code)
	if !isValidVerificationCode(code) {
		return domain.User{}, ErrInvalidCode
	}

	user, err := s.users.GetByVerificationCode(ctx, code, time.Now().UTC())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCode
		}
		return domain.User{}, err
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return domain.User{}, err
	}
	_ = s.cache.Invalidate(user.ID)

	if s.emailSender == nil {
		return domain.User{}, ErrEmailSendFailure
	}
	if err := s.emailSender.SendWelcome(ctx, user.Email, user.Name); err != nil {
		if s.logger != nil {
			s.logger.Warn("send welcome email failed", zap.Error(err), zap.String("email", user.Email))
		}
		return domain.User{}, ErrEmailSendFailure
	}

	user.IsVerified = true
	user.VerificationCode = ""
	user.VerificationExpiresAt = nil
	return user, nil
}

// Login autentica por email y password. Email desconocido y password
// incorrecto devuelven el mismo error para no enumerar cuentas.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return domain.User{}, err
	}
	_ = s.cache.Invalidate(user.ID)

	user.LastLoginAt = &now
	return user, nil
}

// ForgotPassword emite un token de reset de 1 hora y envia el enlace.
// Un email desconocido responde "user not found": filtra existencia de
// cuentas, comportamiento observado que se preserva.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return ErrUserNotFound
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(resetTokenTTL)

	if err := s.users.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return err
	}

	if s.emailSender == nil {
		return ErrEmailSendFailure
	}
	resetURL := s.clientURL + "/reset-password/" + token
	if err := s.emailSender.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		if s.logger != nil {
			s.logger.Warn("send password reset email failed", zap.Error(err), zap.String("email", user.Email))
		}
		return ErrEmailSendFailure
	}
	return nil
}

// ResetPassword consume un token vigente exactamente una vez: el mismo
// UPDATE que guarda el hash nuevo limpia token y expiracion.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidResetToken
	}

	user, err := s.users.GetByResetToken(ctx, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidResetToken
		}
		return err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(newPassword)), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.users.ResetPassword(ctx, user.ID, string(hashBytes)); err != nil {
		return err
	}
	_ = s.cache.Invalidate(user.ID)

	if s.emailSender == nil {
		return ErrEmailSendFailure
	}
	if err := s.emailSender.SendResetSuccess(ctx, user.Email); err != nil {
		if s.logger != nil {
			s.logger.Warn("send reset success email failed", zap.Error(err), zap.String("email", user.Email))
		}
		return ErrEmailSendFailure
	}
	return nil
}

// CheckAuth resuelve una identidad ya validada a su proyeccion sanitizada,
// sin mutar estado. Con redis configurado la proyeccion se cachea brevemente.
func (s *AuthService) CheckAuth(ctx context.Context, userID string) (domain.SanitizedUser, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.SanitizedUser{}, ErrUserNotFound
	}

	if cached, ok, err := s.cache.Get(userID); err == nil && ok {
		return cached, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SanitizedUser{}, ErrUserNotFound
		}
		return domain.SanitizedUser{}, err
	}

	sanitized := user.Sanitized()
	if err := s.cache.Set(sanitized, userCacheTTL); err != nil && s.logger != nil {
		s.logger.Warn("user cache set failed", zap.Error(err), zap.String("user_id", userID))
	}
	return sanitized, nil
}

func (s *AuthService) sendVerification(ctx context.Context, emailAddr, code string, expiresAt time.Time) error {
	if s.emailSender == nil {
		return ErrEmailSendFailure
	}
	if err := s.emailSender.SendVerificationCode(ctx, emailAddr, code, expiresAt); err != nil {
		if s.logger != nil {
			s.logger.Warn("send verification email failed", zap.Error(err), zap.String("email", emailAddr))
		}
		return ErrEmailSendFailure
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
