package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionService emite y valida credenciales de sesion firmadas.
// La credencial es un JWT HS256 con {uid, iat, exp}; el transporte
// (cookie) es responsabilidad de la capa HTTP.
type SessionService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

type SessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

var (
	ErrSessionInvalid = errors.New("session invalid")
	ErrSessionExpired = errors.New("session expired")
)

const defaultSessionTTL = 7 * 24 * time.Hour

func NewSessionService(secret string, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "ecofinds",
	}
}

// TTL devuelve la duracion de la sesion emitida.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Issue firma una credencial de sesion para el usuario dado.
func (s *SessionService) Issue(userID string) (string, error) {
	if len(s.secret) == 0 || strings.TrimSpace(userID) == "" {
		return "", ErrSessionInvalid
	}
	now := time.Now().UTC()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify valida firma, estructura y expiracion; devuelve el user id embebido.
func (s *SessionService) Verify(tokenString string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrSessionInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return "", ErrSessionInvalid
	}

	var claims SessionClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrSessionExpired
		}
		return "", ErrSessionInvalid
	}

	if !s.isValidClaims(claims) {
		return "", ErrSessionInvalid
	}
	return claims.UserID, nil
}

func (s *SessionService) isValidClaims(claims SessionClaims) bool {
	if strings.TrimSpace(claims.UserID) == "" {
		return false
	}
	if claims.Subject != claims.UserID {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
