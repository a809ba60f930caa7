package domain

import "time"

// User representa el registro persistido de una cuenta EcoFinds.
// Los secretos (hash, codigo de verificacion, token de reset) nunca
// se serializan a JSON.
type User struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	Name                  string     `json:"name"`
	PasswordHash          string     `json:"-"`
	IsVerified            bool       `json:"is_verified"`
	VerificationCode      string     `json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`
	ResetToken            string     `json:"-"`
	ResetExpiresAt        *time.Time `json:"-"`
	LastLoginAt           *time.Time `json:"last_login,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}

// SanitizedUser es la unica proyeccion de usuario que expone la API.
type SanitizedUser struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	IsVerified bool   `json:"is_verified"`
}

// Sanitized devuelve la proyeccion publica del usuario.
func (u User) Sanitized() SanitizedUser {
	return SanitizedUser{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		IsVerified: u.IsVerified,
	}
}
