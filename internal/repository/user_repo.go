package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecofinds/internal/domain"
)

// ErrDuplicateEmail indica que el email ya esta registrado (unique en la tabla).
var ErrDuplicateEmail = errors.New("duplicate email")

// UserRepository define el contrato de persistencia para usuarios.
// Cada mutacion es un unico statement: el clear de codigo/token viaja en el
// mismo UPDATE que el cambio de estado.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByVerificationCode(ctx context.Context, code string, now time.Time) (domain.User, error)
	GetByResetToken(ctx context.Context, token string, now time.Time) (domain.User, error)
	MarkVerified(ctx context.Context, id string) error
	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	ResetPassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `
	id, email, name, password_hash, is_verified,
	COALESCE(verification_code, ''), verification_expires_at,
	COALESCE(reset_token, ''), reset_expires_at,
	last_login, created_at
`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, name, password_hash, is_verified,
			verification_code, verification_expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.IsVerified,
		user.VerificationCode,
		user.VerificationExpiresAt,
		user.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *PgUserRepository) GetByVerificationCode(ctx context.Context, code string, now time.Time) (domain.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE verification_code = $1 AND verification_expires_at > $2
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, code, now))
}

func (r *PgUserRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (domain.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE reset_token = $1 AND reset_expires_at > $2
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, token, now))
}

func (r *PgUserRepository) MarkVerified(ctx context.Context, id string) error {
	const query = `
		UPDATE users
		SET is_verified = TRUE, verification_code = NULL, verification_expires_at = NULL
		WHERE id = $1
	`
	return r.exec(ctx, query, id)
}

func (r *PgUserRepository) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	const query = `
		UPDATE users
		SET reset_token = $2, reset_expires_at = $3
		WHERE id = $1
	`
	return r.exec(ctx, query, id, token, expiresAt)
}

func (r *PgUserRepository) ResetPassword(ctx context.Context, id, passwordHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $2, reset_token = NULL, reset_expires_at = NULL
		WHERE id = $1
	`
	return r.exec(ctx, query, id, passwordHash)
}

func (r *PgUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE users SET last_login = $2 WHERE id = $1`
	return r.exec(ctx, query, id, at)
}

func (r *PgUserRepository) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) scanOne(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.IsVerified,
		&u.VerificationCode,
		&u.VerificationExpiresAt,
		&u.ResetToken,
		&u.ResetExpiresAt,
		&u.LastLoginAt,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
