package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/nmoreno/user-auth-api/internal/model"
)

// UserRepo is the credential store backed by the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a local-credential user and returns its public_id.
// The email is normalized to lower case before the write; uniqueness is
// enforced by the store and surfaces as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash, fname, lname string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	publicID := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (public_id, email, password_hash, auth_provider, fname, lname) VALUES (?,?,?,?,?,?)",
		publicID, email, passwordHash, "local", fname, lname)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return "", ErrEmailExists
		}
		return "", err
	}
	return publicID, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.get(ctx,
		"SELECT id, public_id, email, password_hash, auth_provider, fname, lname, COALESCE(picture,''), created_at FROM users WHERE email=? LIMIT 1",
		email)
}

// GetByPublicID fetches a user by its external identity.
func (r *UserRepo) GetByPublicID(ctx context.Context, publicID string) (model.User, error) {
	return r.get(ctx,
		"SELECT id, public_id, email, password_hash, auth_provider, fname, lname, COALESCE(picture,''), created_at FROM users WHERE public_id=? LIMIT 1",
		publicID)
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (model.User, error) {
	var (
		u        model.User
		hash     sql.NullString
		provider string
	)
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.PublicID, &u.Email, &hash, &provider, &u.FName, &u.LName, &u.Picture, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	// NULL password_hash signals a social-login-only account.
	if hash.Valid && hash.String != "" {
		u.Credential = model.LocalCredential(hash.String)
	} else {
		u.Credential = model.SocialCredential(provider)
	}
	return u, nil
}
