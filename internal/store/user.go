package store

import (
	"context"
	"errors"

	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, full_name, password_hash, avatar_url, provider, provider_id,
	global_role, created_at, updated_at`

type UserStore struct {
	db *database.DB
}

func NewUserStore(db *database.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.AvatarURL,
		&u.Provider, &u.ProviderID, &u.GlobalRole, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, userID))
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email))
}

func (s *UserStore) CreateWithPassword(ctx context.Context, email, fullName, passwordHash string) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, full_name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns+`
	`, email, fullName, passwordHash))
}

// FindOrCreateFromOAuth looks up the user by provider identity, falling back
// to email so a password account can be linked to its OAuth login.
func (s *UserStore) FindOrCreateFromOAuth(ctx context.Context, provider, providerID, email, fullName string, avatarURL *string) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE provider = $1 AND provider_id = $2
	`, provider, providerID))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user, err = s.GetByEmail(ctx, email)
	if err == nil {
		return scanUser(s.db.Pool.QueryRow(ctx, `
			UPDATE users SET provider = $1, provider_id = $2, avatar_url = COALESCE($3, avatar_url), updated_at = NOW()
			WHERE id = $4
			RETURNING `+userColumns+`
		`, provider, providerID, avatarURL, user.ID))
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return scanUser(s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, full_name, avatar_url, provider, provider_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns+`
	`, email, fullName, avatarURL, provider, providerID))
}

func (s *UserStore) SetGlobalRole(ctx context.Context, email, role string) error {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET global_role = $1, updated_at = NOW() WHERE email = $2
	`, role, email)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
