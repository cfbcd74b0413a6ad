package user

//go:generate mockgen -destination=./repository_mock_test.go -package=user -source=repository.go Repository

import (
	"context"
	"database/sql"
	"fmt"

	"finance-companion/internal/domain"

	"github.com/google/uuid"
)

// Repository is the interface for all profile related database operations.
type Repository interface {
	// GetProfile finds a profile by the user's ID.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	// UpsertProfile creates the profile or overwrites its editable fields, setting UpdatedAt.
	UpsertProfile(ctx context.Context, profile *domain.Profile) error
}

// postgresRepository is the concrete implementation of the Repository that uses a Postgres database
type postgresRepository struct {
	db *sql.DB // The database connection pool.
}

// NewPostgresRepository is the constructor for the repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{
		db: db,
	}
}

// GetProfile retrieves a single profile row.
func (pr *postgresRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile := &domain.Profile{}

	query := `
		SELECT id, COALESCE(full_name, ''), COALESCE(avatar_url, ''), updated_at
		FROM profiles
		WHERE id = $1
	`
	err := pr.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile not found")
		}
		return nil, fmt.Errorf("could not get profile: %w", err)
	}

	return profile, nil
}

// UpsertProfile inserts the row or updates it in place when the id already exists.
func (pr *postgresRepository) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, full_name, avatar_url, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), now())
		ON CONFLICT (id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    avatar_url = EXCLUDED.avatar_url,
		    updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`
	err := pr.db.QueryRowContext(ctx, query,
		profile.UserID,
		profile.FullName,
		profile.AvatarURL,
	).Scan(&profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not upsert profile: %w", err)
	}
	return nil
}
