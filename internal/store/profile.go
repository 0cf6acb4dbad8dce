package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/krishiguru/apiserver/types"
	"github.com/lib/pq"
)

// ProfileRepository handles persistence for farm profiles.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (types.Profile, error) {
	const query = `
		SELECT id, user_id, full_name, farm_name, location, farm_size, crops, created_at, updated_at
		FROM profiles
		WHERE user_id = $1`
	var profile types.Profile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.FarmName,
		&profile.Location,
		&profile.FarmSize,
		pq.Array(&profile.Crops),
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Profile{}, ErrNotFound
		}
		return types.Profile{}, err
	}
	return profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile types.Profile) (types.Profile, error) {
	profile.UpdatedAt = time.Now()

	const query = `
		UPDATE profiles
		SET full_name = $1,
			farm_name = $2,
			location = $3,
			farm_size = $4,
			crops = $5,
			updated_at = $6
		WHERE user_id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		profile.FullName,
		profile.FarmName,
		profile.Location,
		profile.FarmSize,
		pq.Array(profile.Crops),
		profile.UpdatedAt,
		profile.UserID,
	)
	if err != nil {
		return types.Profile{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Profile{}, err
	}
	if affected == 0 {
		return types.Profile{}, ErrNotFound
	}
	return profile, nil
}
