package store

import (
	"context"
	"fmt"
	"time"

	"ladangwatch/internal/utils"
	"ladangwatch/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileTableName = "ladangwatch.user_profiles"

var profileColumns = utils.StructTagValues(types.Profile{})

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Profile(ctx context.Context, profileID string) (*types.Profile, error) {
	query, args, err := psql().
		Select(profileColumns...).
		From(profileTableName).
		Where(sq.Eq{"id": profileID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate profile query: %w", err)
	}

	var profile types.Profile
	err = pgxscan.Get(ctx, r.pool, &profile, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrProfileNotFound
		}
		return nil, types.NewTransportError(err, "failed to fetch profile")
	}

	return &profile, nil
}

// Profiles returns every profile, newest-created-first. The caller is
// responsible for holding the user-management capability.
func (r *ProfileRepository) Profiles(ctx context.Context) ([]*types.Profile, error) {
	query, args, err := psql().
		Select(profileColumns...).
		From(profileTableName).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate profiles query: %w", err)
	}

	var profiles []*types.Profile
	err = pgxscan.Select(ctx, r.pool, &profiles, query, args...)
	if err != nil {
		return nil, types.NewTransportError(err, "failed to fetch profiles")
	}

	return profiles, nil
}

// Create inserts the profile, validating the role/region pairing first so
// an invalid row never reaches the database. A second create for the same
// identity is a conflict, never a silent overwrite.
func (r *ProfileRepository) Create(ctx context.Context, profile *types.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query, args, err := psql().
		Insert(profileTableName).
		SetMap(utils.StructToMap(profile)).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create profile query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return types.NewTransportError(err, "failed to create profile")
	}

	if tag.RowsAffected() == 0 {
		return types.NewConflictError("a profile already exists for this identity")
	}

	return nil
}

// SyncEmail refreshes the email column from the identity provider's token
// claims. Update-only: profile creation stays an explicit setup step.
func (r *ProfileRepository) SyncEmail(ctx context.Context, profileID, email string) error {
	if email == "" {
		return nil
	}

	query, args, err := psql().
		Update(profileTableName).
		Set("email", email).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": profileID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate sync email query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return types.NewTransportError(err, "failed to sync profile email")
	}

	return nil
}

// Delete removes the profile row only. The underlying Cognito identity can
// still authenticate afterwards and will land back in profile setup; this
// is a documented limitation, not an oversight.
func (r *ProfileRepository) Delete(ctx context.Context, profileID string) error {
	query, args, err := psql().
		Delete(profileTableName).
		Where(sq.Eq{"id": profileID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete profile query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return types.NewTransportError(err, "failed to delete profile")
	}

	if tag.RowsAffected() == 0 {
		return types.ErrProfileNotFound
	}

	return nil
}
