package store

import (
	"context"

	"ladangwatch/pkg/types"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminRepository wraps the privileged SQL function pair used only by
// administrative user management. The functions report policy refusals in
// a {success, error} jsonb envelope, which is surfaced as an
// authorization-kind error distinct from transport failures.
type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

type rpcEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func envelopeError(env rpcEnvelope, operation string) error {
	if env.Success {
		return nil
	}

	message := env.Error
	if message == "" {
		message = "failed to " + operation
	}

	return types.NewAuthorizationError("%s", message)
}

func (r *AdminRepository) CreateUserWithProfile(ctx context.Context, userID, email string, role types.Role, region *types.Region) error {
	row := r.pool.QueryRow(ctx,
		`SELECT ladangwatch.create_user_with_profile($1, $2, $3, $4)`,
		userID, email, role, region,
	)

	var env rpcEnvelope
	if err := row.Scan(&env); err != nil {
		return types.NewTransportError(err, "failed to call create_user_with_profile")
	}

	return envelopeError(env, "create user")
}

func (r *AdminRepository) UpdateUserRoleAndRegion(ctx context.Context, targetID string, role types.Role, region *types.Region) error {
	row := r.pool.QueryRow(ctx,
		`SELECT ladangwatch.update_user_role_and_region($1, $2, $3)`,
		targetID, role, region,
	)

	var env rpcEnvelope
	if err := row.Scan(&env); err != nil {
		return types.NewTransportError(err, "failed to call update_user_role_and_region")
	}

	return envelopeError(env, "update user")
}
