package seed

import (
	"context"
	"errors"
	"fmt"

	"ladangwatch/internal/store"
	"ladangwatch/pkg/types"
)

type fixtureProfile struct {
	ID     string
	Email  string
	Role   types.Role
	Region *types.Region
}

func regionPtr(r types.Region) *types.Region {
	return &r
}

var fixtureProfiles = []fixtureProfile{
	{ID: "11111111-1111-1111-1111-111111111111", Email: "guard.tawau+seed1@example.com", Role: types.RoleStaff, Region: regionPtr(types.RegionTWU)},
	{ID: "22222222-2222-2222-2222-222222222222", Email: "guard.sandakan+seed2@example.com", Role: types.RoleStaff, Region: regionPtr(types.RegionSDK)},
	{ID: "33333333-3333-3333-3333-333333333333", Email: "manager.tawau+seed3@example.com", Role: types.RoleRegionManager, Region: regionPtr(types.RegionTWU)},
	{ID: "44444444-4444-4444-4444-444444444444", Email: "manager.lahaddatu+seed4@example.com", Role: types.RoleRegionManager, Region: regionPtr(types.RegionLD)},
	{ID: "55555555-5555-5555-5555-555555555555", Email: "hq.executive+seed5@example.com", Role: types.RoleExecutive},
}

func SeedProfiles(ctx context.Context, profileRepo *store.ProfileRepository) (int, error) {
	seeded := 0
	for _, fixture := range fixtureProfiles {
		_, err := profileRepo.Profile(ctx, fixture.ID)
		if err == nil {
			continue
		}

		if !errors.Is(err, types.ErrProfileNotFound) {
			return seeded, fmt.Errorf("failed to fetch fixture profile %s: %w", fixture.ID, err)
		}

		profile := &types.Profile{
			ID:     fixture.ID,
			Email:  fixture.Email,
			Role:   fixture.Role,
			Region: fixture.Region,
		}

		if err := profileRepo.Create(ctx, profile); err != nil {
			return seeded, fmt.Errorf("failed to create fixture profile %s: %w", fixture.ID, err)
		}

		seeded++
	}

	return seeded, nil
}
