package seed

import (
	"context"
	"fmt"

	"ladangwatch/internal/policy"
	"ladangwatch/internal/store"
	"ladangwatch/internal/utils"
	"ladangwatch/pkg/types"
)

var fixtureReports = []*types.Report{
	{
		Unit:             types.UnitABM,
		Region:           types.RegionTWU,
		Category:         types.CategoryKecurian,
		IncidentDate:     "2025-08-10",
		IncidentTime:     "02:30",
		LossEstimationKg: 120,
		SupervisorPhone:  "+60123456789",
		Summary:          "Fence cut overnight, fresh fruit bunches missing from block 7",
		Latitude:         utils.Float64Ptr(4.2448),
		Longitude:        utils.Float64Ptr(117.8911),
	},
	{
		Unit:             types.UnitLKM,
		Region:           types.RegionSDK,
		Category:         types.CategoryKebakaran,
		IncidentDate:     "2025-08-11",
		IncidentTime:     "23:15",
		LossEstimationKg: 0,
		SupervisorPhone:  "+60198765432",
		Summary:          "Small fire near the storehouse, extinguished before spreading",
	},
	{
		Unit:             types.UnitSDM,
		Region:           types.RegionLD,
		Category:         types.CategoryPencerobohan,
		IncidentDate:     "2025-08-12",
		IncidentTime:     "04:50",
		LossEstimationKg: 35.5,
		SupervisorPhone:  "+60171234567",
		Summary:          "Unknown vehicle spotted inside the east boundary before dawn",
	},
}

// SeedReports inserts the fixture reports once; an already-populated table
// is left untouched.
func SeedReports(ctx context.Context, reportRepo *store.ReportRepository) (int, error) {
	existing, err := reportRepo.Reports(ctx, policy.Scope{})
	if err != nil {
		return 0, fmt.Errorf("failed to check existing reports: %w", err)
	}

	if len(existing) > 0 {
		return 0, nil
	}

	for i, fixture := range fixtureReports {
		report := *fixture
		if err := reportRepo.Create(ctx, &report); err != nil {
			return i, fmt.Errorf("failed to create fixture report %d: %w", i, err)
		}
	}

	return len(fixtureReports), nil
}
