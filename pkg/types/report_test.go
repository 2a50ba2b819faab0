package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReport() Report {
	return Report{
		Unit:             UnitABM,
		Region:           RegionTWU,
		Category:         CategoryKecurian,
		IncidentDate:     "2025-08-14",
		IncidentTime:     "02:30",
		LossEstimationKg: 12.5,
		SupervisorPhone:  "+60123456789",
		Summary:          "Fence cut overnight",
	}
}

func floatPtr(f float64) *float64 {
	return &f
}

func TestReportValidate(t *testing.T) {
	t.Run("valid without coordinates", func(t *testing.T) {
		r := validReport()
		assert.NoError(t, r.Validate())
	})

	t.Run("valid with coordinates", func(t *testing.T) {
		r := validReport()
		r.Latitude = floatPtr(4.2448)
		r.Longitude = floatPtr(117.8911)
		assert.NoError(t, r.Validate())
	})

	t.Run("latitude without longitude", func(t *testing.T) {
		r := validReport()
		r.Latitude = floatPtr(4.2448)
		err := r.Validate()
		require.Error(t, err)
		assert.Equal(t, ErrorKindValidation, KindOf(err))
	})

	t.Run("longitude without latitude", func(t *testing.T) {
		r := validReport()
		r.Longitude = floatPtr(117.8911)
		require.Error(t, r.Validate())
	})

	t.Run("negative loss estimation", func(t *testing.T) {
		r := validReport()
		r.LossEstimationKg = -1
		require.Error(t, r.Validate())
	})

	t.Run("empty summary", func(t *testing.T) {
		r := validReport()
		r.Summary = ""
		require.Error(t, r.Validate())
	})

	t.Run("unknown enum values", func(t *testing.T) {
		for _, mutate := range []func(*Report){
			func(r *Report) { r.Unit = "XYZ" },
			func(r *Report) { r.Region = "XYZ" },
			func(r *Report) { r.Category = "Theft" },
		} {
			r := validReport()
			mutate(&r)
			require.Error(t, r.Validate())
		}
	})
}
