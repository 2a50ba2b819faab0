package types

import "time"

// Report is an immutable security incident record. There is no update or
// delete path for reports; rows accumulate as an audit trail.
type Report struct {
	ID               string    `db:"id" json:"id"`
	Unit             Unit      `db:"unit" json:"unit"`
	Region           Region    `db:"region" json:"region"`
	Category         Category  `db:"category" json:"category"`
	IncidentDate     string    `db:"incident_date" json:"incident_date"`
	IncidentTime     string    `db:"incident_time" json:"incident_time"`
	LossEstimationKg float64   `db:"loss_estimation_kg" json:"loss_estimation_kg"`
	SupervisorPhone  string    `db:"supervisor_phone" json:"supervisor_phone"`
	Summary          string    `db:"summary" json:"summary"`
	Latitude         *float64  `db:"latitude" json:"latitude"`
	Longitude        *float64  `db:"longitude" json:"longitude"`
	Photos           []string  `db:"photos" json:"photos"` // jsonb array, upload order
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

func (r *Report) Validate() error {
	if !r.Unit.Valid() {
		return NewValidationError("unknown unit %q", r.Unit)
	}

	if !r.Region.Valid() {
		return NewValidationError("unknown region %q", r.Region)
	}

	if !r.Category.Valid() {
		return NewValidationError("unknown category %q", r.Category)
	}

	if r.IncidentDate == "" {
		return NewValidationError("incident date is required")
	}

	if r.IncidentTime == "" {
		return NewValidationError("incident time is required")
	}

	if r.LossEstimationKg < 0 {
		return NewValidationError("loss estimation must not be negative")
	}

	if r.SupervisorPhone == "" {
		return NewValidationError("supervisor phone is required")
	}

	if r.Summary == "" {
		return NewValidationError("summary is required")
	}

	// Coordinates are both present or both absent, never one without the
	// other.
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return NewValidationError("latitude and longitude must be provided together")
	}

	return nil
}
