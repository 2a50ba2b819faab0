package types

import "time"

// Profile is the one row per identity that drives every access decision.
// Its ID equals the Cognito identity's subject claim.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Role      Role      `db:"role" json:"role"`
	Region    *Region   `db:"region" json:"region"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Validate enforces the role/region pairing rule: executives carry no
// region, everyone else carries exactly one of the known regions. A profile
// failing this check must never be persisted.
func (p *Profile) Validate() error {
	if p.ID == "" {
		return NewValidationError("profile id is required")
	}

	if !p.Role.Valid() {
		return NewValidationError("unknown role %q", p.Role)
	}

	if p.Role == RoleExecutive {
		if p.Region != nil {
			return NewValidationError("executive profiles must not carry a region")
		}
		return nil
	}

	if p.Region == nil {
		return NewValidationError("region is required for role %q", p.Role)
	}

	if !p.Region.Valid() {
		return NewValidationError("unknown region %q", *p.Region)
	}

	return nil
}
