package server

import (
	"net/http"

	"ladangwatch/pkg/types"
)

type setupProfileRequest struct {
	Role   types.Role    `json:"role" validate:"required"`
	Region *types.Region `json:"region"`
}

// handleSetupProfile is the one-shot self-service setup flow: the first
// call for an identity chooses its role and region and creates the
// profile. Once a profile exists this endpoint is closed; any later
// role or region change is the executive admin mutation's job, so an
// identity can never escalate its own role by re-running setup.
func (s *Service) handleSetupProfile(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessionFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain session")
		s.respondUnauthorized(w)
		return
	}

	if session.Profile != nil {
		s.respondError(w, types.NewConflictError("profile setup is already complete"))
		return
	}

	var req setupProfileRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	profile := &types.Profile{
		ID:     session.Identity.ID,
		Email:  session.Identity.Email,
		Role:   req.Role,
		Region: req.Region,
	}

	if err := s.profileRepo.Create(r.Context(), profile); err != nil {
		s.logger.WithError(err).Error("failed to create profile")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, profile)
}
