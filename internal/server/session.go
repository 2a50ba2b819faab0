package server

import (
	"net/http"

	"ladangwatch/internal"
	"ladangwatch/internal/policy"
	"ladangwatch/pkg/types"
)

type capabilitiesResponse struct {
	CanSubmitReport         bool `json:"can_submit_report"`
	CanViewAggregateReports bool `json:"can_view_aggregate_reports"`
	CanManageUsers          bool `json:"can_manage_users"`
}

type sessionResponse struct {
	Identity     types.Identity       `json:"identity"`
	Profile      *types.Profile       `json:"profile"`
	NeedsProfile bool                 `json:"needs_profile"`
	Capabilities capabilitiesResponse `json:"capabilities"`
	Views        []policy.View        `json:"views"`
	CurrentView  policy.View          `json:"current_view"`
}

// handleGetSession tells the client where it stands: identity, profile,
// capability set, reachable views, and the re-validated current view. An
// identity without a profile can reach only the setup view.
func (s *Service) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessionFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain session")
		s.respondUnauthorized(w)
		return
	}

	s.respondJSON(w, http.StatusOK, sessionResponse{
		Identity:     session.Identity,
		Profile:      session.Profile,
		NeedsProfile: session.Profile == nil,
		Capabilities: capabilitiesResponse{
			CanSubmitReport:         policy.CanSubmitReport(session.Profile),
			CanViewAggregateReports: policy.CanViewAggregateReports(session.Profile),
			CanManageUsers:          policy.CanManageUsers(session.Profile),
		},
		Views:       policy.Views(session.Profile),
		CurrentView: policy.ResolveView(session.Profile, s.selectedView(r)),
	})
}

type selectViewRequest struct {
	View policy.View `json:"view"`
}

// handlePutSessionView records an explicit view selection. Selecting a
// view the current capability set cannot reach is rejected rather than
// silently resolved.
func (s *Service) handlePutSessionView(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessionFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain session")
		s.respondUnauthorized(w)
		return
	}

	var req selectViewRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	if policy.ResolveView(session.Profile, req.View) != req.View {
		s.respondError(w, types.NewValidationError("view %q is not reachable", req.View))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_VIEW_NAME,
		Value:    string(req.View),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})

	s.respondJSON(w, http.StatusOK, map[string]policy.View{"view": req.View})
}

// selectedView reads the last explicitly selected view; it is advisory
// until re-validated by policy.ResolveView.
func (s *Service) selectedView(r *http.Request) policy.View {
	cookie, err := r.Cookie(internal.COOKIE_VIEW_NAME)
	if err != nil {
		return ""
	}
	return policy.View(cookie.Value)
}
