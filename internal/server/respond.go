package server

import (
	"encoding/json"
	"net/http"

	"ladangwatch/pkg/types"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Service) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode json response")
	}
}

// respondError is the single place a store failure becomes a user-visible
// payload; handlers never branch on backend-specific error shapes.
func (s *Service) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch types.KindOf(err) {
	case types.ErrorKindValidation:
		status = http.StatusBadRequest
	case types.ErrorKindAuthorization:
		status = http.StatusForbidden
	case types.ErrorKindNotFound:
		status = http.StatusNotFound
	case types.ErrorKindConflict:
		status = http.StatusConflict
	case types.ErrorKindTransport:
		status = http.StatusBadGateway
	}

	s.respondJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Service) respondUnauthorized(w http.ResponseWriter) {
	s.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
}

// respondProfileRequired signals that the identity has not completed
// profile setup; the client must route to the setup view and nowhere else.
func (s *Service) respondProfileRequired(w http.ResponseWriter) {
	s.respondJSON(w, http.StatusConflict, errorResponse{
		Error: "profile setup is required",
		Code:  "profile_required",
	})
}

func (s *Service) decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return types.NewValidationError("invalid request body: %v", err)
	}
	return nil
}
