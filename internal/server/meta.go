package server

import (
	"net/http"

	"ladangwatch/pkg/types"
)

// handleGetMeta publishes the closed enumeration sets so clients build
// their selectors from the backend instead of hardcoding them.
func (s *Service) handleGetMeta(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"units":      types.Units,
		"regions":    types.Regions,
		"categories": types.Categories,
		"roles":      types.Roles,
	})
}
