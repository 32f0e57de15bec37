package server

import (
	"errors"
	"net/http"

	"github.com/mattcarrick/driftline/internal/interfaces"
	"github.com/mattcarrick/driftline/internal/services/model"
)

type assignRequest struct {
	ModelID string `json:"model_id"`
}

// handleAssignmentList handles GET /api/assignments.
func (s *Server) handleAssignmentList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	assignments, err := s.models.ListAssignments(r.Context(), requestUserID(r))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list assignments")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"assignments": assignments})
}

// handleAssignmentPut handles PUT /api/assignments/{broker}. Re-assigning a
// broker replaces its previous model binding.
func (s *Server) handleAssignmentPut(w http.ResponseWriter, r *http.Request, brokerID string) {
	var req assignRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.ModelID == "" {
		WriteError(w, http.StatusBadRequest, "model_id is required")
		return
	}

	assignment, err := s.models.AssignModel(r.Context(), requestUserID(r), brokerID, req.ModelID)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrNotFound):
			WriteError(w, http.StatusNotFound, "Model not found")
		case errors.Is(err, model.ErrScopeConflict):
			WriteError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error().Err(err).Str("broker", brokerID).Msg("Failed to assign model")
			WriteError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	WriteJSON(w, http.StatusOK, assignment)
}

// handleAssignmentDelete handles DELETE /api/assignments/{broker}.
func (s *Server) handleAssignmentDelete(w http.ResponseWriter, r *http.Request, brokerID string) {
	if err := s.models.UnassignModel(r.Context(), requestUserID(r), brokerID); err != nil {
		s.logger.Error().Err(err).Str("broker", brokerID).Msg("Failed to unassign model")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
