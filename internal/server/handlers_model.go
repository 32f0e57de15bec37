package server

import (
	"errors"
	"net/http"

	"github.com/mattcarrick/driftline/internal/engine"
	"github.com/mattcarrick/driftline/internal/interfaces"
	"github.com/mattcarrick/driftline/internal/models"
	"github.com/mattcarrick/driftline/internal/services/model"
)

// writeModelError maps model write failures onto HTTP status codes.
// Validation failures are the caller's fault, anything else is ours.
func (s *Server) writeModelError(w http.ResponseWriter, err error) {
	var verr *engine.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteErrorWithCode(w, http.StatusBadRequest, verr.Error(), string(verr.Code))
	case errors.Is(err, model.ErrNameRequired),
		errors.Is(err, model.ErrScopeConflict),
		errors.Is(err, model.ErrDuplicateSymbol):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, interfaces.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Model not found")
	default:
		s.logger.Error().Err(err).Msg("Model operation failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// handleModels handles GET and POST /api/models.
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleModelList(w, r)
	case http.MethodPost:
		s.handleModelCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleModelList(w http.ResponseWriter, r *http.Request) {
	list, err := s.models.ListModels(r.Context(), requestUserID(r))
	if err != nil {
		s.writeModelError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"models": list})
}

func (s *Server) handleModelCreate(w http.ResponseWriter, r *http.Request) {
	var m models.Model
	if !DecodeJSON(w, r, &m) {
		return
	}

	created, err := s.models.CreateModel(r.Context(), requestUserID(r), &m)
	if err != nil {
		s.writeModelError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (s *Server) handleModelGet(w http.ResponseWriter, r *http.Request, modelID string) {
	m, err := s.models.GetModel(r.Context(), requestUserID(r), modelID)
	if err != nil {
		s.writeModelError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, m)
}

func (s *Server) handleModelUpdate(w http.ResponseWriter, r *http.Request, modelID string) {
	var m models.Model
	if !DecodeJSON(w, r, &m) {
		return
	}
	m.ID = modelID

	updated, err := s.models.UpdateModel(r.Context(), requestUserID(r), &m)
	if err != nil {
		s.writeModelError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) handleModelDelete(w http.ResponseWriter, r *http.Request, modelID string) {
	if err := s.models.DeleteModel(r.Context(), requestUserID(r), modelID); err != nil {
		s.writeModelError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
