package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/mattcarrick/driftline/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Accounts
	mux.HandleFunc("/api/accounts", s.handleAccountList)

	// Models
	mux.HandleFunc("/api/models/", s.routeModels)
	mux.HandleFunc("/api/models", s.handleModels)

	// Assignments
	mux.HandleFunc("/api/assignments/", s.routeAssignments)
	mux.HandleFunc("/api/assignments", s.handleAssignmentList)

	// Rebalance
	mux.HandleFunc("/api/rebalance/", s.routeRebalance)
}

// routeModels dispatches /api/models/{id} to the appropriate handler.
func (s *Server) routeModels(w http.ResponseWriter, r *http.Request) {
	modelID := strings.TrimPrefix(r.URL.Path, "/api/models/")
	if modelID == "" || strings.Contains(modelID, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleModelGet(w, r, modelID)
	case http.MethodPut:
		s.handleModelUpdate(w, r, modelID)
	case http.MethodDelete:
		s.handleModelDelete(w, r, modelID)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// routeAssignments dispatches /api/assignments/{broker} to the appropriate handler.
func (s *Server) routeAssignments(w http.ResponseWriter, r *http.Request) {
	brokerID := strings.TrimPrefix(r.URL.Path, "/api/assignments/")
	if brokerID == "" || strings.Contains(brokerID, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handleAssignmentPut(w, r, brokerID)
	case http.MethodDelete:
		s.handleAssignmentDelete(w, r, brokerID)
	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// routeRebalance dispatches /api/rebalance/{broker} and
// /api/rebalance/{broker}/chart.
func (s *Server) routeRebalance(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/rebalance/")
	if path == "" {
		WriteError(w, http.StatusBadRequest, "broker is required in path")
		return
	}

	if brokerID, ok := strings.CutSuffix(path, "/chart"); ok && brokerID != "" {
		s.handleRebalanceChart(w, r, brokerID)
		return
	}
	if strings.Contains(path, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleRebalanceReview(w, r, path)
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// handleAccountList handles GET /api/accounts.
func (s *Server) handleAccountList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	accounts, err := s.brokerage.ListAccounts(r.Context(), requestUserID(r))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list brokerage accounts")
		WriteError(w, http.StatusBadGateway, "Failed to list brokerage accounts")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"accounts": accounts})
}
