package server

import (
	"errors"
	"net/http"

	"github.com/mattcarrick/driftline/internal/clients/brokerlink"
	"github.com/mattcarrick/driftline/internal/services/rebalance"
)

// handleRebalanceReview handles GET /api/rebalance/{broker}.
func (s *Server) handleRebalanceReview(w http.ResponseWriter, r *http.Request, brokerID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	review, err := s.rebalance.Review(r.Context(), requestUserID(r), brokerID)
	if err != nil {
		s.writeRebalanceError(w, brokerID, err)
		return
	}
	WriteJSON(w, http.StatusOK, review)
}

// handleRebalanceChart handles GET /api/rebalance/{broker}/chart.
func (s *Server) handleRebalanceChart(w http.ResponseWriter, r *http.Request, brokerID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	png, err := s.rebalance.ReviewChart(r.Context(), requestUserID(r), brokerID)
	if err != nil {
		if errors.Is(err, rebalance.ErrNoDrift) {
			WriteError(w, http.StatusNotFound, "All holdings are within the drift threshold")
			return
		}
		s.writeRebalanceError(w, brokerID, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// writeRebalanceError maps review failures onto HTTP status codes. Upstream
// aggregator failures surface as 502 with the aggregator's status attached.
func (s *Server) writeRebalanceError(w http.ResponseWriter, brokerID string, err error) {
	var apiErr *brokerlink.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusNotFound {
			WriteError(w, http.StatusNotFound, "Broker account not found")
			return
		}
		s.logger.Error().Err(err).Str("broker", brokerID).Msg("Aggregator request failed")
		WriteError(w, http.StatusBadGateway, "Brokerage aggregator request failed")
		return
	}
	s.logger.Error().Err(err).Str("broker", brokerID).Msg("Rebalance review failed")
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}
