// Package rebalance orchestrates drift reviews for broker accounts.
package rebalance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mattcarrick/driftline/internal/common"
	"github.com/mattcarrick/driftline/internal/engine"
	"github.com/mattcarrick/driftline/internal/interfaces"
	"github.com/mattcarrick/driftline/internal/models"
)

// Service implements RebalanceService
type Service struct {
	storage   interfaces.StorageManager
	client    interfaces.BrokerageClient
	threshold float64
	logger    *common.Logger
}

// NewService creates a new rebalance service. A non-positive threshold
// falls back to the engine default.
func NewService(storage interfaces.StorageManager, client interfaces.BrokerageClient, threshold float64, logger *common.Logger) *Service {
	if threshold <= 0 {
		threshold = engine.DefaultThreshold
	}
	return &Service{
		storage:   storage,
		client:    client,
		threshold: threshold,
		logger:    logger,
	}
}

// assignedModel resolves the model bound to a broker. A missing assignment
// or a stale one pointing at a deleted model both mean "no model selected",
// never an error.
func (s *Service) assignedModel(ctx context.Context, userID, brokerID string) *models.Model {
	assignment, err := s.storage.AssignmentStore().Get(ctx, userID, brokerID)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			s.logger.Warn().Err(err).Str("broker", brokerID).Msg("Assignment lookup failed, treating as unassigned")
		}
		return nil
	}

	model, err := s.storage.ModelStore().Get(ctx, userID, assignment.ModelID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			s.logger.Warn().
				Str("broker", brokerID).
				Str("model", assignment.ModelID).
				Msg("Assignment points at deleted model, treating as unassigned")
		} else {
			s.logger.Warn().Err(err).Str("broker", brokerID).Msg("Model lookup failed, treating as unassigned")
		}
		return nil
	}
	return model
}

// Review fetches fresh holdings and the assigned model, then runs the
// drift engine. The holdings fetch is the only fatal dependency.
func (s *Service) Review(ctx context.Context, userID, brokerID string) (*models.RebalanceReview, error) {
	snapshot, err := s.client.GetHoldings(ctx, userID, brokerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holdings for broker %s: %w", brokerID, err)
	}

	model := s.assignedModel(ctx, userID, brokerID)

	var targets []models.ModelAsset
	review := &models.RebalanceReview{
		BrokerID:    brokerID,
		Currency:    snapshot.Currency(),
		Threshold:   s.threshold,
		GeneratedAt: time.Now().UTC(),
	}
	if model != nil {
		targets = model.Assets
		review.ModelID = model.ID
		review.ModelName = model.Name
	}
	if snapshot.TotalValue != nil {
		review.TotalValue = snapshot.TotalValue.Value
	}

	reals := engine.ComputeRealAllocations(snapshot)
	review.Actions = engine.Classify(targets, reals, s.threshold)
	review.Rows = engine.BuildReport(snapshot, targets, review.Actions)

	s.logger.Debug().
		Str("broker", brokerID).
		Int("positions", len(snapshot.Positions)).
		Int("actions", len(review.Actions)).
		Msg("Rebalance review computed")

	return review, nil
}

// ReviewChart runs a review and renders its drift chart as PNG bytes.
func (s *Service) ReviewChart(ctx context.Context, userID, brokerID string) ([]byte, error) {
	review, err := s.Review(ctx, userID, brokerID)
	if err != nil {
		return nil, err
	}
	return RenderDriftChart(review)
}

// Compile-time check
var _ interfaces.RebalanceService = (*Service)(nil)
