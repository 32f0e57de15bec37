// Package model gates target-allocation model writes behind validation.
package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mattcarrick/driftline/internal/common"
	"github.com/mattcarrick/driftline/internal/engine"
	"github.com/mattcarrick/driftline/internal/interfaces"
	"github.com/mattcarrick/driftline/internal/models"
)

// Write-time validation failures. Recoverable: handlers surface them as
// form errors.
var (
	ErrNameRequired    = errors.New("model name is required")
	ErrScopeConflict   = errors.New("model must be either global or bound to one broker")
	ErrDuplicateSymbol = errors.New("model symbols must be unique")
)

// Service implements ModelService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new model service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// validate enforces the write-time invariants: a name, exactly one scope,
// unique symbols, and percentages that pass the engine validator.
func validate(model *models.Model) error {
	if model.Name == "" {
		return ErrNameRequired
	}
	if model.IsGlobal == (model.BrokerID != "") {
		return ErrScopeConflict
	}
	seen := make(map[string]bool, len(model.Assets))
	for _, a := range model.Assets {
		if seen[a.Symbol] {
			return fmt.Errorf("%w: %s", ErrDuplicateSymbol, a.Symbol)
		}
		seen[a.Symbol] = true
	}
	return engine.ValidateAssets(model.Assets)
}

func (s *Service) CreateModel(ctx context.Context, userID string, model *models.Model) (*models.Model, error) {
	if err := validate(model); err != nil {
		return nil, err
	}
	if model.ID == "" {
		model.ID = uuid.New().String()
	}

	if err := s.storage.ModelStore().Save(ctx, userID, model); err != nil {
		return nil, fmt.Errorf("failed to save model: %w", err)
	}

	s.logger.Info().
		Str("user", userID).
		Str("model", model.ID).
		Str("name", model.Name).
		Int("assets", len(model.Assets)).
		Msg("Model created")

	return model, nil
}

func (s *Service) UpdateModel(ctx context.Context, userID string, model *models.Model) (*models.Model, error) {
	if err := validate(model); err != nil {
		return nil, err
	}

	existing, err := s.storage.ModelStore().Get(ctx, userID, model.ID)
	if err != nil {
		return nil, err
	}
	model.CreatedAt = existing.CreatedAt

	if err := s.storage.ModelStore().Save(ctx, userID, model); err != nil {
		return nil, fmt.Errorf("failed to save model: %w", err)
	}

	s.logger.Info().
		Str("user", userID).
		Str("model", model.ID).
		Msg("Model updated")

	return model, nil
}

func (s *Service) GetModel(ctx context.Context, userID, modelID string) (*models.Model, error) {
	return s.storage.ModelStore().Get(ctx, userID, modelID)
}

func (s *Service) ListModels(ctx context.Context, userID string) ([]*models.Model, error) {
	return s.storage.ModelStore().List(ctx, userID)
}

// DeleteModel removes the model and every assignment pointing at it, so no
// broker is left bound to a model that no longer exists.
func (s *Service) DeleteModel(ctx context.Context, userID, modelID string) error {
	if err := s.storage.ModelStore().Delete(ctx, userID, modelID); err != nil {
		return err
	}
	count, err := s.storage.AssignmentStore().DeleteByModel(ctx, userID, modelID)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info().
			Str("user", userID).
			Str("model", modelID).
			Int("assignments", count).
			Msg("Orphaned assignments removed with model")
	}
	return nil
}

// AssignModel binds a model to a broker with a single atomic upsert,
// replacing any previous binding for the same (user, broker).
func (s *Service) AssignModel(ctx context.Context, userID, brokerID, modelID string) (*models.Assignment, error) {
	model, err := s.storage.ModelStore().Get(ctx, userID, modelID)
	if err != nil {
		return nil, err
	}
	if !model.IsGlobal && model.BrokerID != brokerID {
		return nil, fmt.Errorf("%w: model %s is bound to broker %s", ErrScopeConflict, modelID, model.BrokerID)
	}

	assignment := &models.Assignment{
		UserID:   userID,
		BrokerID: brokerID,
		ModelID:  modelID,
	}
	if err := s.storage.AssignmentStore().Upsert(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to upsert assignment: %w", err)
	}

	s.logger.Info().
		Str("user", userID).
		Str("broker", brokerID).
		Str("model", modelID).
		Msg("Model assigned")

	return assignment, nil
}

func (s *Service) ListAssignments(ctx context.Context, userID string) ([]*models.Assignment, error) {
	return s.storage.AssignmentStore().List(ctx, userID)
}

func (s *Service) UnassignModel(ctx context.Context, userID, brokerID string) error {
	return s.storage.AssignmentStore().Delete(ctx, userID, brokerID)
}

// Compile-time check
var _ interfaces.ModelService = (*Service)(nil)
