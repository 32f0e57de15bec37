package interfaces

import (
	"context"

	"github.com/mattcarrick/driftline/internal/models"
)

// ModelService gates model and assignment writes behind validation.
type ModelService interface {
	// CreateModel validates and persists a new model.
	CreateModel(ctx context.Context, userID string, model *models.Model) (*models.Model, error)

	// UpdateModel validates and replaces an existing model.
	UpdateModel(ctx context.Context, userID string, model *models.Model) (*models.Model, error)

	// GetModel retrieves one model.
	GetModel(ctx context.Context, userID, modelID string) (*models.Model, error)

	// ListModels retrieves all of a user's models.
	ListModels(ctx context.Context, userID string) ([]*models.Model, error)

	// DeleteModel removes a model and any assignments pointing at it.
	DeleteModel(ctx context.Context, userID, modelID string) error

	// AssignModel binds a model to a broker, replacing any previous binding.
	AssignModel(ctx context.Context, userID, brokerID, modelID string) (*models.Assignment, error)

	// ListAssignments retrieves all of a user's assignments.
	ListAssignments(ctx context.Context, userID string) ([]*models.Assignment, error)

	// UnassignModel removes the binding for a broker.
	UnassignModel(ctx context.Context, userID, brokerID string) error
}

// RebalanceService computes drift reviews for broker accounts.
type RebalanceService interface {
	// Review fetches fresh holdings and the assigned model for a broker
	// account, then runs the drift engine. A missing assignment means
	// "no model selected": the review carries rows but no actions.
	Review(ctx context.Context, userID, brokerID string) (*models.RebalanceReview, error)

	// ReviewChart renders the target-versus-real bar chart for a broker
	// account as PNG bytes.
	ReviewChart(ctx context.Context, userID, brokerID string) ([]byte, error)
}
