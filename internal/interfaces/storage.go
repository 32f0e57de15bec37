package interfaces

import (
	"context"
	"errors"

	"github.com/mattcarrick/driftline/internal/models"
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ModelStore persists target allocation models.
type ModelStore interface {
	// Save creates or replaces a model.
	Save(ctx context.Context, userID string, model *models.Model) error

	// Get retrieves one model by ID. Returns ErrNotFound when absent.
	Get(ctx context.Context, userID, modelID string) (*models.Model, error)

	// List retrieves all of a user's models, global ones first.
	List(ctx context.Context, userID string) ([]*models.Model, error)

	// Delete removes a model. Deleting an absent model is not an error.
	Delete(ctx context.Context, userID, modelID string) error
}

// AssignmentStore persists model-to-broker assignments. The one-model-per-
// broker invariant is enforced with a single atomic upsert keyed on
// (user_id, broker_id), not delete-then-insert.
type AssignmentStore interface {
	// Upsert atomically creates or replaces the assignment for the
	// assignment's (user, broker) pair.
	Upsert(ctx context.Context, assignment *models.Assignment) error

	// Get retrieves the assignment for a broker. Returns ErrNotFound
	// when no model is assigned.
	Get(ctx context.Context, userID, brokerID string) (*models.Assignment, error)

	// List retrieves all of a user's assignments.
	List(ctx context.Context, userID string) ([]*models.Assignment, error)

	// Delete removes the assignment for a broker.
	Delete(ctx context.Context, userID, brokerID string) error

	// DeleteByModel removes every assignment of a user that points at a
	// model. Returns the number removed.
	DeleteByModel(ctx context.Context, userID, modelID string) (int, error)
}

// StorageManager provides access to all stores.
type StorageManager interface {
	ModelStore() ModelStore
	AssignmentStore() AssignmentStore
	Close() error
}
