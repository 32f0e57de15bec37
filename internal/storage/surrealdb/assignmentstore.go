package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/mattcarrick/driftline/internal/common"
	"github.com/mattcarrick/driftline/internal/interfaces"
	"github.com/mattcarrick/driftline/internal/models"
)

// AssignmentStore persists model-to-broker assignments in the "assignment"
// table. The record ID is the composite (user_id, broker_id) key, so a
// single UPSERT atomically replaces any previous assignment — there is no
// delete-then-insert window where a broker briefly has no or two models.
type AssignmentStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewAssignmentStore(db *surrealdb.DB, logger *common.Logger) *AssignmentStore {
	return &AssignmentStore{
		db:     db,
		logger: logger,
	}
}

func (s *AssignmentStore) Upsert(ctx context.Context, assignment *models.Assignment) error {
	assignment.UpdatedAt = time.Now().UTC()

	rid := surrealmodels.NewRecordID("assignment", assignment.Key())
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    rid,
		"record": assignment,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Assignment](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to upsert assignment after retries: %w", lastErr)
}

func (s *AssignmentStore) Get(ctx context.Context, userID, brokerID string) (*models.Assignment, error) {
	key := (&models.Assignment{UserID: userID, BrokerID: brokerID}).Key()
	record, err := surrealdb.Select[models.Assignment](ctx, s.db, surrealmodels.NewRecordID("assignment", key))
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select assignment: %w", err)
	}
	if record == nil || record.ModelID == "" {
		return nil, interfaces.ErrNotFound
	}
	return record, nil
}

func (s *AssignmentStore) List(ctx context.Context, userID string) ([]*models.Assignment, error) {
	sql := "SELECT * FROM assignment WHERE user_id = $user_id ORDER BY broker_id ASC"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.Assignment](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	var out []*models.Assignment
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			out = append(out, &(*results)[0].Result[i])
		}
	}
	return out, nil
}

func (s *AssignmentStore) Delete(ctx context.Context, userID, brokerID string) error {
	key := (&models.Assignment{UserID: userID, BrokerID: brokerID}).Key()
	_, err := surrealdb.Delete[models.Assignment](ctx, s.db, surrealmodels.NewRecordID("assignment", key))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	return nil
}

// DeleteByModel removes every assignment of a user that points at a model.
// Called when the model itself is deleted.
func (s *AssignmentStore) DeleteByModel(ctx context.Context, userID, modelID string) (int, error) {
	sql := "DELETE assignment WHERE user_id = $user_id AND model_id = $model_id RETURN BEFORE"
	vars := map[string]any{"user_id": userID, "model_id": modelID}

	results, err := surrealdb.Query[[]models.Assignment](ctx, s.db, sql, vars)
	if err != nil {
		return 0, fmt.Errorf("failed to delete assignments by model: %w", err)
	}

	count := 0
	if results != nil && len(*results) > 0 {
		count = len((*results)[0].Result)
	}
	return count, nil
}

// Compile-time check
var _ interfaces.AssignmentStore = (*AssignmentStore)(nil)
