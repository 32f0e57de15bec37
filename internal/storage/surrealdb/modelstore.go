package surrealdb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/mattcarrick/driftline/internal/common"
	"github.com/mattcarrick/driftline/internal/interfaces"
	"github.com/mattcarrick/driftline/internal/models"
)

// ModelStore persists target allocation models in the "model" table.
type ModelStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewModelStore(db *surrealdb.DB, logger *common.Logger) *ModelStore {
	return &ModelStore{
		db:     db,
		logger: logger,
	}
}

// modelRecord is the stored shape: the model plus its owning user.
type modelRecord struct {
	UserID string        `json:"user_id"`
	Model  *models.Model `json:"model"`
}

func modelRecordID(userID, modelID string) string {
	return userID + "_" + modelID
}

func (s *ModelStore) Save(ctx context.Context, userID string, model *models.Model) error {
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}
	model.UpdatedAt = time.Now().UTC()

	rid := surrealmodels.NewRecordID("model", modelRecordID(userID, model.ID))
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    rid,
		"record": modelRecord{UserID: userID, Model: model},
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]modelRecord](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save model after retries: %w", lastErr)
}

func (s *ModelStore) Get(ctx context.Context, userID, modelID string) (*models.Model, error) {
	rid := surrealmodels.NewRecordID("model", modelRecordID(userID, modelID))
	record, err := surrealdb.Select[modelRecord](ctx, s.db, rid)
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select model: %w", err)
	}
	if record == nil || record.Model == nil {
		return nil, interfaces.ErrNotFound
	}
	return record.Model, nil
}

func (s *ModelStore) List(ctx context.Context, userID string) ([]*models.Model, error) {
	sql := "SELECT * FROM model WHERE user_id = $user_id"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]modelRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var out []*models.Model
	if results != nil && len(*results) > 0 {
		for _, rec := range (*results)[0].Result {
			if rec.Model != nil {
				out = append(out, rec.Model)
			}
		}
	}

	// Global models first, then alphabetical within each group.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsGlobal != out[j].IsGlobal {
			return out[i].IsGlobal
		}
		return out[i].Name < out[j].Name
	})

	return out, nil
}

func (s *ModelStore) Delete(ctx context.Context, userID, modelID string) error {
	rid := surrealmodels.NewRecordID("model", modelRecordID(userID, modelID))
	_, err := surrealdb.Delete[modelRecord](ctx, s.db, rid)
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete model: %w", err)
	}
	return nil
}

// Compile-time check
var _ interfaces.ModelStore = (*ModelStore)(nil)
