package surrealdb

import (
	"context"
	"errors"
	"testing"

	"github.com/mattcarrick/driftline/internal/interfaces"
	"github.com/mattcarrick/driftline/internal/models"
)

func sampleModel(id, name string) *models.Model {
	return &models.Model{
		ID:       id,
		Name:     name,
		IsGlobal: true,
		Assets: []models.ModelAsset{
			{Symbol: "AAPL", TargetPercentage: 60},
			{Symbol: "MSFT", TargetPercentage: 40},
		},
	}
}

func TestModelStoreRoundTrip(t *testing.T) {
	m := testManager(t)
	store := m.ModelStore()
	ctx := context.Background()

	model := sampleModel("m-1", "Balanced")
	if err := store.Save(ctx, "user-1", model); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, "user-1", "m-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Balanced" || len(got.Assets) != 2 {
		t.Errorf("got %+v", got)
	}
	if got.Assets[0].Symbol != "AAPL" || got.Assets[0].TargetPercentage != 60 {
		t.Errorf("assets = %+v", got.Assets)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set on save")
	}
}

func TestModelStoreGetMissing(t *testing.T) {
	m := testManager(t)
	_, err := m.ModelStore().Get(context.Background(), "user-1", "nope")
	if !errors.Is(err, interfaces.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestModelStoreSaveReplaces(t *testing.T) {
	m := testManager(t)
	store := m.ModelStore()
	ctx := context.Background()

	if err := store.Save(ctx, "user-1", sampleModel("m-1", "Before")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	updated := sampleModel("m-1", "After")
	updated.Assets = []models.ModelAsset{{Symbol: "VTI", TargetPercentage: 100}}
	if err := store.Save(ctx, "user-1", updated); err != nil {
		t.Fatalf("Save again: %v", err)
	}

	got, err := store.Get(ctx, "user-1", "m-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "After" || len(got.Assets) != 1 {
		t.Errorf("got %+v, want replaced model", got)
	}
}

func TestModelStoreListOrdersGlobalFirst(t *testing.T) {
	m := testManager(t)
	store := m.ModelStore()
	ctx := context.Background()

	bound := sampleModel("m-bound", "Aggressive")
	bound.IsGlobal = false
	bound.BrokerID = "broker-1"

	if err := store.Save(ctx, "user-1", bound); err != nil {
		t.Fatalf("Save bound: %v", err)
	}
	if err := store.Save(ctx, "user-1", sampleModel("m-global", "Balanced")); err != nil {
		t.Fatalf("Save global: %v", err)
	}

	list, err := store.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d models, want 2", len(list))
	}
	if !list[0].IsGlobal || list[1].IsGlobal {
		t.Errorf("global model should sort first: %+v", list)
	}
}

func TestModelStoreListScopedToUser(t *testing.T) {
	m := testManager(t)
	store := m.ModelStore()
	ctx := context.Background()

	if err := store.Save(ctx, "user-1", sampleModel("m-1", "Mine")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, "user-2", sampleModel("m-2", "Theirs")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	list, err := store.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Mine" {
		t.Errorf("list = %+v, want only user-1 models", list)
	}
}

func TestModelStoreDelete(t *testing.T) {
	m := testManager(t)
	store := m.ModelStore()
	ctx := context.Background()

	if err := store.Save(ctx, "user-1", sampleModel("m-1", "Doomed")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, "user-1", "m-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "user-1", "m-1"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}

	// Deleting again is not an error.
	if err := store.Delete(ctx, "user-1", "m-1"); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}
}
