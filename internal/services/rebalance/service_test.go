package rebalance

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/mattcarrick/driftline/internal/common"
	"github.com/mattcarrick/driftline/internal/interfaces"
	"github.com/mattcarrick/driftline/internal/models"
)

type stubModelStore struct {
	byID map[string]*models.Model
}

func (s *stubModelStore) Save(ctx context.Context, userID string, model *models.Model) error {
	s.byID[model.ID] = model
	return nil
}

func (s *stubModelStore) Get(ctx context.Context, userID, modelID string) (*models.Model, error) {
	if m, ok := s.byID[modelID]; ok {
		return m, nil
	}
	return nil, interfaces.ErrNotFound
}

func (s *stubModelStore) List(ctx context.Context, userID string) ([]*models.Model, error) {
	out := make([]*models.Model, 0, len(s.byID))
	for _, m := range s.byID {
		out = append(out, m)
	}
	return out, nil
}

func (s *stubModelStore) Delete(ctx context.Context, userID, modelID string) error {
	delete(s.byID, modelID)
	return nil
}

type stubAssignmentStore struct {
	byBroker map[string]*models.Assignment
	getErr   error
}

func (s *stubAssignmentStore) Upsert(ctx context.Context, assignment *models.Assignment) error {
	s.byBroker[assignment.BrokerID] = assignment
	return nil
}

func (s *stubAssignmentStore) Get(ctx context.Context, userID, brokerID string) (*models.Assignment, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if a, ok := s.byBroker[brokerID]; ok {
		return a, nil
	}
	return nil, interfaces.ErrNotFound
}

func (s *stubAssignmentStore) List(ctx context.Context, userID string) ([]*models.Assignment, error) {
	out := make([]*models.Assignment, 0, len(s.byBroker))
	for _, a := range s.byBroker {
		out = append(out, a)
	}
	return out, nil
}

func (s *stubAssignmentStore) Delete(ctx context.Context, userID, brokerID string) error {
	delete(s.byBroker, brokerID)
	return nil
}

func (s *stubAssignmentStore) DeleteByModel(ctx context.Context, userID, modelID string) (int, error) {
	count := 0
	for broker, a := range s.byBroker {
		if a.ModelID == modelID {
			delete(s.byBroker, broker)
			count++
		}
	}
	return count, nil
}

type stubStorage struct {
	models      *stubModelStore
	assignments *stubAssignmentStore
}

func newStubStorage() *stubStorage {
	return &stubStorage{
		models:      &stubModelStore{byID: make(map[string]*models.Model)},
		assignments: &stubAssignmentStore{byBroker: make(map[string]*models.Assignment)},
	}
}

func (s *stubStorage) ModelStore() interfaces.ModelStore           { return s.models }
func (s *stubStorage) AssignmentStore() interfaces.AssignmentStore { return s.assignments }
func (s *stubStorage) Close() error                                { return nil }

type stubBroker struct {
	snapshot *models.HoldingsSnapshot
	err      error
}

func (b *stubBroker) ListAccounts(ctx context.Context, userID string) ([]*interfaces.BrokerAccount, error) {
	return nil, nil
}

func (b *stubBroker) GetHoldings(ctx context.Context, userID, accountID string) (*models.HoldingsSnapshot, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.snapshot, nil
}

func snap(total float64, positions ...models.Position) *models.HoldingsSnapshot {
	return &models.HoldingsSnapshot{
		Positions:  positions,
		TotalValue: &models.TotalValue{Value: total, Currency: "USD"},
	}
}

func pos(symbol string, units, price float64) models.Position {
	return models.Position{Symbol: models.PlainSymbol(symbol), Units: units, Price: price}
}

func driftedFixture() (*stubStorage, *stubBroker) {
	storage := newStubStorage()
	storage.models.byID["m1"] = &models.Model{
		ID:       "m1",
		Name:     "Balanced",
		IsGlobal: true,
		Assets: []models.ModelAsset{
			{Symbol: "AAPL", TargetPercentage: 60},
			{Symbol: "MSFT", TargetPercentage: 40},
		},
	}
	storage.assignments.byBroker["broker-1"] = &models.Assignment{
		UserID:   "user-1",
		BrokerID: "broker-1",
		ModelID:  "m1",
	}
	broker := &stubBroker{
		// AAPL 50%, MSFT 50% against a 60/40 model: both drift by 10.
		snapshot: snap(1000, pos("AAPL", 5, 100), pos("MSFT", 10, 50)),
	}
	return storage, broker
}

func TestReviewWithAssignedModel(t *testing.T) {
	storage, broker := driftedFixture()
	svc := NewService(storage, broker, 1.0, common.NewSilentLogger())

	review, err := svc.Review(context.Background(), "user-1", "broker-1")
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}

	if review.ModelID != "m1" || review.ModelName != "Balanced" {
		t.Errorf("review model = %s/%s, want m1/Balanced", review.ModelID, review.ModelName)
	}
	if review.BrokerID != "broker-1" {
		t.Errorf("review broker = %s, want broker-1", review.BrokerID)
	}
	if review.TotalValue != 1000 || review.Currency != "USD" {
		t.Errorf("review total = %v %s, want 1000 USD", review.TotalValue, review.Currency)
	}
	if len(review.Actions) != 2 {
		t.Fatalf("actions = %d, want 2", len(review.Actions))
	}
	if review.Actions[0].Symbol != "AAPL" || review.Actions[0].Kind != models.ActionBuy {
		t.Errorf("first action = %s %s, want AAPL buy", review.Actions[0].Symbol, review.Actions[0].Kind)
	}
	if review.Actions[1].Symbol != "MSFT" || review.Actions[1].Kind != models.ActionSell {
		t.Errorf("second action = %s %s, want MSFT sell", review.Actions[1].Symbol, review.Actions[1].Kind)
	}
	if len(review.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(review.Rows))
	}
}

func TestReviewUnassignedBroker(t *testing.T) {
	storage := newStubStorage()
	broker := &stubBroker{snapshot: snap(1000, pos("AAPL", 5, 100))}
	svc := NewService(storage, broker, 1.0, common.NewSilentLogger())

	review, err := svc.Review(context.Background(), "user-1", "broker-1")
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if review.ModelID != "" {
		t.Errorf("review model = %s, want empty", review.ModelID)
	}
	if len(review.Actions) != 0 {
		t.Errorf("actions = %d, want 0 without a model", len(review.Actions))
	}
	if len(review.Rows) != 1 {
		t.Errorf("rows = %d, want 1, holdings still reported", len(review.Rows))
	}
}

func TestReviewStaleAssignment(t *testing.T) {
	storage, broker := driftedFixture()
	delete(storage.models.byID, "m1")
	svc := NewService(storage, broker, 1.0, common.NewSilentLogger())

	review, err := svc.Review(context.Background(), "user-1", "broker-1")
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if review.ModelID != "" || len(review.Actions) != 0 {
		t.Errorf("stale assignment must degrade to unassigned, got model %q with %d actions",
			review.ModelID, len(review.Actions))
	}
}

func TestReviewAssignmentLookupFailure(t *testing.T) {
	storage, broker := driftedFixture()
	storage.assignments.getErr = errors.New("storage offline")
	svc := NewService(storage, broker, 1.0, common.NewSilentLogger())

	review, err := svc.Review(context.Background(), "user-1", "broker-1")
	if err != nil {
		t.Fatalf("Review() error = %v, lookup failures must not be fatal", err)
	}
	if len(review.Actions) != 0 {
		t.Errorf("actions = %d, want 0 when assignment lookup fails", len(review.Actions))
	}
}

func TestReviewHoldingsFetchFailure(t *testing.T) {
	storage, _ := driftedFixture()
	broker := &stubBroker{err: errors.New("aggregator down")}
	svc := NewService(storage, broker, 1.0, common.NewSilentLogger())

	if _, err := svc.Review(context.Background(), "user-1", "broker-1"); err == nil {
		t.Fatal("Review() must fail when the holdings fetch fails")
	}
}

func TestNewServiceThresholdFallback(t *testing.T) {
	storage, broker := driftedFixture()
	svc := NewService(storage, broker, 0, common.NewSilentLogger())

	review, err := svc.Review(context.Background(), "user-1", "broker-1")
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if review.Threshold != 1.0 {
		t.Errorf("threshold = %v, want default 1.0", review.Threshold)
	}
}

func TestReviewChart(t *testing.T) {
	storage, broker := driftedFixture()
	svc := NewService(storage, broker, 1.0, common.NewSilentLogger())

	png, err := svc.ReviewChart(context.Background(), "user-1", "broker-1")
	if err != nil {
		t.Fatalf("ReviewChart() error = %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("ReviewChart() did not return PNG bytes")
	}
}

func TestReviewChartNoDrift(t *testing.T) {
	storage := newStubStorage()
	broker := &stubBroker{snapshot: snap(1000, pos("AAPL", 5, 100))}
	svc := NewService(storage, broker, 1.0, common.NewSilentLogger())

	if _, err := svc.ReviewChart(context.Background(), "user-1", "broker-1"); !errors.Is(err, ErrNoDrift) {
		t.Errorf("ReviewChart() error = %v, want ErrNoDrift", err)
	}
}
