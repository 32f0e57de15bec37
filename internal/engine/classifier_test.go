package engine

import (
	"reflect"
	"testing"

	"github.com/mattcarrick/driftline/internal/models"
)

func assets(pairs ...interface{}) []models.ModelAsset {
	var out []models.ModelAsset
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, models.ModelAsset{
			Symbol:           pairs[i].(string),
			TargetPercentage: pairs[i+1].(float64),
		})
	}
	return out
}

// Scenario A: drift of 5 points on both sides of a 60/40 model.
func TestClassifyScenarioA(t *testing.T) {
	targets := assets("AAPL", 60.0, "MSFT", 40.0)
	reals := ComputeRealAllocations(snapshot(1000, pos("AAPL", 10, 65), pos("MSFT", 10, 35)))

	actions := Classify(targets, reals, DefaultThreshold)
	if len(actions) != 2 {
		t.Fatalf("got %d actions, want 2: %+v", len(actions), actions)
	}

	if actions[0].Symbol != "AAPL" || actions[0].Kind != models.ActionSell {
		t.Errorf("first action = %+v, want AAPL SELL", actions[0])
	}
	if !almostEqual(actions[0].Magnitude, 5) {
		t.Errorf("AAPL magnitude = %v, want 5", actions[0].Magnitude)
	}
	if actions[1].Symbol != "MSFT" || actions[1].Kind != models.ActionBuy {
		t.Errorf("second action = %+v, want MSFT BUY", actions[1])
	}
	if !almostEqual(actions[1].Magnitude, 5) {
		t.Errorf("MSFT magnitude = %v, want 5", actions[1].Magnitude)
	}
}

// Scenario B: drift under the threshold is suppressed entirely.
func TestClassifyScenarioB(t *testing.T) {
	targets := assets("AAPL", 50.0, "MSFT", 50.0)
	reals := ComputeRealAllocations(snapshot(1000, pos("AAPL", 10, 50.3), pos("MSFT", 10, 49.7)))

	actions := Classify(targets, reals, DefaultThreshold)
	if len(actions) != 0 {
		t.Fatalf("got %d actions, want 0: %+v", len(actions), actions)
	}
}

// Scenario C: an untargeted holding above the threshold is always a
// full-liquidation SELL.
func TestClassifyScenarioC(t *testing.T) {
	targets := assets("AAPL", 100.0)
	reals := ComputeRealAllocations(snapshot(1000, pos("AAPL", 10, 80), pos("TSLA", 10, 20)))

	actions := Classify(targets, reals, DefaultThreshold)
	if len(actions) != 2 {
		t.Fatalf("got %d actions, want 2: %+v", len(actions), actions)
	}

	if actions[0].Symbol != "AAPL" || actions[0].Kind != models.ActionBuy || !almostEqual(actions[0].Magnitude, 20) {
		t.Errorf("first action = %+v, want AAPL BUY magnitude 20", actions[0])
	}

	tsla := actions[1]
	if tsla.Symbol != "TSLA" || tsla.Kind != models.ActionSell {
		t.Fatalf("second action = %+v, want TSLA SELL", tsla)
	}
	if tsla.TargetPercentage != 0 {
		t.Errorf("TSLA target = %v, want 0", tsla.TargetPercentage)
	}
	if !almostEqual(tsla.Magnitude, tsla.RealPercentage) {
		t.Errorf("TSLA magnitude = %v, want real percentage %v", tsla.Magnitude, tsla.RealPercentage)
	}
	if !almostEqual(tsla.Difference, -tsla.RealPercentage) {
		t.Errorf("TSLA difference = %v, want %v", tsla.Difference, -tsla.RealPercentage)
	}
}

func TestClassifyEmptyInputs(t *testing.T) {
	targets := assets("AAPL", 100.0)
	reals := ComputeRealAllocations(snapshot(1000, pos("AAPL", 10, 100)))

	if got := Classify(nil, reals, DefaultThreshold); len(got) != 0 {
		t.Errorf("empty targets: got %d actions, want 0", len(got))
	}
	if got := Classify(targets, nil, DefaultThreshold); len(got) != 0 {
		t.Errorf("nil reals: got %d actions, want 0", len(got))
	}
	empty := ComputeRealAllocations(snapshot(1000))
	if got := Classify(targets, empty, DefaultThreshold); len(got) != 0 {
		t.Errorf("empty reals: got %d actions, want 0", len(got))
	}
}

// Output order is model order for targets, then snapshot order for the
// untargeted remainder. Never sorted by magnitude.
func TestClassifyOrdering(t *testing.T) {
	targets := assets("MSFT", 30.0, "AAPL", 50.0)
	reals := ComputeRealAllocations(snapshot(1000,
		pos("TSLA", 1, 100), // 10%, untargeted
		pos("AAPL", 1, 200), // 20%, drift 30
		pos("NVDA", 1, 50),  // 5%, untargeted
		pos("MSFT", 1, 100), // 10%, drift 20
	))

	actions := Classify(targets, reals, DefaultThreshold)
	var order []string
	for _, a := range actions {
		order = append(order, a.Symbol)
	}
	want := []string{"MSFT", "AAPL", "TSLA", "NVDA"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestClassifyUntargetedBelowThresholdSuppressed(t *testing.T) {
	targets := assets("AAPL", 100.0)
	reals := ComputeRealAllocations(snapshot(10000,
		pos("AAPL", 1, 9950), // 99.5%
		pos("DUST", 1, 50),   // 0.5%, below threshold
	))

	actions := Classify(targets, reals, DefaultThreshold)
	for _, a := range actions {
		if a.Symbol == "DUST" {
			t.Fatalf("sub-threshold untargeted holding emitted: %+v", a)
		}
	}
}

func TestClassifyIdempotent(t *testing.T) {
	targets := assets("AAPL", 60.0, "MSFT", 40.0)
	reals := ComputeRealAllocations(snapshot(1000, pos("AAPL", 10, 70), pos("MSFT", 10, 30)))

	first := Classify(targets, reals, DefaultThreshold)
	second := Classify(targets, reals, DefaultThreshold)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("classify is not order-stable:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestClassifyCustomThreshold(t *testing.T) {
	targets := assets("AAPL", 60.0, "MSFT", 40.0)
	reals := ComputeRealAllocations(snapshot(1000, pos("AAPL", 10, 63), pos("MSFT", 10, 37)))

	// Drift of 3 points: visible at threshold 2, suppressed at threshold 5.
	if got := Classify(targets, reals, 2.0); len(got) != 2 {
		t.Errorf("threshold 2: got %d actions, want 2", len(got))
	}
	if got := Classify(targets, reals, 5.0); len(got) != 0 {
		t.Errorf("threshold 5: got %d actions, want 0", len(got))
	}
}
