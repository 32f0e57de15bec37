package engine

import (
	"math"

	"github.com/mattcarrick/driftline/internal/models"
)

// DefaultThreshold is the minimum absolute drift, in percentage points,
// before an action is surfaced.
const DefaultThreshold = 1.0

// Classify merges target and real allocations by symbol and emits a BUY or
// SELL action for every symbol whose drift magnitude meets the threshold.
//
// Targets are processed in model order; drift below the threshold emits
// nothing (the symbol is implicitly HOLD and omitted). Any symbol held but
// not targeted is a full-liquidation SELL when its real share meets the
// threshold. Untargeted holdings follow in snapshot order; there is no
// sorting by magnitude.
//
// An empty target list or an empty snapshot yields an empty action list,
// never an error, so callers can render a "no assets" state.
func Classify(targets []models.ModelAsset, reals *RealAllocations, threshold float64) []models.Action {
	actions := []models.Action{}
	if len(targets) == 0 || reals == nil || reals.Len() == 0 {
		return actions
	}

	targeted := make(map[string]bool, len(targets))
	for _, t := range targets {
		targeted[t.Symbol] = true

		real := reals.Percentage(t.Symbol)
		difference := t.TargetPercentage - real
		magnitude := math.Abs(difference)
		if magnitude < threshold {
			continue
		}

		kind := models.ActionBuy
		if difference < 0 {
			kind = models.ActionSell
		}
		actions = append(actions, models.Action{
			Symbol:           t.Symbol,
			TargetPercentage: t.TargetPercentage,
			RealPercentage:   real,
			Difference:       difference,
			Kind:             kind,
			Magnitude:        magnitude,
		})
	}

	for _, symbol := range reals.Symbols() {
		if targeted[symbol] {
			continue
		}
		real := reals.Percentage(symbol)
		if real < threshold {
			continue
		}
		actions = append(actions, models.Action{
			Symbol:           symbol,
			TargetPercentage: 0,
			RealPercentage:   real,
			Difference:       -real,
			Kind:             models.ActionSell,
			Magnitude:        real,
		})
	}

	return actions
}
