package engine

import (
	"github.com/shopspring/decimal"

	"github.com/mattcarrick/driftline/internal/models"
)

// RealAllocations holds each symbol's share of portfolio value for one
// snapshot, preserving the order symbols first appeared in the position
// list. The classifier relies on that order for untargeted holdings.
type RealAllocations struct {
	order  []string
	pct    map[string]float64
	values map[string]decimal.Decimal
}

// Percentage returns a symbol's real share of portfolio value, or 0 when
// the symbol is not held.
func (r *RealAllocations) Percentage(symbol string) float64 {
	return r.pct[symbol]
}

// Has reports whether the symbol appears in the snapshot.
func (r *RealAllocations) Has(symbol string) bool {
	_, ok := r.pct[symbol]
	return ok
}

// Value returns the aggregated monetary value held in a symbol.
func (r *RealAllocations) Value(symbol string) decimal.Decimal {
	return r.values[symbol]
}

// Symbols returns resolved symbols in snapshot order.
func (r *RealAllocations) Symbols() []string {
	return r.order
}

// Map returns symbol → real percentage.
func (r *RealAllocations) Map() map[string]float64 {
	out := make(map[string]float64, len(r.pct))
	for k, v := range r.pct {
		out[k] = v
	}
	return out
}

// Len returns the number of distinct resolved symbols.
func (r *RealAllocations) Len() int {
	return len(r.order)
}

// PositionValue computes a position's monetary value as price × units,
// or zero when either is missing.
func PositionValue(p models.Position) decimal.Decimal {
	if p.Price == 0 || p.Units == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(p.Price).Mul(decimal.NewFromFloat(p.Units))
}

// ComputeRealAllocations computes each held symbol's real share of total
// portfolio value. The total comes from the broker-reported valuation when
// present and positive; otherwise every percentage degrades to 0 rather
// than blocking the caller. Split lots of the same resolved symbol are
// summed before dividing so a symbol's share is never fragmented.
func ComputeRealAllocations(snapshot *models.HoldingsSnapshot) *RealAllocations {
	r := &RealAllocations{
		pct:    make(map[string]float64),
		values: make(map[string]decimal.Decimal),
	}
	if snapshot == nil {
		return r
	}

	total := decimal.Zero
	if tv := snapshot.TotalValue; tv != nil && tv.Value > 0 {
		total = decimal.NewFromFloat(tv.Value)
	}

	for _, pos := range snapshot.Positions {
		symbol := Resolve(pos.Symbol)
		if _, seen := r.values[symbol]; !seen {
			r.order = append(r.order, symbol)
		}
		r.values[symbol] = r.values[symbol].Add(PositionValue(pos))
	}

	hundred := decimal.NewFromInt(100)
	for _, symbol := range r.order {
		value := r.values[symbol]
		if total.IsPositive() && value.IsPositive() {
			r.pct[symbol], _ = value.Div(total).Mul(hundred).Float64()
		} else {
			r.pct[symbol] = 0
		}
	}

	return r
}
