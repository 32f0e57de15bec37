package engine

import (
	"github.com/mattcarrick/driftline/internal/common"
	"github.com/mattcarrick/driftline/internal/models"
)

// BuildReport joins every real position against the action list by resolved
// symbol and returns display-ready rows. A position with no action still
// gets a row with a neutral "none" badge and a 0% target: below-threshold
// drift is omitted from the action list but must never disappear from the
// report. Targeted symbols with no position are appended after the held
// rows so the model side of the join is visible too.
func BuildReport(snapshot *models.HoldingsSnapshot, targets []models.ModelAsset, actions []models.Action) []models.ReportRow {
	currency := "USD"
	var reals *RealAllocations
	if snapshot != nil {
		currency = snapshot.Currency()
	}
	reals = ComputeRealAllocations(snapshot)

	actionBySymbol := make(map[string]models.ActionKind, len(actions))
	for _, a := range actions {
		actionBySymbol[a.Symbol] = a.Kind
	}
	targetBySymbol := make(map[string]float64, len(targets))
	for _, t := range targets {
		targetBySymbol[t.Symbol] = t.TargetPercentage
	}

	rows := []models.ReportRow{}
	held := make(map[string]bool)
	if snapshot != nil {
		for _, pos := range snapshot.Positions {
			symbol := Resolve(pos.Symbol)
			held[symbol] = true

			kind := models.ActionNone
			if k, ok := actionBySymbol[symbol]; ok {
				kind = k
			}
			value, _ := PositionValue(pos).Float64()
			rows = append(rows, models.ReportRow{
				Symbol:           symbol,
				Units:            common.FormatUnits(pos.Units),
				Price:            common.FormatMoney(pos.Price, currency),
				Value:            common.FormatMoney(value, currency),
				TargetPercentage: common.FormatPercent(targetBySymbol[symbol]),
				RealPercentage:   common.FormatPercent(reals.Percentage(symbol)),
				ActionKind:       kind,
			})
		}
	}

	// Model-side leftovers: targeted but not held.
	for _, t := range targets {
		if held[t.Symbol] {
			continue
		}
		kind := models.ActionNone
		if k, ok := actionBySymbol[t.Symbol]; ok {
			kind = k
		}
		rows = append(rows, models.ReportRow{
			Symbol:           t.Symbol,
			Units:            "0",
			Price:            common.FormatMoney(0, currency),
			Value:            common.FormatMoney(0, currency),
			TargetPercentage: common.FormatPercent(t.TargetPercentage),
			RealPercentage:   common.FormatPercent(0),
			ActionKind:       kind,
		})
	}

	return rows
}
