package rebalance

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mattcarrick/driftline/internal/models"
)

// ErrNoDrift means every holding is within the threshold and there is
// nothing to chart.
var ErrNoDrift = errors.New("no drift to chart")

// RenderDriftChart renders a PNG bar chart of drift magnitude per actionable
// symbol. Green bars are underweight holdings to buy, red bars are overweight
// holdings to sell. Returns raw PNG bytes.
func RenderDriftChart(review *models.RebalanceReview) ([]byte, error) {
	if review == nil || len(review.Actions) == 0 {
		return nil, ErrNoDrift
	}

	buyStyle := chart.Style{
		FillColor:   drawing.ColorFromHex("16a34a"), // green-600
		StrokeColor: drawing.ColorFromHex("16a34a"),
		StrokeWidth: 0,
	}
	sellStyle := chart.Style{
		FillColor:   drawing.ColorFromHex("dc2626"), // red-600
		StrokeColor: drawing.ColorFromHex("dc2626"),
		StrokeWidth: 0,
	}

	bars := make([]chart.Value, len(review.Actions))
	for i, a := range review.Actions {
		style := buyStyle
		if a.Kind == models.ActionSell {
			style = sellStyle
		}
		bars[i] = chart.Value{
			Label: a.Symbol,
			Value: a.Magnitude,
			Style: style,
		}
	}

	title := "Allocation Drift"
	if review.ModelName != "" {
		title = fmt.Sprintf("Allocation Drift vs %s", review.ModelName)
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    900,
		Height:   400,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f%%", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
