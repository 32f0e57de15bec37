package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattcarrick/driftline/internal/common"
	"github.com/mattcarrick/driftline/internal/engine"
	"github.com/mattcarrick/driftline/internal/models"
)

// newReportCmd creates the report command
func newReportCmd() *cobra.Command {
	var (
		modelPath    string
		holdingsPath string
		asJSON       bool
		threshold    float64
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run a drift report against local model and holdings files",
		Long: `Run the drift engine offline: load a target allocation model and a
holdings snapshot from JSON files and print the rebalancing report.
Example: driftline report --model model.json --holdings holdings.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, modelPath, holdingsPath, asJSON, threshold)
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "Path to the target allocation model JSON file")
	cmd.Flags().StringVar(&holdingsPath, "holdings", "", "Path to the holdings snapshot JSON file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the full review as JSON instead of a table")
	cmd.Flags().Float64Var(&threshold, "threshold", engine.DefaultThreshold, "Drift threshold in percentage points")
	cmd.MarkFlagRequired("model")
	cmd.MarkFlagRequired("holdings")

	return cmd
}

// loadModel reads a model file, accepting both the dashboard envelope
// (assets nested under model_data) and the flat API shape.
func loadModel(path string) (*models.Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var envelope models.ModelEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("invalid model file: %w", err)
	}
	if len(envelope.ModelData.Assets) > 0 {
		return envelope.Model(), nil
	}

	var flat models.Model
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("invalid model file: %w", err)
	}
	return &flat, nil
}

func loadHoldings(path string) (*models.HoldingsSnapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holdings file: %w", err)
	}

	var snapshot models.HoldingsSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("invalid holdings file: %w", err)
	}
	return &snapshot, nil
}

func runReport(cmd *cobra.Command, modelPath, holdingsPath string, asJSON bool, threshold float64) error {
	model, err := loadModel(modelPath)
	if err != nil {
		return err
	}
	if err := engine.ValidateAssets(model.Assets); err != nil {
		return err
	}

	snapshot, err := loadHoldings(holdingsPath)
	if err != nil {
		return err
	}

	reals := engine.ComputeRealAllocations(snapshot)
	actions := engine.Classify(model.Assets, reals, threshold)
	rows := engine.BuildReport(snapshot, model.Assets, actions)

	review := &models.RebalanceReview{
		ModelID:     model.ID,
		ModelName:   model.Name,
		Currency:    snapshot.Currency(),
		Threshold:   threshold,
		Actions:     actions,
		Rows:        rows,
		GeneratedAt: time.Now().UTC(),
	}
	if snapshot.TotalValue != nil {
		review.TotalValue = snapshot.TotalValue.Value
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(review)
	}

	printReport(cmd, review)
	return nil
}

func printReport(cmd *cobra.Command, review *models.RebalanceReview) {
	out := cmd.OutOrStdout()

	if review.ModelName != "" {
		fmt.Fprintf(out, "Model: %s\n", review.ModelName)
	}
	fmt.Fprintf(out, "Total: %s (%s)\n\n", common.FormatMoney(review.TotalValue, review.Currency), review.Currency)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tUNITS\tPRICE\tVALUE\tTARGET\tREAL\tACTION")
	for _, row := range review.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Symbol, row.Units, row.Price, row.Value,
			row.TargetPercentage, row.RealPercentage, actionBadge(row.ActionKind))
	}
	w.Flush()

	if len(review.Actions) == 0 {
		fmt.Fprintf(out, "\nAll holdings are within %.1f%% of target.\n", review.Threshold)
		return
	}

	fmt.Fprintf(out, "\nActions (threshold %.1f%%):\n", review.Threshold)
	for _, a := range review.Actions {
		fmt.Fprintf(out, "  %s %s %.1f%% (target %.1f%%, real %.1f%%)\n",
			strings.ToUpper(string(a.Kind)), a.Symbol, a.Magnitude,
			a.TargetPercentage, a.RealPercentage)
	}
}

func actionBadge(kind models.ActionKind) string {
	if kind == models.ActionNone {
		return "-"
	}
	return strings.ToUpper(string(kind))
}
