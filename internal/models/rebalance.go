package models

import (
	"time"
)

// ActionKind classifies the direction of a rebalancing action.
type ActionKind string

const (
	ActionBuy  ActionKind = "buy"
	ActionSell ActionKind = "sell"
	// ActionNone marks report rows whose drift stayed below the threshold.
	// The classifier never emits it; only the report builder does.
	ActionNone ActionKind = "none"
)

// Action is one rebalancing signal for a symbol whose drift met the
// materiality threshold. Difference is target minus real, so a positive
// difference means the holding is underweight.
type Action struct {
	Symbol           string     `json:"symbol"`
	TargetPercentage float64    `json:"target_percentage"`
	RealPercentage   float64    `json:"real_percentage"`
	Difference       float64    `json:"difference"`
	Kind             ActionKind `json:"kind"`
	Magnitude        float64    `json:"magnitude"`
}

// ReportRow is the display-ready view of one portfolio line. All numeric
// fields are pre-formatted strings; the rendering layer prints them as-is.
type ReportRow struct {
	Symbol           string     `json:"symbol"`
	Units            string     `json:"units"`
	Price            string     `json:"price"`
	Value            string     `json:"value"`
	TargetPercentage string     `json:"target_percentage"`
	RealPercentage   string     `json:"real_percentage"`
	ActionKind       ActionKind `json:"action_kind"`
}

// RebalanceReview is the full engine output for one broker account.
type RebalanceReview struct {
	BrokerID    string      `json:"broker_id"`
	ModelID     string      `json:"model_id,omitempty"`
	ModelName   string      `json:"model_name,omitempty"`
	TotalValue  float64     `json:"total_value"`
	Currency    string      `json:"currency"`
	Threshold   float64     `json:"threshold"`
	Actions     []Action    `json:"actions"`
	Rows        []ReportRow `json:"rows"`
	GeneratedAt time.Time   `json:"generated_at"`
}
