// Package models defines data structures for Driftline
package models

import (
	"time"
)

// Model is a named target allocation. A model is either global (reusable
// across brokers) or bound to a single broker, never both.
type Model struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	IsGlobal  bool         `json:"is_global"`
	BrokerID  string       `json:"broker_id,omitempty"`
	Assets    []ModelAsset `json:"assets"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ModelAsset is one symbol and its declared share of the model.
type ModelAsset struct {
	Symbol           string  `json:"symbol"`
	TargetPercentage float64 `json:"target_percentage"`
}

// TargetMap returns the model's assets keyed by symbol.
func (m *Model) TargetMap() map[string]float64 {
	targets := make(map[string]float64, len(m.Assets))
	for _, a := range m.Assets {
		targets[a.Symbol] = a.TargetPercentage
	}
	return targets
}

// ModelEnvelope is the read contract for a stored model, matching the
// shape persisted by the dashboard: the asset list nests under model_data.
type ModelEnvelope struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsGlobal  bool      `json:"is_global"`
	BrokerID  string    `json:"broker_id,omitempty"`
	ModelData ModelData `json:"model_data"`
}

// ModelData wraps the asset list inside a model envelope.
type ModelData struct {
	Assets []ModelAsset `json:"assets"`
}

// Model converts the envelope to the flat Model used everywhere else.
func (e *ModelEnvelope) Model() *Model {
	return &Model{
		ID:       e.ID,
		Name:     e.Name,
		IsGlobal: e.IsGlobal,
		BrokerID: e.BrokerID,
		Assets:   e.ModelData.Assets,
	}
}
