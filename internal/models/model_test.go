package models

import (
	"encoding/json"
	"testing"
)

func TestModelEnvelopeConversion(t *testing.T) {
	raw := `{
		"id": "m1",
		"name": "Balanced",
		"is_global": true,
		"model_data": {
			"assets": [
				{"symbol": "AAPL", "target_percentage": 60},
				{"symbol": "MSFT", "target_percentage": 40}
			]
		}
	}`

	var envelope ModelEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		t.Fatal(err)
	}

	m := envelope.Model()
	if m.ID != "m1" || m.Name != "Balanced" || !m.IsGlobal {
		t.Errorf("unexpected model header: %+v", m)
	}
	if len(m.Assets) != 2 {
		t.Fatalf("assets = %d, want 2", len(m.Assets))
	}

	targets := m.TargetMap()
	if targets["AAPL"] != 60 || targets["MSFT"] != 40 {
		t.Errorf("unexpected target map: %v", targets)
	}
}

func TestAssignmentKey(t *testing.T) {
	a := &Assignment{UserID: "user-1", BrokerID: "broker-9"}
	if got := a.Key(); got != "user-1_broker-9" {
		t.Errorf("Key() = %q, want user-1_broker-9", got)
	}
}

func TestSnapshotCurrencyDefault(t *testing.T) {
	s := &HoldingsSnapshot{}
	if got := s.Currency(); got != "USD" {
		t.Errorf("Currency() = %q, want USD", got)
	}

	s.TotalValue = &TotalValue{Value: 100, Currency: "AUD"}
	if got := s.Currency(); got != "AUD" {
		t.Errorf("Currency() = %q, want AUD", got)
	}
}
