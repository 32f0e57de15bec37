package models

import (
	"encoding/json"
)

// Symbol is the raw symbol field of a brokerage position. Aggregators return
// it either as a plain ticker string or as a nested record, so it is decoded
// once at the ingestion boundary into this tagged union and never re-sniffed
// downstream.
type Symbol struct {
	Plain  string
	Nested *NestedSymbol
}

// NestedSymbol is the record shape of a raw symbol.
type NestedSymbol struct {
	Description string          `json:"description,omitempty"`
	Symbol      *SymbolIdentity `json:"symbol,omitempty"`
}

// SymbolIdentity is the inner identity block of a nested symbol.
type SymbolIdentity struct {
	Description string `json:"description,omitempty"`
	Symbol      string `json:"symbol,omitempty"`
	RawSymbol   string `json:"raw_symbol,omitempty"`
}

// UnmarshalJSON accepts either a JSON string or a nested symbol record.
// Anything else is left empty rather than failing the whole snapshot.
func (s *Symbol) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		s.Plain = plain
		s.Nested = nil
		return nil
	}

	var nested NestedSymbol
	if err := json.Unmarshal(data, &nested); err == nil {
		s.Plain = ""
		s.Nested = &nested
		return nil
	}

	s.Plain = ""
	s.Nested = nil
	return nil
}

// MarshalJSON writes the union back out in the shape it arrived in.
func (s Symbol) MarshalJSON() ([]byte, error) {
	if s.Nested != nil {
		return json.Marshal(s.Nested)
	}
	return json.Marshal(s.Plain)
}

// PlainSymbol builds a Symbol from a bare ticker string.
func PlainSymbol(ticker string) Symbol {
	return Symbol{Plain: ticker}
}

// Position is one holding line within a snapshot.
type Position struct {
	Symbol Symbol  `json:"symbol"`
	Units  float64 `json:"units,omitempty"`
	Price  float64 `json:"price,omitempty"`
}

// TotalValue is the authoritative account valuation reported by the broker.
type TotalValue struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// HoldingsSnapshot is a point-in-time view of one brokerage account. It is
// fetched fresh from the aggregator, never mutated and never persisted.
type HoldingsSnapshot struct {
	Positions  []Position  `json:"positions"`
	TotalValue *TotalValue `json:"total_value,omitempty"`
}

// Currency returns the snapshot currency, defaulting to USD when the broker
// did not report a valuation.
func (s *HoldingsSnapshot) Currency() string {
	if s.TotalValue != nil && s.TotalValue.Currency != "" {
		return s.TotalValue.Currency
	}
	return "USD"
}
