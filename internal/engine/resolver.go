// Package engine implements the allocation drift and rebalancing engine.
// It is pure and synchronous: plain data in, plain data out, no I/O.
package engine

import (
	"github.com/mattcarrick/driftline/internal/models"
)

// Unresolved is the sentinel symbol for positions whose raw symbol field
// carried no usable identity. Resolution never fails outright.
const Unresolved = "N/A"

// Resolve extracts the canonical ticker string from a raw position symbol.
// For nested records the fallback chain runs from most human-readable to
// most canonical: inner description, inner symbol, inner raw_symbol, then
// the outer description. Downstream joins key on the resolved string, so
// the precedence is fixed.
func Resolve(sym models.Symbol) string {
	if n := sym.Nested; n != nil {
		if id := n.Symbol; id != nil {
			if id.Description != "" {
				return id.Description
			}
			if id.Symbol != "" {
				return id.Symbol
			}
			if id.RawSymbol != "" {
				return id.RawSymbol
			}
		}
		if n.Description != "" {
			return n.Description
		}
		return Unresolved
	}
	if sym.Plain != "" {
		return sym.Plain
	}
	return Unresolved
}
