// Package interfaces defines service and storage contracts for Driftline
package interfaces

import (
	"context"

	"github.com/mattcarrick/driftline/internal/models"
)

// BrokerAccount is one connected brokerage account as reported by the
// aggregator.
type BrokerAccount struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Broker string `json:"broker"`
}

// BrokerageClient provides access to the brokerage aggregator API.
type BrokerageClient interface {
	// ListAccounts retrieves the user's connected brokerage accounts.
	ListAccounts(ctx context.Context, userID string) ([]*BrokerAccount, error)

	// GetHoldings retrieves a fresh holdings snapshot for one account.
	GetHoldings(ctx context.Context, userID, accountID string) (*models.HoldingsSnapshot, error)
}
