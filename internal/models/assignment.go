package models

import (
	"time"
)

// Assignment binds exactly one model to a (user, broker) pair. The storage
// layer enforces uniqueness with an upsert on the composite record ID, so a
// re-assignment atomically replaces the previous one.
type Assignment struct {
	UserID    string    `json:"user_id"`
	BrokerID  string    `json:"broker_id"`
	ModelID   string    `json:"model_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the composite identity used as the storage record ID.
func (a *Assignment) Key() string {
	return a.UserID + "_" + a.BrokerID
}
