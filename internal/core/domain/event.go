package domain

import (
	"time"

	"github.com/google/uuid"
)

// DonationEvent is one entry in the append-only status transition trail of a
// donation record. Every status change writes exactly one event.
type DonationEvent struct {
	ID         uuid.UUID      `json:"id"`
	DonationID uuid.UUID      `json:"donation_id"`
	FromStatus DonationStatus `json:"from_status"`
	ToStatus   DonationStatus `json:"to_status"`
	Detail     string         `json:"detail,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AnchorAttempt journals a single call to the external anchoring service.
type AnchorAttempt struct {
	ID              uuid.UUID     `json:"id"`
	DonationID      uuid.UUID     `json:"donation_id"`
	Attempt         int           `json:"attempt"`
	LedgerReference *string       `json:"ledger_reference,omitempty"`
	LastError       *string       `json:"last_error,omitempty"`
	Duration        time.Duration `json:"duration"`
	CreatedAt       time.Time     `json:"created_at"`
}
