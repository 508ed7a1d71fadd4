package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DonationStatus represents the lifecycle state of a donation record.
type DonationStatus string

const (
	DonationStatusPending         DonationStatus = "PENDING"
	DonationStatusConfirmed       DonationStatus = "CONFIRMED"
	DonationStatusRecordingFailed DonationStatus = "RECORDING_FAILED"
	DonationStatusRecorded        DonationStatus = "RECORDED"
)

// validTransitions enumerates every forward move of the status machine.
// Anything not listed is rejected; there are no backward transitions.
var validTransitions = map[DonationStatus][]DonationStatus{
	DonationStatusPending:         {DonationStatusConfirmed},
	DonationStatusConfirmed:       {DonationStatusRecorded, DonationStatusRecordingFailed},
	DonationStatusRecordingFailed: {DonationStatusRecorded},
}

// CanTransition reports whether moving from -> to is a legal status change.
func CanTransition(from, to DonationStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DonationRecord is the durable ledger entry for a confirmed donation.
// Records are append-only: status and timestamps advance forward, amount and
// provider transaction id never change after creation, nothing is deleted.
type DonationRecord struct {
	ID                    uuid.UUID       `json:"id"`
	ProviderTransactionID string          `json:"provider_transaction_id"`
	PayerReference        string          `json:"payer_reference"`     // masked for display
	PayerReferenceEnc     string          `json:"-"`                   // AES-256-GCM encrypted at rest
	Amount                decimal.Decimal `json:"amount"`
	CampaignID            *uuid.UUID      `json:"campaign_id,omitempty"`
	Status                DonationStatus  `json:"status"`
	LedgerReference       *string         `json:"ledger_reference,omitempty"` // set only on successful anchoring
	LastAnchorError       *string         `json:"last_anchor_error,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	ConfirmedAt           *time.Time      `json:"confirmed_at,omitempty"`
	RecordedAt            *time.Time      `json:"recorded_at,omitempty"`
}

// IsTerminal returns true once anchoring has succeeded. RECORDING_FAILED is
// not terminal here: a retry may still move it to RECORDED.
func (d *DonationRecord) IsTerminal() bool {
	return d.Status == DonationStatusRecorded
}

// IsRetryable returns true if the record is eligible for an anchoring retry.
func (d *DonationRecord) IsRetryable() bool {
	return d.Status == DonationStatusRecordingFailed
}

// MaskPayerReference hides the middle of a payer reference (phone number or
// wallet address) keeping enough of both ends to be recognisable.
func MaskPayerReference(ref string) string {
	ref = strings.TrimSpace(ref)
	if len(ref) <= 6 {
		return strings.Repeat("*", len(ref))
	}
	return ref[:4] + strings.Repeat("*", len(ref)-6) + ref[len(ref)-2:]
}
