package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentNotification is the normalized form of an asynchronous payment
// confirmation from the provider. The provider transaction id is the natural
// deduplication key: deliveries are at-least-once and may race.
type PaymentNotification struct {
	ProviderTransactionID string
	PayerReference        string // phone number (MSISDN) or wallet address
	Amount                decimal.Decimal
	AccountReference      string // campaign code the payer targeted, may be empty
	OccurredAt            time.Time
}

// Validate checks the notification contract. A failing notification must be
// rejected without side effects; the same payload will never become valid,
// so the caller must not retry it.
func (n *PaymentNotification) Validate() error {
	if n.ProviderTransactionID == "" {
		return ErrMissingProviderTxID
	}
	if n.PayerReference == "" {
		return ErrMissingPayerReference
	}
	if !n.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return nil
}

// Sentinel validation failures, mapped to LED_001 at the boundary.
var (
	ErrMissingProviderTxID   = validationError("provider transaction id is required")
	ErrMissingPayerReference = validationError("payer reference is required")
	ErrNonPositiveAmount     = validationError("amount must be greater than zero")
)

type validationError string

func (e validationError) Error() string { return string(e) }
