package ports

import (
	"context"
	"time"

	"donation-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconcileService turns raw payment notifications into confirmed ledger
// entries. Confirm is idempotent: repeated delivery of the same notification
// always resolves to the same record, never a second one.
type ReconcileService interface {
	Confirm(ctx context.Context, n domain.PaymentNotification) (*domain.DonationRecord, error)
	// AdvanceStatus applies an operator-driven forward status change through
	// the same guarded transition path the recorder uses.
	AdvanceStatus(ctx context.Context, id uuid.UUID, to domain.DonationStatus, ledgerReference *string) (*domain.DonationRecord, error)
}

// RecorderService anchors confirmed donations to the external ledger,
// decoupled from the confirmation path.
type RecorderService interface {
	// Enqueue starts a background recording task for the record. It never
	// blocks and never reports anchoring failures to the caller.
	Enqueue(record *domain.DonationRecord)
	// RetryRecord re-anchors a RECORDING_FAILED record on operator request.
	RetryRecord(ctx context.Context, id uuid.UUID) error
}

// AnchorClient is the capability interface to the external anchoring service
// (an on-chain contract call, another ledger, anything with an HTTP face).
type AnchorClient interface {
	// Anchor submits the donation facts and returns the anchor reference.
	Anchor(ctx context.Context, req AnchorRequest) (string, error)
}

// AnchorRequest carries the facts anchored externally.
type AnchorRequest struct {
	ProviderTransactionID string
	PayerReference        string
	Amount                decimal.Decimal
}

// DedupGuard is the fast-path duplicate tripwire for notifications arriving
// before the first write commits. The ledger store's unique constraint
// remains the authoritative admission check.
type DedupGuard interface {
	// MarkIfFirst atomically marks the key, returning true on first sight.
	MarkIfFirst(ctx context.Context, providerTxID string, ttl time.Duration) (bool, error)
}

// RecordCache caches confirmed-record JSON by provider transaction id so
// duplicate deliveries short-circuit without touching the store.
type RecordCache interface {
	Get(ctx context.Context, providerTxID string) ([]byte, error) // nil if absent
	Set(ctx context.Context, providerTxID string, value []byte, ttl time.Duration) error
}

// ReportingService defines dashboard/reconciliation read models.
type ReportingService interface {
	GetStats(ctx context.Context, period string) (*DonationStats, error)
	// GetDonation returns a single record with the payer reference masked,
	// or nil when absent.
	GetDonation(ctx context.Context, id uuid.UUID) (*domain.DonationRecord, error)
	ListDonations(ctx context.Context, params DonationListParams) ([]domain.DonationRecord, int64, error)
	// ReconciliationReport lists records stuck in RECORDING_FAILED so they
	// are surfaced to operators, never silently dropped.
	ReconciliationReport(ctx context.Context, page, pageSize int) ([]domain.DonationRecord, int64, error)
}

// AuthService defines operator authentication.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
	// EnsureBootstrapOperator creates the configured operator account if it
	// does not exist yet.
	EnsureBootstrapOperator(ctx context.Context, username, password string) error
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(operatorID uuid.UUID, username string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	OperatorID uuid.UUID
	Username   string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// SignatureService handles HMAC-SHA256 signing and verification, used for
// provider callback authentication and for signing anchor requests.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
}

// EncryptionService handles AES-256-GCM encryption of payer references.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
