package ports

import (
	"context"
	"time"

	"donation-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// DonationRepository is the ledger store: durable keyed storage for donation
// records. Uniqueness of the provider transaction id is the idempotency
// boundary, concurrent writers for the same id are serialized here.
type DonationRepository interface {
	// Put inserts the record unless one with the same provider transaction id
	// already exists. Returns true if the row was inserted, false on conflict
	// (the existing record is left untouched).
	Put(ctx context.Context, tx pgx.Tx, record *domain.DonationRecord) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DonationRecord, error)
	GetByProviderTxID(ctx context.Context, providerTxID string) (*domain.DonationRecord, error)
	// UpdateStatus applies a whitelisted update (status, anchoring outcome,
	// recorded-at) only when the current status is one of from. Amount and
	// provider transaction id are not updatable by design. Returns the
	// updated record, or nil if the precondition did not hold.
	UpdateStatus(ctx context.Context, id uuid.UUID, from []domain.DonationStatus, upd DonationUpdate) (*domain.DonationRecord, error)
	List(ctx context.Context, params DonationListParams) ([]domain.DonationRecord, int64, error)
	GetStats(ctx context.Context, periodStart *int64) (*DonationStats, error)
}

// DonationUpdate is the whitelisted mutable subset of a donation record.
type DonationUpdate struct {
	Status          domain.DonationStatus
	LedgerReference *string
	LastAnchorError *string
	RecordedAt      *time.Time
}

// DonationListParams holds filter + pagination for listing donations.
type DonationListParams struct {
	Status     *domain.DonationStatus
	CampaignID *uuid.UUID
	From       *int64 // Unix timestamp
	To         *int64 // Unix timestamp
	Page       int
	PageSize   int
}

// DonationStats holds aggregated ledger statistics for the dashboard.
type DonationStats struct {
	TotalDonations  int64
	Confirmed       int64
	Recorded        int64
	RecordingFailed int64
	TotalAmount     decimal.Decimal
	RecordedAmount  decimal.Decimal
}

// CampaignRepository defines persistence operations for campaigns.
// Methods accepting pgx.Tx run inside the confirming database transaction
// with the campaign row locked.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *domain.Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	GetByCode(ctx context.Context, code string) (*domain.Campaign, error)
	GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*domain.Campaign, error)
	AddToRaised(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount decimal.Decimal) error
	List(ctx context.Context) ([]domain.Campaign, error)
}

// EventRepository persists the append-only status transition trail.
type EventRepository interface {
	Append(ctx context.Context, event *domain.DonationEvent) error
	ListByDonationID(ctx context.Context, donationID uuid.UUID) ([]domain.DonationEvent, error)
}

// AnchorAttemptRepository journals anchoring attempts.
type AnchorAttemptRepository interface {
	Create(ctx context.Context, attempt *domain.AnchorAttempt) error
	ListByDonationID(ctx context.Context, donationID uuid.UUID) ([]domain.AnchorAttempt, error)
}

// OperatorRepository defines persistence operations for dashboard operators.
type OperatorRepository interface {
	Create(ctx context.Context, operator *domain.Operator) error
	GetByUsername(ctx context.Context, username string) (*domain.Operator, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
