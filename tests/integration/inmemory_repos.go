package integration

import (
	"context"
	"fmt"
	"sync"

	"donation-ledger/internal/core/domain"
	"donation-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Donation Repo ---

type inMemoryDonationRepo struct {
	mu        sync.RWMutex
	donations map[uuid.UUID]*domain.DonationRecord
}

func newInMemoryDonationRepo() *inMemoryDonationRepo {
	return &inMemoryDonationRepo{donations: make(map[uuid.UUID]*domain.DonationRecord)}
}

func (r *inMemoryDonationRepo) Put(ctx context.Context, tx pgx.Tx, record *domain.DonationRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.donations {
		if existing.ProviderTransactionID == record.ProviderTransactionID {
			return false, nil
		}
	}
	d := *record
	r.donations[record.ID] = &d
	return true, nil
}

func (r *inMemoryDonationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DonationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.donations[id]
	if !ok {
		return nil, nil
	}
	c := *d
	return &c, nil
}

func (r *inMemoryDonationRepo) GetByProviderTxID(ctx context.Context, providerTxID string) (*domain.DonationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.donations {
		if d.ProviderTransactionID == providerTxID {
			c := *d
			return &c, nil
		}
	}
	return nil, nil
}

func (r *inMemoryDonationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from []domain.DonationStatus, upd ports.DonationUpdate) (*domain.DonationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.donations[id]
	if !ok {
		return nil, nil
	}
	allowed := false
	for _, s := range from {
		if d.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, nil
	}
	d.Status = upd.Status
	if upd.LedgerReference != nil {
		d.LedgerReference = upd.LedgerReference
	}
	d.LastAnchorError = upd.LastAnchorError
	if upd.RecordedAt != nil {
		d.RecordedAt = upd.RecordedAt
	}
	c := *d
	return &c, nil
}

func (r *inMemoryDonationRepo) List(ctx context.Context, params ports.DonationListParams) ([]domain.DonationRecord, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.DonationRecord
	for _, d := range r.donations {
		if params.Status != nil && d.Status != *params.Status {
			continue
		}
		if params.CampaignID != nil && (d.CampaignID == nil || *d.CampaignID != *params.CampaignID) {
			continue
		}
		if params.From != nil && d.CreatedAt.Unix() < *params.From {
			continue
		}
		if params.To != nil && d.CreatedAt.Unix() > *params.To {
			continue
		}
		result = append(result, *d)
	}
	total := int64(len(result))

	// Simple pagination
	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.DonationRecord{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *inMemoryDonationRepo) GetStats(ctx context.Context, periodStart *int64) (*ports.DonationStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &ports.DonationStats{}
	for _, d := range r.donations {
		if periodStart != nil && d.CreatedAt.Unix() < *periodStart {
			continue
		}
		stats.TotalDonations++
		stats.TotalAmount = stats.TotalAmount.Add(d.Amount)
		switch d.Status {
		case domain.DonationStatusConfirmed:
			stats.Confirmed++
		case domain.DonationStatusRecorded:
			stats.Recorded++
			stats.RecordedAmount = stats.RecordedAmount.Add(d.Amount)
		case domain.DonationStatusRecordingFailed:
			stats.RecordingFailed++
		}
	}
	return stats, nil
}

// --- In-Memory Campaign Repo ---

type inMemoryCampaignRepo struct {
	mu        sync.RWMutex
	campaigns map[uuid.UUID]*domain.Campaign
}

func newInMemoryCampaignRepo() *inMemoryCampaignRepo {
	return &inMemoryCampaignRepo{campaigns: make(map[uuid.UUID]*domain.Campaign)}
}

func (r *inMemoryCampaignRepo) Create(ctx context.Context, campaign *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.campaigns {
		if existing.Code == campaign.Code {
			return domain.ErrCampaignCodeTaken
		}
	}
	c := *campaign
	r.campaigns[campaign.ID] = &c
	return nil
}

func (r *inMemoryCampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *inMemoryCampaignRepo) GetByCode(ctx context.Context, code string) (*domain.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.campaigns {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryCampaignRepo) GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*domain.Campaign, error) {
	return r.GetByCode(ctx, code)
}

func (r *inMemoryCampaignRepo) AddToRaised(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return fmt.Errorf("campaign not found")
	}
	c.Raised = c.Raised.Add(amount)
	return nil
}

func (r *inMemoryCampaignRepo) List(ctx context.Context) ([]domain.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Campaign, 0, len(r.campaigns))
	for _, c := range r.campaigns {
		result = append(result, *c)
	}
	return result, nil
}

// --- In-Memory Event Repo ---

type inMemoryEventRepo struct {
	mu     sync.RWMutex
	events []domain.DonationEvent
}

func newInMemoryEventRepo() *inMemoryEventRepo {
	return &inMemoryEventRepo{}
}

func (r *inMemoryEventRepo) Append(ctx context.Context, event *domain.DonationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *inMemoryEventRepo) ListByDonationID(ctx context.Context, donationID uuid.UUID) ([]domain.DonationEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.DonationEvent
	for _, e := range r.events {
		if e.DonationID == donationID {
			result = append(result, e)
		}
	}
	return result, nil
}

// --- In-Memory Anchor Attempt Repo ---

type inMemoryAttemptRepo struct {
	mu       sync.RWMutex
	attempts []domain.AnchorAttempt
}

func newInMemoryAttemptRepo() *inMemoryAttemptRepo {
	return &inMemoryAttemptRepo{}
}

func (r *inMemoryAttemptRepo) Create(ctx context.Context, attempt *domain.AnchorAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, *attempt)
	return nil
}

func (r *inMemoryAttemptRepo) ListByDonationID(ctx context.Context, donationID uuid.UUID) ([]domain.AnchorAttempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.AnchorAttempt
	for _, a := range r.attempts {
		if a.DonationID == donationID {
			result = append(result, a)
		}
	}
	return result, nil
}

// --- In-Memory Operator Repo ---

type inMemoryOperatorRepo struct {
	mu        sync.RWMutex
	operators map[uuid.UUID]*domain.Operator
}

func newInMemoryOperatorRepo() *inMemoryOperatorRepo {
	return &inMemoryOperatorRepo{operators: make(map[uuid.UUID]*domain.Operator)}
}

func (r *inMemoryOperatorRepo) Create(ctx context.Context, operator *domain.Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.operators {
		if existing.Username == operator.Username {
			return fmt.Errorf("username already exists")
		}
	}
	o := *operator
	r.operators[operator.ID] = &o
	return nil
}

func (r *inMemoryOperatorRepo) GetByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.operators {
		if o.Username == username {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
