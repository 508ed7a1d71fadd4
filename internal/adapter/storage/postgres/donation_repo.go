package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"donation-ledger/internal/core/domain"
	"donation-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const donationColumns = `id, provider_transaction_id, payer_reference_enc, amount, campaign_id,
		status, ledger_reference, last_anchor_error, created_at, confirmed_at, recorded_at`

// DonationRepo implements ports.DonationRepository.
type DonationRepo struct {
	pool Pool
}

// NewDonationRepo creates a new DonationRepo.
func NewDonationRepo(pool Pool) *DonationRepo {
	return &DonationRepo{pool: pool}
}

// Put inserts the record unless a record with the same provider transaction id
// already exists. The unique index on provider_transaction_id serializes
// concurrent writers racing on the same id: exactly one insert wins.
func (r *DonationRepo) Put(ctx context.Context, tx pgx.Tx, d *domain.DonationRecord) (bool, error) {
	query := `INSERT INTO donations (id, provider_transaction_id, payer_reference_enc, amount, campaign_id,
		status, ledger_reference, last_anchor_error, created_at, confirmed_at, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (provider_transaction_id) DO NOTHING`

	tag, err := tx.Exec(ctx, query,
		d.ID, d.ProviderTransactionID, d.PayerReferenceEnc, d.Amount, d.CampaignID,
		d.Status, d.LedgerReference, d.LastAnchorError,
		d.CreatedAt, d.ConfirmedAt, d.RecordedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert donation: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID fetches a donation by UUID.
func (r *DonationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DonationRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM donations WHERE id = $1`, donationColumns)
	return r.scanDonation(r.pool.QueryRow(ctx, query, id))
}

// GetByProviderTxID fetches a donation by its provider transaction id.
func (r *DonationRepo) GetByProviderTxID(ctx context.Context, providerTxID string) (*domain.DonationRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM donations WHERE provider_transaction_id = $1`, donationColumns)
	return r.scanDonation(r.pool.QueryRow(ctx, query, providerTxID))
}

// UpdateStatus applies a whitelisted update only when the current status is
// one of from. Amount and provider_transaction_id stay untouched: they are
// not part of the statement at all. Returns nil if the precondition failed
// (no row matched), leaving the caller to distinguish a missing record from
// an illegal transition.
func (r *DonationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from []domain.DonationStatus, upd ports.DonationUpdate) (*domain.DonationRecord, error) {
	fromStrs := make([]string, len(from))
	for i, s := range from {
		fromStrs[i] = string(s)
	}

	query := fmt.Sprintf(`UPDATE donations
		SET status = $1, ledger_reference = $2, last_anchor_error = $3,
			recorded_at = COALESCE($4, recorded_at)
		WHERE id = $5 AND status = ANY($6)
		RETURNING %s`, donationColumns)

	d, err := r.scanDonation(r.pool.QueryRow(ctx, query,
		upd.Status, upd.LedgerReference, upd.LastAnchorError, upd.RecordedAt,
		id, fromStrs,
	))
	if err != nil {
		return nil, fmt.Errorf("update donation status: %w", err)
	}
	return d, nil
}

// List fetches donations with filtering and pagination, newest first.
func (r *DonationRepo) List(ctx context.Context, params ports.DonationListParams) ([]domain.DonationRecord, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.CampaignID != nil {
		conditions = append(conditions, fmt.Sprintf("campaign_id = $%d", argIdx))
		args = append(args, *params.CampaignID)
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= to_timestamp($%d)", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= to_timestamp($%d)", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM donations %s", where)
	var total int64
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count donations: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM donations %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		donationColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	var records []domain.DonationRecord
	for rows.Next() {
		d := domain.DonationRecord{}
		err := rows.Scan(
			&d.ID, &d.ProviderTransactionID, &d.PayerReferenceEnc, &d.Amount, &d.CampaignID,
			&d.Status, &d.LedgerReference, &d.LastAnchorError,
			&d.CreatedAt, &d.ConfirmedAt, &d.RecordedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan donation row: %w", err)
		}
		records = append(records, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate donation rows: %w", err)
	}
	return records, total, nil
}

// GetStats retrieves aggregated ledger statistics.
func (r *DonationRepo) GetStats(ctx context.Context, periodStart *int64) (*ports.DonationStats, error) {
	var args []any
	condition := "TRUE"
	if periodStart != nil {
		condition = "created_at >= to_timestamp($1)"
		args = append(args, *periodStart)
	}

	query := fmt.Sprintf(`SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'CONFIRMED') AS confirmed,
		COUNT(*) FILTER (WHERE status = 'RECORDED') AS recorded,
		COUNT(*) FILTER (WHERE status = 'RECORDING_FAILED') AS recording_failed,
		COALESCE(SUM(amount), 0) AS total_amount,
		COALESCE(SUM(amount) FILTER (WHERE status = 'RECORDED'), 0) AS recorded_amount
		FROM donations WHERE %s`, condition)

	stats := &ports.DonationStats{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.TotalDonations, &stats.Confirmed, &stats.Recorded, &stats.RecordingFailed,
		&stats.TotalAmount, &stats.RecordedAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("get donation stats: %w", err)
	}
	return stats, nil
}

// scanDonation is a helper to scan a single row into a DonationRecord.
func (r *DonationRepo) scanDonation(row pgx.Row) (*domain.DonationRecord, error) {
	d := &domain.DonationRecord{}
	err := row.Scan(
		&d.ID, &d.ProviderTransactionID, &d.PayerReferenceEnc, &d.Amount, &d.CampaignID,
		&d.Status, &d.LedgerReference, &d.LastAnchorError,
		&d.CreatedAt, &d.ConfirmedAt, &d.RecordedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan donation: %w", err)
	}
	return d, nil
}
