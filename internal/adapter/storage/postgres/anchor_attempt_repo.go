package postgres

import (
	"context"
	"fmt"
	"time"

	"donation-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// AnchorAttemptRepo implements ports.AnchorAttemptRepository.
type AnchorAttemptRepo struct {
	pool Pool
}

// NewAnchorAttemptRepo creates a new AnchorAttemptRepo.
func NewAnchorAttemptRepo(pool Pool) *AnchorAttemptRepo {
	return &AnchorAttemptRepo{pool: pool}
}

// Create journals one anchoring attempt.
func (r *AnchorAttemptRepo) Create(ctx context.Context, a *domain.AnchorAttempt) error {
	query := `INSERT INTO anchor_attempts (id, donation_id, attempt, ledger_reference, last_error, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.DonationID, a.Attempt, a.LedgerReference, a.LastError,
		a.Duration.Milliseconds(), a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert anchor attempt: %w", err)
	}
	return nil
}

// ListByDonationID fetches the anchoring attempt journal of a donation.
func (r *AnchorAttemptRepo) ListByDonationID(ctx context.Context, donationID uuid.UUID) ([]domain.AnchorAttempt, error) {
	query := `SELECT id, donation_id, attempt, ledger_reference, last_error, duration_ms, created_at
		FROM anchor_attempts WHERE donation_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, donationID)
	if err != nil {
		return nil, fmt.Errorf("list anchor attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.AnchorAttempt
	for rows.Next() {
		a := domain.AnchorAttempt{}
		var durationMs int64
		if err := rows.Scan(&a.ID, &a.DonationID, &a.Attempt, &a.LedgerReference, &a.LastError, &durationMs, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan anchor attempt row: %w", err)
		}
		a.Duration = time.Duration(durationMs) * time.Millisecond
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate anchor attempt rows: %w", err)
	}
	return attempts, nil
}
