package postgres

import (
	"context"
	"fmt"

	"donation-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// EventRepo implements ports.EventRepository.
type EventRepo struct {
	pool Pool
}

// NewEventRepo creates a new EventRepo.
func NewEventRepo(pool Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

// Append inserts a status transition event. Events are never updated or
// deleted.
func (r *EventRepo) Append(ctx context.Context, e *domain.DonationEvent) error {
	query := `INSERT INTO donation_events (id, donation_id, from_status, to_status, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, e.ID, e.DonationID, e.FromStatus, e.ToStatus, e.Detail, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert donation event: %w", err)
	}
	return nil
}

// ListByDonationID fetches the transition trail of a donation, oldest first.
func (r *EventRepo) ListByDonationID(ctx context.Context, donationID uuid.UUID) ([]domain.DonationEvent, error) {
	query := `SELECT id, donation_id, from_status, to_status, detail, created_at
		FROM donation_events WHERE donation_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, donationID)
	if err != nil {
		return nil, fmt.Errorf("list donation events: %w", err)
	}
	defer rows.Close()

	var events []domain.DonationEvent
	for rows.Next() {
		e := domain.DonationEvent{}
		if err := rows.Scan(&e.ID, &e.DonationID, &e.FromStatus, &e.ToStatus, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan donation event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate donation event rows: %w", err)
	}
	return events, nil
}
