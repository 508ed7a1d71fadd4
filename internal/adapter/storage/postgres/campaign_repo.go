package postgres

import (
	"context"
	"errors"
	"fmt"

	"donation-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const campaignColumns = `id, code, name, goal, raised, created_at`

// CampaignRepo implements ports.CampaignRepository.
type CampaignRepo struct {
	pool Pool
}

// NewCampaignRepo creates a new CampaignRepo.
func NewCampaignRepo(pool Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

// Create inserts a new campaign.
func (r *CampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	query := `INSERT INTO campaigns (id, code, name, goal, raised, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, c.ID, c.Code, c.Name, c.Goal, c.Raised, c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrCampaignCodeTaken
		}
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// GetByID fetches a campaign by UUID.
func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE id = $1`, campaignColumns)
	return r.scanCampaign(r.pool.QueryRow(ctx, query, id))
}

// GetByCode fetches a campaign by its code.
func (r *CampaignRepo) GetByCode(ctx context.Context, code string) (*domain.Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE code = $1`, campaignColumns)
	return r.scanCampaign(r.pool.QueryRow(ctx, query, code))
}

// GetByCodeForUpdate fetches a campaign by code with a row lock, inside the
// confirming database transaction.
func (r *CampaignRepo) GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*domain.Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE code = $1 FOR UPDATE`, campaignColumns)
	return r.scanCampaign(tx.QueryRow(ctx, query, code))
}

// AddToRaised increments the campaign's raised total within a transaction.
func (r *CampaignRepo) AddToRaised(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount decimal.Decimal) error {
	query := `UPDATE campaigns SET raised = raised + $1 WHERE id = $2`

	tag, err := tx.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("add to campaign raised: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("campaign not found: %s", id)
	}
	return nil
}

// List fetches all campaigns, newest first.
func (r *CampaignRepo) List(ctx context.Context) ([]domain.Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaigns ORDER BY created_at DESC`, campaignColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		c := domain.Campaign{}
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Goal, &c.Raised, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan campaign row: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaign rows: %w", err)
	}
	return campaigns, nil
}

func (r *CampaignRepo) scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	c := &domain.Campaign{}
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Goal, &c.Raised, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan campaign: %w", err)
	}
	return c, nil
}
