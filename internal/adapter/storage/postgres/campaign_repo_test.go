package postgres

import (
	"context"
	"testing"
	"time"

	"donation-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var campaignRowColumns = []string{"id", "code", "name", "goal", "raised", "created_at"}

func sampleCampaign() *domain.Campaign {
	return &domain.Campaign{
		ID:        uuid.New(),
		Code:      "WATER-2026",
		Name:      "Clean Water Fund",
		Goal:      decimal.NewFromInt(100000),
		Raised:    decimal.Zero,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestCampaignRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCampaignRepo(mock)
	c := sampleCampaign()

	mock.ExpectExec("INSERT INTO campaigns").
		WithArgs(c.ID, c.Code, c.Name, c.Goal, c.Raised, c.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), c)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepo_Create_DuplicateCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCampaignRepo(mock)
	c := sampleCampaign()

	mock.ExpectExec("INSERT INTO campaigns").
		WithArgs(c.ID, c.Code, c.Name, c.Goal, c.Raised, c.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err = repo.Create(context.Background(), c)
	assert.ErrorIs(t, err, domain.ErrCampaignCodeTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepo_GetByCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCampaignRepo(mock)
	c := sampleCampaign()

	mock.ExpectQuery("SELECT .+ FROM campaigns WHERE code").
		WithArgs(c.Code).
		WillReturnRows(pgxmock.NewRows(campaignRowColumns).
			AddRow(c.ID, c.Code, c.Name, c.Goal, c.Raised, c.CreatedAt))

	result, err := repo.GetByCode(context.Background(), c.Code)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, c.ID, result.ID)
	assert.True(t, c.Goal.Equal(result.Goal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepo_GetByCode_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCampaignRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM campaigns WHERE code").
		WithArgs("NOPE").
		WillReturnRows(pgxmock.NewRows(campaignRowColumns))

	result, err := repo.GetByCode(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepo_AddToRaised(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCampaignRepo(mock)
	id := uuid.New()
	amount := decimal.NewFromInt(1500)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE campaigns SET raised").
		WithArgs(amount, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.AddToRaised(context.Background(), tx, id, amount)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepo_AddToRaised_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCampaignRepo(mock)
	id := uuid.New()
	amount := decimal.NewFromInt(1500)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE campaigns SET raised").
		WithArgs(amount, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.AddToRaised(context.Background(), tx, id, amount)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
