package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"donation-ledger/internal/core/domain"
	"donation-ledger/internal/core/ports/mocks"
	"donation-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupAuthService(t *testing.T) (
	*mocks.MockOperatorRepository,
	*mocks.MockHashService,
	*mocks.MockTokenService,
	func(ctx context.Context, username, password string) (string, time.Time, error),
	func(ctx context.Context, username, password string) error,
	*gomock.Controller,
) {
	ctrl := gomock.NewController(t)
	operatorRepo := mocks.NewMockOperatorRepository(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	svc := NewAuthService(operatorRepo, hashSvc, tokenSvc, zerolog.Nop())
	return operatorRepo, hashSvc, tokenSvc, svc.Login, svc.EnsureBootstrapOperator, ctrl
}

func TestAuthService_Login_Success(t *testing.T) {
	operatorRepo, hashSvc, tokenSvc, login, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	operator := &domain.Operator{
		ID:           uuid.New(),
		Username:     "admin",
		PasswordHash: "$argon2id$...",
	}
	expiry := time.Now().Add(24 * time.Hour)

	operatorRepo.EXPECT().GetByUsername(ctx, "admin").Return(operator, nil)
	hashSvc.EXPECT().Verify("correct-password", operator.PasswordHash).Return(true, nil)
	tokenSvc.EXPECT().Generate(operator.ID, "admin").Return("jwt-token", expiry, nil)

	token, exp, err := login(ctx, "admin", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, expiry, exp)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	operatorRepo, _, _, login, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	operatorRepo.EXPECT().GetByUsername(ctx, "nobody").Return(nil, nil)

	_, _, err := login(ctx, "nobody", "whatever")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_001", appErr.Code)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	operatorRepo, hashSvc, _, login, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	operator := &domain.Operator{ID: uuid.New(), Username: "admin", PasswordHash: "hash"}

	operatorRepo.EXPECT().GetByUsername(ctx, "admin").Return(operator, nil)
	hashSvc.EXPECT().Verify("wrong", "hash").Return(false, nil)

	_, _, err := login(ctx, "admin", "wrong")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_001", appErr.Code)
}

func TestAuthService_EnsureBootstrapOperator_Creates(t *testing.T) {
	operatorRepo, hashSvc, _, _, bootstrap, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	operatorRepo.EXPECT().GetByUsername(ctx, "admin").Return(nil, nil)
	hashSvc.EXPECT().Hash("secret").Return("hashed", nil)
	operatorRepo.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, op *domain.Operator) error {
			assert.Equal(t, "admin", op.Username)
			assert.Equal(t, "hashed", op.PasswordHash)
			return nil
		})

	require.NoError(t, bootstrap(ctx, "admin", "secret"))
}

func TestAuthService_EnsureBootstrapOperator_AlreadyExists(t *testing.T) {
	operatorRepo, _, _, _, bootstrap, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	operatorRepo.EXPECT().GetByUsername(ctx, "admin").
		Return(&domain.Operator{ID: uuid.New(), Username: "admin"}, nil)

	require.NoError(t, bootstrap(ctx, "admin", "secret"))
}

func TestAuthService_EnsureBootstrapOperator_BlankPasswordSkips(t *testing.T) {
	_, _, _, _, bootstrap, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	// No repo calls expected: blank password disables the account.
	require.NoError(t, bootstrap(context.Background(), "admin", ""))
}

func TestAuthService_EnsureBootstrapOperator_RepoError(t *testing.T) {
	operatorRepo, _, _, _, bootstrap, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	operatorRepo.EXPECT().GetByUsername(ctx, "admin").Return(nil, errors.New("db down"))

	require.Error(t, bootstrap(ctx, "admin", "secret"))
}
