package service

import (
	"context"
	"time"

	"donation-ledger/internal/core/domain"
	"donation-ledger/internal/core/ports"
	"donation-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// authService implements ports.AuthService for dashboard operators.
type authService struct {
	operatorRepo ports.OperatorRepository
	hashSvc      ports.HashService
	tokenSvc     ports.TokenService
	log          zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	operatorRepo ports.OperatorRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	log zerolog.Logger,
) ports.AuthService {
	return &authService{
		operatorRepo: operatorRepo,
		hashSvc:      hashSvc,
		tokenSvc:     tokenSvc,
		log:          log,
	}
}

// Login verifies operator credentials and returns a JWT.
func (s *authService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	operator, err := s.operatorRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(err)
	}
	if operator == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	ok, err := s.hashSvc.Verify(password, operator.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(err)
	}
	if !ok {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(operator.ID, operator.Username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(err)
	}
	return token, expiry, nil
}

// EnsureBootstrapOperator creates the configured operator if absent. A blank
// password disables the bootstrap account entirely.
func (s *authService) EnsureBootstrapOperator(ctx context.Context, username, password string) error {
	if password == "" {
		s.log.Warn().Msg("no bootstrap operator password configured, dashboard login disabled")
		return nil
	}

	existing, err := s.operatorRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := s.hashSvc.Hash(password)
	if err != nil {
		return err
	}

	operator := &domain.Operator{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.operatorRepo.Create(ctx, operator); err != nil {
		return err
	}

	s.log.Info().Str("username", username).Msg("bootstrap operator created")
	return nil
}
