package service

import (
	"context"
	"encoding/json"
	"time"

	"donation-ledger/internal/core/domain"
	"donation-ledger/internal/core/ports"
	"donation-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RecorderServiceImpl implements ports.RecorderService: it anchors confirmed
// donations to the external ledger with bounded retries, without ever
// blocking or failing the confirmation path. It is the only component that
// sets a record's ledger reference.
type RecorderServiceImpl struct {
	donationRepo ports.DonationRepository
	attemptRepo  ports.AnchorAttemptRepository
	eventRepo    ports.EventRepository
	cache        ports.RecordCache
	anchor       ports.AnchorClient
	encSvc       ports.EncryptionService
	maxAttempts  int
	backoffBase  time.Duration
	callTimeout  time.Duration
	log          zerolog.Logger
}

// NewRecorderService creates a new RecorderServiceImpl.
// backoffBase is the delay before the second attempt; it doubles per attempt.
func NewRecorderService(
	donationRepo ports.DonationRepository,
	attemptRepo ports.AnchorAttemptRepository,
	eventRepo ports.EventRepository,
	cache ports.RecordCache,
	anchor ports.AnchorClient,
	encSvc ports.EncryptionService,
	maxAttempts int,
	backoffBase time.Duration,
	callTimeout time.Duration,
	log zerolog.Logger,
) *RecorderServiceImpl {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RecorderServiceImpl{
		donationRepo: donationRepo,
		attemptRepo:  attemptRepo,
		eventRepo:    eventRepo,
		cache:        cache,
		anchor:       anchor,
		encSvc:       encSvc,
		maxAttempts:  maxAttempts,
		backoffBase:  backoffBase,
		callTimeout:  callTimeout,
		log:          log,
	}
}

// Enqueue starts a background recording task for the record. The caller's
// request finishes independently of the outcome.
func (s *RecorderServiceImpl) Enqueue(record *domain.DonationRecord) {
	go s.record(record.ID)
}

// RetryRecord re-anchors a RECORDING_FAILED record on operator request.
func (s *RecorderServiceImpl) RetryRecord(ctx context.Context, id uuid.UUID) error {
	record, err := s.donationRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.ErrPersistenceFailed(err)
	}
	if record == nil {
		return apperror.ErrNotFound("donation")
	}
	if !record.IsRetryable() {
		return apperror.ErrRecordNotRetryable()
	}

	go s.record(id)
	return nil
}

// record drives the anchoring attempts for one donation with exponential
// backoff. It runs detached from any request context.
func (s *RecorderServiceImpl) record(donationID uuid.UUID) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(s.backoffFor(attempt))
		}
		if s.attemptOnce(donationID, attempt) {
			return
		}
	}

	s.log.Error().
		Str("donation_id", donationID.String()).
		Int("attempts", s.maxAttempts).
		Msg("anchoring retries exhausted, record left RECORDING_FAILED")
}

// backoffFor returns the delay before the given attempt (attempt >= 2):
// base, 2*base, 4*base, ...
func (s *RecorderServiceImpl) backoffFor(attempt int) time.Duration {
	return s.backoffBase << uint(attempt-2)
}

// attemptOnce performs a single anchoring attempt. Returns true when no
// further attempts are needed (success, or the record is already settled).
func (s *RecorderServiceImpl) attemptOnce(donationID uuid.UUID, attempt int) bool {
	ctx := context.Background()

	record, err := s.donationRepo.GetByID(ctx, donationID)
	if err != nil {
		s.log.Warn().Err(err).Str("donation_id", donationID.String()).Int("attempt", attempt).Msg("anchoring: failed to load record")
		return false
	}
	if record == nil || record.IsTerminal() {
		return true
	}

	payerRef, err := s.encSvc.Decrypt(record.PayerReferenceEnc)
	if err != nil {
		s.log.Error().Err(err).Str("donation_id", donationID.String()).Msg("anchoring: failed to decrypt payer reference")
		return true
	}

	record.PayerReference = domain.MaskPayerReference(payerRef)

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	start := time.Now()
	ref, anchorErr := s.anchor.Anchor(callCtx, ports.AnchorRequest{
		ProviderTransactionID: record.ProviderTransactionID,
		PayerReference:        payerRef,
		Amount:                record.Amount,
	})
	cancel()
	duration := time.Since(start)

	s.journalAttempt(ctx, donationID, attempt, ref, anchorErr, duration)

	// Timeout and error are treated identically: failed attempt.
	if anchorErr != nil {
		s.markFailed(ctx, record, attempt, anchorErr)
		return false
	}

	return s.markRecorded(ctx, record, ref)
}

// markRecorded advances the record to RECORDED with its ledger reference.
func (s *RecorderServiceImpl) markRecorded(ctx context.Context, record *domain.DonationRecord, ledgerRef string) bool {
	now := time.Now().UTC()
	from := []domain.DonationStatus{domain.DonationStatusConfirmed, domain.DonationStatusRecordingFailed}

	updated, err := s.donationRepo.UpdateStatus(ctx, record.ID, from, ports.DonationUpdate{
		Status:          domain.DonationStatusRecorded,
		LedgerReference: &ledgerRef,
		RecordedAt:      &now,
	})
	if err != nil {
		s.log.Error().Err(err).Str("donation_id", record.ID.String()).Msg("anchoring: failed to persist RECORDED")
		return false
	}
	if updated == nil {
		// Another task settled the record first.
		return true
	}

	s.appendEvent(ctx, record.ID, record.Status, domain.DonationStatusRecorded, "anchored as "+ledgerRef)
	updated.PayerReference = record.PayerReference
	s.refreshCache(ctx, updated)

	s.log.Info().
		Str("donation_id", record.ID.String()).
		Str("ledger_reference", ledgerRef).
		Msg("donation anchored")
	return true
}

// markFailed moves the record to RECORDING_FAILED, keeping the last error.
func (s *RecorderServiceImpl) markFailed(ctx context.Context, record *domain.DonationRecord, attempt int, anchorErr error) {
	errStr := anchorErr.Error()
	from := []domain.DonationStatus{domain.DonationStatusConfirmed, domain.DonationStatusRecordingFailed}

	updated, err := s.donationRepo.UpdateStatus(ctx, record.ID, from, ports.DonationUpdate{
		Status:          domain.DonationStatusRecordingFailed,
		LastAnchorError: &errStr,
	})
	if err != nil {
		s.log.Error().Err(err).Str("donation_id", record.ID.String()).Msg("anchoring: failed to persist RECORDING_FAILED")
		return
	}
	if updated == nil {
		return
	}

	if record.Status == domain.DonationStatusConfirmed {
		s.appendEvent(ctx, record.ID, record.Status, domain.DonationStatusRecordingFailed, errStr)
	}
	updated.PayerReference = record.PayerReference
	s.refreshCache(ctx, updated)

	s.log.Warn().
		Str("donation_id", record.ID.String()).
		Int("attempt", attempt).
		Str("error", errStr).
		Msg("anchoring attempt failed")
}

// journalAttempt records the attempt outcome (best-effort).
func (s *RecorderServiceImpl) journalAttempt(ctx context.Context, donationID uuid.UUID, attempt int, ref string, anchorErr error, duration time.Duration) {
	entry := &domain.AnchorAttempt{
		ID:         uuid.New(),
		DonationID: donationID,
		Attempt:    attempt,
		Duration:   duration,
		CreatedAt:  time.Now().UTC(),
	}
	if anchorErr != nil {
		errStr := anchorErr.Error()
		entry.LastError = &errStr
	} else {
		entry.LedgerReference = &ref
	}
	if err := s.attemptRepo.Create(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("donation_id", donationID.String()).Msg("failed to journal anchor attempt")
	}
}

func (s *RecorderServiceImpl) appendEvent(ctx context.Context, donationID uuid.UUID, from, to domain.DonationStatus, detail string) {
	event := &domain.DonationEvent{
		ID:         uuid.New(),
		DonationID: donationID,
		FromStatus: from,
		ToStatus:   to,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.eventRepo.Append(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("donation_id", donationID.String()).Msg("failed to append donation event")
	}
}

func (s *RecorderServiceImpl) refreshCache(ctx context.Context, record *domain.DonationRecord) {
	respJSON, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, record.ProviderTransactionID, respJSON, recordCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("provider_tx_id", record.ProviderTransactionID).Msg("failed to refresh record cache")
	}
}
