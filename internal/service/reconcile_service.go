package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"donation-ledger/internal/core/domain"
	"donation-ledger/internal/core/ports"
	"donation-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	recordCacheTTL = 24 * time.Hour
	dedupMarkTTL   = 10 * time.Minute
)

// ReconcileServiceImpl implements ports.ReconcileService. It is the sole
// writer that advances a payment notification into a CONFIRMED ledger entry.
type ReconcileServiceImpl struct {
	donationRepo ports.DonationRepository
	campaignRepo ports.CampaignRepository
	eventRepo    ports.EventRepository
	guard        ports.DedupGuard
	cache        ports.RecordCache
	encSvc       ports.EncryptionService
	recorder     ports.RecorderService
	transactor   ports.DBTransactor
	log          zerolog.Logger
}

// NewReconcileService creates a new ReconcileServiceImpl.
func NewReconcileService(
	donationRepo ports.DonationRepository,
	campaignRepo ports.CampaignRepository,
	eventRepo ports.EventRepository,
	guard ports.DedupGuard,
	cache ports.RecordCache,
	encSvc ports.EncryptionService,
	recorder ports.RecorderService,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *ReconcileServiceImpl {
	return &ReconcileServiceImpl{
		donationRepo: donationRepo,
		campaignRepo: campaignRepo,
		eventRepo:    eventRepo,
		guard:        guard,
		cache:        cache,
		encSvc:       encSvc,
		recorder:     recorder,
		transactor:   transactor,
		log:          log,
	}
}

// Confirm turns a notification into a confirmed ledger entry. Repeated
// delivery of the same notification always resolves to the same record: the
// record cache and the store's unique provider transaction id collapse
// duplicates, and exactly one delivery triggers downstream recording.
func (s *ReconcileServiceImpl) Confirm(ctx context.Context, n domain.PaymentNotification) (*domain.DonationRecord, error) {
	if err := n.Validate(); err != nil {
		return nil, apperror.ErrInvalidNotification(err.Error())
	}

	key := n.ProviderTransactionID

	// Layer 1: record cache fast path
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("provider_tx_id", key).Msg("record cache check failed, falling through to store")
	}
	if cached != nil {
		return s.unmarshalCachedRecord(cached)
	}

	// Dedup tripwire (best-effort): flags redeliveries racing ahead of the
	// first commit so they show up in the logs.
	first, err := s.guard.MarkIfFirst(ctx, key, dedupMarkTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("provider_tx_id", key).Msg("dedup guard unavailable")
	} else if !first {
		s.log.Debug().Str("provider_tx_id", key).Msg("duplicate notification delivery")
	}

	// Layer 2: authoritative store read
	existing, err := s.donationRepo.GetByProviderTxID(ctx, key)
	if err != nil {
		return nil, apperror.ErrPersistenceFailed(fmt.Errorf("duplicate check: %w", err))
	}
	if existing != nil {
		return s.presentable(existing), nil
	}

	payerEnc, err := s.encSvc.Encrypt(n.PayerReference)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("encrypt payer reference: %w", err))
	}

	now := time.Now().UTC()
	record := &domain.DonationRecord{
		ID:                    uuid.New(),
		ProviderTransactionID: n.ProviderTransactionID,
		PayerReferenceEnc:     payerEnc,
		Amount:                n.Amount,
		Status:                domain.DonationStatusConfirmed,
		CreatedAt:             now,
		ConfirmedAt:           &now,
	}

	// Begin database transaction
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrPersistenceFailed(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Resolve & lock the target campaign, if the payer quoted one
	if n.AccountReference != "" {
		campaign, err := s.campaignRepo.GetByCodeForUpdate(ctx, dbTx, n.AccountReference)
		if err != nil {
			return nil, apperror.ErrPersistenceFailed(fmt.Errorf("lock campaign: %w", err))
		}
		if campaign != nil {
			record.CampaignID = &campaign.ID
		} else {
			s.log.Warn().
				Str("provider_tx_id", key).
				Str("account_reference", n.AccountReference).
				Msg("notification references unknown campaign, recording without attribution")
		}
	}

	// Persist: exactly one concurrent delivery inserts, the rest conflict.
	// A conflicting insert waits on the winner's commit, so the read below
	// always finds the winner's row.
	inserted, err := s.donationRepo.Put(ctx, dbTx, record)
	if err != nil {
		return nil, apperror.ErrPersistenceFailed(fmt.Errorf("put donation: %w", err))
	}
	if !inserted {
		winner, err := s.donationRepo.GetByProviderTxID(ctx, key)
		if err != nil {
			return nil, apperror.ErrPersistenceFailed(fmt.Errorf("read winning record: %w", err))
		}
		if winner == nil {
			return nil, apperror.ErrDuplicateNotification()
		}
		return s.presentable(winner), nil
	}

	// Persist: bump the campaign total inside the same transaction
	if record.CampaignID != nil {
		if err := s.campaignRepo.AddToRaised(ctx, dbTx, *record.CampaignID, n.Amount); err != nil {
			return nil, apperror.ErrPersistenceFailed(fmt.Errorf("update campaign total: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrPersistenceFailed(fmt.Errorf("commit tx: %w", err))
	}

	record.PayerReference = domain.MaskPayerReference(n.PayerReference)

	s.appendEvent(ctx, record.ID, domain.DonationStatusPending, domain.DonationStatusConfirmed, "payment notification admitted")
	s.cacheRecord(ctx, record)

	// Downstream recording is fire-and-forget relative to the caller
	s.recorder.Enqueue(record)

	s.log.Info().
		Str("donation_id", record.ID.String()).
		Str("provider_tx_id", key).
		Str("amount", n.Amount.String()).
		Msg("donation confirmed")

	return record, nil
}

// AdvanceStatus applies an operator-driven forward status change. Backward
// moves are rejected with InvalidTransition before the store is touched, and
// again by the store's status precondition if a race slips past the check.
func (s *ReconcileServiceImpl) AdvanceStatus(ctx context.Context, id uuid.UUID, to domain.DonationStatus, ledgerReference *string) (*domain.DonationRecord, error) {
	record, err := s.donationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrPersistenceFailed(err)
	}
	if record == nil {
		return nil, apperror.ErrNotFound("donation")
	}
	if !domain.CanTransition(record.Status, to) {
		return nil, apperror.ErrInvalidTransition(string(record.Status), string(to))
	}

	upd := ports.DonationUpdate{Status: to}
	if to == domain.DonationStatusRecorded {
		if ledgerReference == nil || *ledgerReference == "" {
			return nil, apperror.Validation("ledger reference is required to mark a donation recorded")
		}
		now := time.Now().UTC()
		upd.LedgerReference = ledgerReference
		upd.RecordedAt = &now
	}

	updated, err := s.donationRepo.UpdateStatus(ctx, id, []domain.DonationStatus{record.Status}, upd)
	if err != nil {
		return nil, apperror.ErrPersistenceFailed(err)
	}
	if updated == nil {
		return nil, apperror.ErrInvalidTransition(string(record.Status), string(to))
	}

	s.appendEvent(ctx, id, record.Status, to, "operator status update")
	s.cacheRecord(ctx, s.presentable(updated))

	return s.presentable(updated), nil
}

// presentable decrypts and masks the payer reference for display.
func (s *ReconcileServiceImpl) presentable(record *domain.DonationRecord) *domain.DonationRecord {
	plain, err := s.encSvc.Decrypt(record.PayerReferenceEnc)
	if err != nil {
		s.log.Warn().Err(err).Str("donation_id", record.ID.String()).Msg("failed to decrypt payer reference")
		return record
	}
	record.PayerReference = domain.MaskPayerReference(plain)
	return record
}

// appendEvent writes a transition event (best-effort).
func (s *ReconcileServiceImpl) appendEvent(ctx context.Context, donationID uuid.UUID, from, to domain.DonationStatus, detail string) {
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

// cacheRecord stores the record JSON for the duplicate fast path (best-effort).
func (s *ReconcileServiceImpl) cacheRecord(ctx context.Context, record *domain.DonationRecord) {
	respJSON, err := json.Marshal(record)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to marshal record for cache")
		return
	}
	if err := s.cache.Set(ctx, record.ProviderTransactionID, respJSON, recordCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("provider_tx_id", record.ProviderTransactionID).Msg("failed to cache record")
	}
}

// unmarshalCachedRecord deserializes a cached record.
func (s *ReconcileServiceImpl) unmarshalCachedRecord(data []byte) (*domain.DonationRecord, error) {
	record := &domain.DonationRecord{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached record: %w", err))
	}
	return record, nil
}
