package service

import (
	"context"
	"time"

	"donation-ledger/internal/core/domain"
	"donation-ledger/internal/core/ports"
	"donation-ledger/pkg/apperror"

	"github.com/google/uuid"
)

// reportingService implements ports.ReportingService.
type reportingService struct {
	donationRepo ports.DonationRepository
	encSvc       ports.EncryptionService
}

// NewReportingService creates a new reporting service.
func NewReportingService(donationRepo ports.DonationRepository, encSvc ports.EncryptionService) ports.ReportingService {
	return &reportingService{donationRepo: donationRepo, encSvc: encSvc}
}

// GetStats returns aggregated ledger stats for the dashboard.
func (s *reportingService) GetStats(ctx context.Context, period string) (*ports.DonationStats, error) {
	var periodStart *int64

	switch period {
	case "day":
		t := time.Now().AddDate(0, 0, -1).Unix()
		periodStart = &t
	case "week":
		t := time.Now().AddDate(0, 0, -7).Unix()
		periodStart = &t
	case "month":
		t := time.Now().AddDate(0, -1, 0).Unix()
		periodStart = &t
	case "all", "":
		// No time filter
	default:
		return nil, apperror.Validation("invalid period: must be day, week, month, or all")
	}

	stats, err := s.donationRepo.GetStats(ctx, periodStart)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	return stats, nil
}

// GetDonation returns a single donation record with the payer reference
// masked, or nil when absent.
func (s *reportingService) GetDonation(ctx context.Context, id uuid.UUID) (*domain.DonationRecord, error) {
	record, err := s.donationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if record == nil {
		return nil, nil
	}
	if plain, err := s.encSvc.Decrypt(record.PayerReferenceEnc); err == nil {
		record.PayerReference = domain.MaskPayerReference(plain)
	}
	return record, nil
}

// ListDonations returns a paginated list of donation records.
func (s *reportingService) ListDonations(ctx context.Context, params ports.DonationListParams) ([]domain.DonationRecord, int64, error) {
	records, total, err := s.donationRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(err)
	}
	return s.maskAll(records), total, nil
}

// ReconciliationReport lists records stuck in RECORDING_FAILED after
// anchoring retries, surfaced for operator follow-up.
func (s *reportingService) ReconciliationReport(ctx context.Context, page, pageSize int) ([]domain.DonationRecord, int64, error) {
	status := domain.DonationStatusRecordingFailed
	records, total, err := s.donationRepo.List(ctx, ports.DonationListParams{
		Status:   &status,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, apperror.InternalError(err)
	}
	return s.maskAll(records), total, nil
}

// maskAll replaces encrypted payer references with their masked display form.
func (s *reportingService) maskAll(records []domain.DonationRecord) []domain.DonationRecord {
	for i := range records {
		plain, err := s.encSvc.Decrypt(records[i].PayerReferenceEnc)
		if err != nil {
			continue
		}
		records[i].PayerReference = domain.MaskPayerReference(plain)
	}
	return records
}
