package handler

import (
	"math"
	"strconv"
	"time"

	"donation-ledger/internal/adapter/http/dto"
	"donation-ledger/internal/core/domain"
	"donation-ledger/internal/core/ports"
	"donation-ledger/pkg/apperror"
	"donation-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DonationHandler handles donation record endpoints.
type DonationHandler struct {
	reconcileSvc ports.ReconcileService
	reportingSvc ports.ReportingService
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(reconcileSvc ports.ReconcileService, reportingSvc ports.ReportingService) *DonationHandler {
	return &DonationHandler{reconcileSvc: reconcileSvc, reportingSvc: reportingSvc}
}

// Create handles POST /api/v1/donations. Manually entered donations flow
// through the same confirmation path as provider callbacks, so the same
// idempotency and attribution rules apply.
func (h *DonationHandler) Create(c *gin.Context) {
	var req dto.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.Validation("invalid amount"))
		return
	}

	n := domain.PaymentNotification{
		ProviderTransactionID: req.ProviderTransactionID,
		PayerReference:        req.PayerReference,
		Amount:                amount,
		OccurredAt:            time.Now().UTC(),
	}
	if req.CampaignCode != nil {
		n.AccountReference = *req.CampaignCode
	}

	record, err := h.reconcileSvc.Confirm(c.Request.Context(), n)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toDonationResponse(record))
}

// Get handles GET /api/v1/donations/:id.
func (h *DonationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid donation id"))
		return
	}

	record, err := h.reportingSvc.GetDonation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if record == nil {
		response.Error(c, apperror.ErrNotFound("donation"))
		return
	}

	response.OK(c, toDonationResponse(record))
}

// List handles GET /api/v1/donations.
func (h *DonationHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	params := ports.DonationListParams{
		Page:     page,
		PageSize: pageSize,
	}

	if s := c.Query("status"); s != "" {
		status := domain.DonationStatus(s)
		params.Status = &status
	}
	if cid := c.Query("campaign_id"); cid != "" {
		if v, err := uuid.Parse(cid); err == nil {
			params.CampaignID = &v
		}
	}
	if f := c.Query("from"); f != "" {
		if v, err := strconv.ParseInt(f, 10, 64); err == nil {
			params.From = &v
		}
	}
	if t := c.Query("to"); t != "" {
		if v, err := strconv.ParseInt(t, 10, 64); err == nil {
			params.To = &v
		}
	}

	records, total, err := h.reportingSvc.ListDonations(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toDonationListResponse(records, total, page, pageSize))
}

// UpdateStatus handles PATCH /api/v1/donations/:id/status. Only forward
// transitions of the status machine are accepted.
func (h *DonationHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid donation id"))
		return
	}

	var req dto.UpdateDonationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	record, err := h.reconcileSvc.AdvanceStatus(c.Request.Context(), id, domain.DonationStatus(req.Status), req.LedgerReference)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toDonationResponse(record))
}

// toDonationResponse converts a domain.DonationRecord to its DTO.
func toDonationResponse(d *domain.DonationRecord) dto.DonationResponse {
	resp := dto.DonationResponse{
		ID:                    d.ID.String(),
		ProviderTransactionID: d.ProviderTransactionID,
		PayerReference:        d.PayerReference,
		Amount:                d.Amount.String(),
		Status:                string(d.Status),
		LedgerReference:       d.LedgerReference,
		LastAnchorError:       d.LastAnchorError,
		CreatedAt:             d.CreatedAt.Format(time.RFC3339),
	}
	if d.CampaignID != nil {
		s := d.CampaignID.String()
		resp.CampaignID = &s
	}
	if d.ConfirmedAt != nil {
		s := d.ConfirmedAt.Format(time.RFC3339)
		resp.ConfirmedAt = &s
	}
	if d.RecordedAt != nil {
		s := d.RecordedAt.Format(time.RFC3339)
		resp.RecordedAt = &s
	}
	return resp
}

func toDonationListResponse(records []domain.DonationRecord, total int64, page, pageSize int) dto.DonationListResponse {
	items := make([]dto.DonationResponse, 0, len(records))
	for i := range records {
		items = append(items, toDonationResponse(&records[i]))
	}
	return dto.DonationListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}
}
