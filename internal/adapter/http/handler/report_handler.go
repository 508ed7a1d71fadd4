package handler

import (
	"strconv"

	"donation-ledger/internal/adapter/http/dto"
	"donation-ledger/internal/core/ports"
	"donation-ledger/pkg/apperror"
	"donation-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportHandler handles dashboard statistics and reconciliation endpoints.
type ReportHandler struct {
	reportingSvc ports.ReportingService
	recorderSvc  ports.RecorderService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportingSvc ports.ReportingService, recorderSvc ports.RecorderService) *ReportHandler {
	return &ReportHandler{reportingSvc: reportingSvc, recorderSvc: recorderSvc}
}

// GetStats handles GET /api/v1/dashboard/stats.
func (h *ReportHandler) GetStats(c *gin.Context) {
	period := c.DefaultQuery("period", "all")
	stats, err := h.reportingSvc.GetStats(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.StatsResponse{
		TotalDonations:  stats.TotalDonations,
		Confirmed:       stats.Confirmed,
		Recorded:        stats.Recorded,
		RecordingFailed: stats.RecordingFailed,
		TotalAmount:     stats.TotalAmount.String(),
		RecordedAmount:  stats.RecordedAmount.String(),
	})
}

// ReconciliationReport handles GET /api/v1/reconciliation/report. It lists
// records whose anchoring exhausted all retries.
func (h *ReportHandler) ReconciliationReport(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	records, total, err := h.reportingSvc.ReconciliationReport(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toDonationListResponse(records, total, page, pageSize))
}

// RetryRecord handles POST /api/v1/reconciliation/retry/:id. It restarts
// anchoring for a RECORDING_FAILED record.
func (h *ReportHandler) RetryRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid donation id"))
		return
	}

	if err := h.recorderSvc.RetryRecord(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, gin.H{"donation_id": id.String(), "status": "retry_scheduled"})
}
