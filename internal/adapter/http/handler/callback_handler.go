package handler

import (
	"errors"
	"net/http"
	"time"

	"donation-ledger/internal/adapter/http/dto"
	"donation-ledger/internal/core/domain"
	"donation-ledger/internal/core/ports"
	"donation-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// transTimeLayout is the provider's confirmation timestamp format.
const transTimeLayout = "20060102150405"

// CallbackHandler handles the provider's payment confirmation callback.
// The provider delivers at-least-once, so the response codes drive its retry
// behavior: a 2xx with ResultCode 0 acknowledges, anything else redelivers.
type CallbackHandler struct {
	reconcileSvc ports.ReconcileService
	// ackOnPersistenceFailure acknowledges the provider even when the record
	// could not be persisted. Recovery is then operator-driven only.
	ackOnPersistenceFailure bool
	log                     zerolog.Logger
}

// NewCallbackHandler creates a new CallbackHandler.
func NewCallbackHandler(reconcileSvc ports.ReconcileService, ackOnPersistenceFailure bool, log zerolog.Logger) *CallbackHandler {
	return &CallbackHandler{
		reconcileSvc:            reconcileSvc,
		ackOnPersistenceFailure: ackOnPersistenceFailure,
		log:                     log.With().Str("component", "callback_handler").Logger(),
	}
}

// Confirm handles POST /api/v1/payments/callback.
func (h *CallbackHandler) Confirm(c *gin.Context) {
	var req dto.ProviderCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ProviderCallbackResponse{
			ResultCode: 1,
			ResultDesc: "Rejected",
		})
		return
	}

	amount, err := decimal.NewFromString(req.TransAmount)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ProviderCallbackResponse{
			ResultCode: 1,
			ResultDesc: "Rejected",
		})
		return
	}

	occurredAt := time.Now().UTC()
	if req.TransTime != "" {
		if t, err := time.Parse(transTimeLayout, req.TransTime); err == nil {
			occurredAt = t
		}
	}

	record, err := h.reconcileSvc.Confirm(c.Request.Context(), domain.PaymentNotification{
		ProviderTransactionID: req.TransID,
		PayerReference:        req.MSISDN,
		Amount:                amount,
		AccountReference:      req.BillRefNumber,
		OccurredAt:            occurredAt,
	})
	if err != nil {
		h.respondError(c, req.TransID, err)
		return
	}

	h.log.Info().
		Str("provider_tx_id", req.TransID).
		Str("donation_id", record.ID.String()).
		Msg("provider callback acknowledged")

	c.JSON(http.StatusOK, dto.ProviderCallbackResponse{
		ResultCode: 0,
		ResultDesc: "Accepted",
	})
}

func (h *CallbackHandler) respondError(c *gin.Context, providerTxID string, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "LED_001":
			// Malformed notification: the same payload will never become
			// valid, so tell the provider not to redeliver.
			c.JSON(http.StatusBadRequest, dto.ProviderCallbackResponse{
				ResultCode: 1,
				ResultDesc: "Rejected",
			})
			return
		case "LED_004":
			if h.ackOnPersistenceFailure {
				h.log.Error().Err(err).
					Str("provider_tx_id", providerTxID).
					Msg("persistence failed, acknowledging per policy; notification is lost until operator action")
				c.JSON(http.StatusOK, dto.ProviderCallbackResponse{
					ResultCode: 0,
					ResultDesc: "Accepted",
				})
				return
			}
			h.log.Error().Err(err).
				Str("provider_tx_id", providerTxID).
				Msg("persistence failed, signaling provider to redeliver")
			c.JSON(http.StatusServiceUnavailable, dto.ProviderCallbackResponse{
				ResultCode: 1,
				ResultDesc: "Service unavailable",
			})
			return
		}
	}

	h.log.Error().Err(err).Str("provider_tx_id", providerTxID).Msg("provider callback failed")
	c.JSON(http.StatusInternalServerError, dto.ProviderCallbackResponse{
		ResultCode: 1,
		ResultDesc: "Internal error",
	})
}
