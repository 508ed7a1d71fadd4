package handler

import (
	"errors"
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

// CampaignHandler handles campaign endpoints.
type CampaignHandler struct {
	campaignRepo ports.CampaignRepository
}

// NewCampaignHandler creates a new CampaignHandler.
func NewCampaignHandler(campaignRepo ports.CampaignRepository) *CampaignHandler {
	return &CampaignHandler{campaignRepo: campaignRepo}
}

// Create handles POST /api/v1/campaigns.
func (h *CampaignHandler) Create(c *gin.Context) {
	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	goal, err := decimal.NewFromString(req.Goal)
	if err != nil || goal.IsNegative() {
		response.Error(c, apperror.Validation("invalid goal amount"))
		return
	}

	campaign := &domain.Campaign{
		ID:        uuid.New(),
		Code:      req.Code,
		Name:      req.Name,
		Goal:      goal,
		Raised:    decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.campaignRepo.Create(c.Request.Context(), campaign); err != nil {
		if errors.Is(err, domain.ErrCampaignCodeTaken) {
			response.Error(c, apperror.ErrCampaignCodeExists())
			return
		}
		response.Error(c, apperror.InternalError(err))
		return
	}

	response.Created(c, toCampaignResponse(campaign))
}

// Get handles GET /api/v1/campaigns/:id.
func (h *CampaignHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid campaign id"))
		return
	}

	campaign, err := h.campaignRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}
	if campaign == nil {
		response.Error(c, apperror.ErrNotFound("campaign"))
		return
	}

	response.OK(c, toCampaignResponse(campaign))
}

// List handles GET /api/v1/campaigns.
func (h *CampaignHandler) List(c *gin.Context) {
	campaigns, err := h.campaignRepo.List(c.Request.Context())
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	items := make([]dto.CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		items = append(items, toCampaignResponse(&campaigns[i]))
	}
	response.OK(c, items)
}

// toCampaignResponse converts a domain.Campaign to its DTO.
func toCampaignResponse(campaign *domain.Campaign) dto.CampaignResponse {
	return dto.CampaignResponse{
		ID:          campaign.ID.String(),
		Code:        campaign.Code,
		Name:        campaign.Name,
		Goal:        campaign.Goal.String(),
		Raised:      campaign.Raised.String(),
		GoalReached: campaign.GoalReached(),
		CreatedAt:   campaign.CreatedAt.Format(time.RFC3339),
	}
}
