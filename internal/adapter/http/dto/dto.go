package dto

// ProviderCallbackRequest is the payment confirmation callback payload.
// Field names follow the M-Pesa C2B confirmation format.
type ProviderCallbackRequest struct {
	TransID           string `json:"TransID" binding:"required,max=100,safe_id"`
	TransAmount       string `json:"TransAmount" binding:"required"`
	MSISDN            string `json:"MSISDN" binding:"required,max=64"`
	BillRefNumber     string `json:"BillRefNumber" binding:"omitempty,max=50"`
	TransTime         string `json:"TransTime" binding:"omitempty,len=14"` // yyyymmddhhmmss
	BusinessShortCode string `json:"BusinessShortCode" binding:"omitempty,max=20"`
	FirstName         string `json:"FirstName" binding:"omitempty,max=100"`
}

// ProviderCallbackResponse is the acknowledgment the provider expects.
type ProviderCallbackResponse struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

// LoginRequest is the request body for operator login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// CreateDonationRequest is the request body for a manually entered donation.
type CreateDonationRequest struct {
	ProviderTransactionID string  `json:"provider_transaction_id" binding:"required,max=100,safe_id"`
	PayerReference        string  `json:"payer_reference" binding:"required,max=64"`
	Amount                string  `json:"amount" binding:"required"`
	CampaignCode          *string `json:"campaign_code,omitempty" binding:"omitempty,max=50,safe_id"`
}

// UpdateDonationStatusRequest is the request body for an operator-driven
// status change.
type UpdateDonationStatusRequest struct {
	Status          string  `json:"status" binding:"required,oneof=CONFIRMED RECORDING_FAILED RECORDED"`
	LedgerReference *string `json:"ledger_reference,omitempty" binding:"omitempty,max=200"`
}

// CreateCampaignRequest is the request body for campaign creation.
type CreateCampaignRequest struct {
	Code string `json:"code" binding:"required,min=2,max=50,safe_id"`
	Name string `json:"name" binding:"required,min=1,max=200"`
	Goal string `json:"goal" binding:"required"`
}

// DonationResponse is the response body for a single donation record.
type DonationResponse struct {
	ID                    string  `json:"id"`
	ProviderTransactionID string  `json:"provider_transaction_id"`
	PayerReference        string  `json:"payer_reference"` // masked
	Amount                string  `json:"amount"`
	CampaignID            *string `json:"campaign_id,omitempty"`
	Status                string  `json:"status"`
	LedgerReference       *string `json:"ledger_reference,omitempty"`
	LastAnchorError       *string `json:"last_anchor_error,omitempty"`
	CreatedAt             string  `json:"created_at"`
	ConfirmedAt           *string `json:"confirmed_at,omitempty"`
	RecordedAt            *string `json:"recorded_at,omitempty"`
}

// CampaignResponse is the response body for a campaign.
type CampaignResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Goal        string `json:"goal"`
	Raised      string `json:"raised"`
	GoalReached bool   `json:"goal_reached"`
	CreatedAt   string `json:"created_at"`
}

// DonationListResponse wraps a paginated donation list.
type DonationListResponse struct {
	Items      []DonationResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// StatsResponse is the response for dashboard statistics.
type StatsResponse struct {
	TotalDonations  int64  `json:"total_donations"`
	Confirmed       int64  `json:"confirmed"`
	Recorded        int64  `json:"recorded"`
	RecordingFailed int64  `json:"recording_failed"`
	TotalAmount     string `json:"total_amount"`
	RecordedAmount  string `json:"recorded_amount"`
}
