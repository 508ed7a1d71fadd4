package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"donation-ledger/internal/adapter/http/dto"
	"donation-ledger/internal/core/domain"
	"donation-ledger/internal/core/ports"
	"donation-ledger/internal/core/ports/mocks"
	"donation-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func confirmedDonation() *domain.DonationRecord {
	now := time.Now().UTC()
	return &domain.DonationRecord{
		ID:                    uuid.New(),
		ProviderTransactionID: "RKTQDM7W6S",
		PayerReference:        "2547******78",
		Amount:                decimal.NewFromInt(1500),
		Status:                domain.DonationStatusConfirmed,
		CreatedAt:             now,
		ConfirmedAt:           &now,
	}
}

// --- Callback Handler Tests ---

func TestCallbackConfirm_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReconcile := mocks.NewMockReconcileService(ctrl)
	h := NewCallbackHandler(mockReconcile, false, zerolog.Nop())

	record := confirmedDonation()
	mockReconcile.EXPECT().Confirm(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, n domain.PaymentNotification) (*domain.DonationRecord, error) {
			assert.Equal(t, "RKTQDM7W6S", n.ProviderTransactionID)
			assert.Equal(t, "254712345678", n.PayerReference)
			assert.Equal(t, "WATER-2026", n.AccountReference)
			assert.True(t, decimal.NewFromFloat(1500).Equal(n.Amount))
			return record, nil
		})

	body, _ := json.Marshal(dto.ProviderCallbackRequest{
		TransID:       "RKTQDM7W6S",
		TransAmount:   "1500.00",
		MSISDN:        "254712345678",
		BillRefNumber: "WATER-2026",
		TransTime:     "20260829143000",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/payments/callback", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Confirm(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.ProviderCallbackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.ResultCode)
	assert.Equal(t, "Accepted", resp.ResultDesc)
}

func TestCallbackConfirm_BindingError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReconcile := mocks.NewMockReconcileService(ctrl)
	h := NewCallbackHandler(mockReconcile, false, zerolog.Nop())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Confirm(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.ProviderCallbackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.ResultCode)
}

func TestCallbackConfirm_InvalidAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReconcile := mocks.NewMockReconcileService(ctrl)
	h := NewCallbackHandler(mockReconcile, false, zerolog.Nop())

	body, _ := json.Marshal(dto.ProviderCallbackRequest{
		TransID:     "RKTQDM7W6S",
		TransAmount: "not-a-number",
		MSISDN:      "254712345678",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Confirm(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallbackConfirm_InvalidNotificationNotRedelivered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReconcile := mocks.NewMockReconcileService(ctrl)
	h := NewCallbackHandler(mockReconcile, false, zerolog.Nop())

	mockReconcile.EXPECT().Confirm(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInvalidNotification("amount must be positive"))

	body, _ := json.Marshal(dto.ProviderCallbackRequest{
		TransID:     "RKTQDM7W6S",
		TransAmount: "-5",
		MSISDN:      "254712345678",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Confirm(c)

	// 400 so the provider does not redeliver a payload that can never succeed
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.ProviderCallbackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.ResultCode)
}

func TestCallbackConfirm_PersistenceFailureTriggersRedelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReconcile := mocks.NewMockReconcileService(ctrl)
	h := NewCallbackHandler(mockReconcile, false, zerolog.Nop())

	mockReconcile.EXPECT().Confirm(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrPersistenceFailed(errors.New("db down")))

	body, _ := json.Marshal(dto.ProviderCallbackRequest{
		TransID:     "RKTQDM7W6S",
		TransAmount: "1500",
		MSISDN:      "254712345678",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Confirm(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp dto.ProviderCallbackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.ResultCode)
}

func TestCallbackConfirm_PersistenceFailureAckedPerPolicy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReconcile := mocks.NewMockReconcileService(ctrl)
	h := NewCallbackHandler(mockReconcile, true, zerolog.Nop())

	mockReconcile.EXPECT().Confirm(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrPersistenceFailed(errors.New("db down")))

	body, _ := json.Marshal(dto.ProviderCallbackRequest{
		TransID:     "RKTQDM7W6S",
		TransAmount: "1500",
		MSISDN:      "254712345678",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Confirm(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.ProviderCallbackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.ResultCode)
}

// --- Auth Handler Tests ---

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(24 * time.Hour)
	mockAuth.EXPECT().Login(gomock.Any(), "admin", "password123").Return("jwt-token-123", expiry, nil)

	body, _ := json.Marshal(dto.LoginRequest{
		Username: "admin",
		Password: "password123",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token-123", data["token"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "bad", "bad").Return("", time.Time{}, apperror.ErrInvalidCredentials())

	body, _ := json.Marshal(dto.LoginRequest{
		Username: "bad",
		Password: "bad",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Donation Handler Tests ---

func TestCreateDonation_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReconcile := mocks.NewMockReconcileService(ctrl)
	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDonationHandler(mockReconcile, mockReporting)

	record := confirmedDonation()
	mockReconcile.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(record, nil)

	code := "WATER-2026"
	body, _ := json.Marshal(dto.CreateDonationRequest{
		ProviderTransactionID: "RKTQDM7W6S",
		PayerReference:        "254712345678",
		Amount:                "1500",
		CampaignCode:          &code,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, record.ID.String(), data["id"])
	assert.Equal(t, "CONFIRMED", data["status"])
	assert.Equal(t, "2547******78", data["payer_reference"])
}

func TestGetDonation_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReconcile := mocks.NewMockReconcileService(ctrl)
	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDonationHandler(mockReconcile, mockReporting)

	record := confirmedDonation()
	mockReporting.EXPECT().GetDonation(gomock.Any(), record.ID).Return(record, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: record.ID.String()}}

	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetDonation_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReconcile := mocks.NewMockReconcileService(ctrl)
	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDonationHandler(mockReconcile, mockReporting)

	id := uuid.New()
	mockReporting.EXPECT().GetDonation(gomock.Any(), id).Return(nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDonation_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReconcile := mocks.NewMockReconcileService(ctrl)
	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDonationHandler(mockReconcile, mockReporting)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListDonations_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReconcile := mocks.NewMockReconcileService(ctrl)
	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDonationHandler(mockReconcile, mockReporting)

	record := confirmedDonation()
	mockReporting.EXPECT().ListDonations(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, params ports.DonationListParams) ([]domain.DonationRecord, int64, error) {
			assert.Equal(t, 1, params.Page)
			assert.Equal(t, 20, params.PageSize)
			require.NotNil(t, params.Status)
			assert.Equal(t, domain.DonationStatusConfirmed, *params.Status)
			return []domain.DonationRecord{*record}, 1, nil
		})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=1&page_size=20&status=CONFIRMED", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, float64(1), data["total"])
	assert.Equal(t, float64(1), data["total_pages"])
}

func TestListDonations_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReconcile := mocks.NewMockReconcileService(ctrl)
	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDonationHandler(mockReconcile, mockReporting)

	mockReporting.EXPECT().ListDonations(gomock.Any(), gomock.Any()).
		Return(nil, int64(0), apperror.InternalError(errors.New("db down")))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.List(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUpdateDonationStatus_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReconcile := mocks.NewMockReconcileService(ctrl)
	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDonationHandler(mockReconcile, mockReporting)

	record := confirmedDonation()
	record.Status = domain.DonationStatusRecorded
	ledgerRef := "LEDGER-REF-1"

	mockReconcile.EXPECT().
		AdvanceStatus(gomock.Any(), record.ID, domain.DonationStatusRecorded, &ledgerRef).
		Return(record, nil)

	body, _ := json.Marshal(dto.UpdateDonationStatusRequest{
		Status:          "RECORDED",
		LedgerReference: &ledgerRef,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: record.ID.String()}}

	h.UpdateStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateDonationStatus_InvalidTransition(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReconcile := mocks.NewMockReconcileService(ctrl)
	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDonationHandler(mockReconcile, mockReporting)

	id := uuid.New()
	mockReconcile.EXPECT().
		AdvanceStatus(gomock.Any(), id, domain.DonationStatusConfirmed, gomock.Nil()).
		Return(nil, apperror.ErrInvalidTransition("RECORDED", "CONFIRMED"))

	body, _ := json.Marshal(dto.UpdateDonationStatusRequest{Status: "CONFIRMED"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.UpdateStatus(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// --- Campaign Handler Tests ---

func TestCreateCampaign_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockCampaignRepository(ctrl)
	h := NewCampaignHandler(mockRepo)

	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, campaign *domain.Campaign) error {
			assert.Equal(t, "WATER-2026", campaign.Code)
			assert.True(t, campaign.Raised.IsZero())
			return nil
		})

	body, _ := json.Marshal(dto.CreateCampaignRequest{
		Code: "WATER-2026",
		Name: "Clean Water Fund",
		Goal: "100000",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "WATER-2026", data["code"])
	assert.Equal(t, false, data["goal_reached"])
}

func TestCreateCampaign_DuplicateCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockCampaignRepository(ctrl)
	h := NewCampaignHandler(mockRepo)

	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.ErrCampaignCodeTaken)

	body, _ := json.Marshal(dto.CreateCampaignRequest{
		Code: "WATER-2026",
		Name: "Clean Water Fund",
		Goal: "100000",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateCampaign_NegativeGoal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockCampaignRepository(ctrl)
	h := NewCampaignHandler(mockRepo)

	body, _ := json.Marshal(dto.CreateCampaignRequest{
		Code: "WATER-2026",
		Name: "Clean Water Fund",
		Goal: "-100",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Report Handler Tests ---

func TestGetStats_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	mockRecorder := mocks.NewMockRecorderService(ctrl)
	h := NewReportHandler(mockReporting, mockRecorder)

	mockReporting.EXPECT().GetStats(gomock.Any(), "all").Return(&ports.DonationStats{
		TotalDonations:  100,
		Confirmed:       10,
		Recorded:        85,
		RecordingFailed: 5,
		TotalAmount:     decimal.NewFromInt(150000),
		RecordedAmount:  decimal.NewFromInt(127500),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?period=all", nil)

	h.GetStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(100), data["total_donations"])
	assert.Equal(t, "150000", data["total_amount"])
}

func TestReconciliationReport_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	mockRecorder := mocks.NewMockRecorderService(ctrl)
	h := NewReportHandler(mockReporting, mockRecorder)

	record := confirmedDonation()
	record.Status = domain.DonationStatusRecordingFailed
	mockReporting.EXPECT().ReconciliationReport(gomock.Any(), 1, 20).
		Return([]domain.DonationRecord{*record}, int64(1), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=1&page_size=20", nil)

	h.ReconciliationReport(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
}

func TestRetryRecord_Accepted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	mockRecorder := mocks.NewMockRecorderService(ctrl)
	h := NewReportHandler(mockReporting, mockRecorder)

	id := uuid.New()
	mockRecorder.EXPECT().RetryRecord(gomock.Any(), id).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.RetryRecord(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "retry_scheduled", data["status"])
}

func TestRetryRecord_NotRetryable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	mockRecorder := mocks.NewMockRecorderService(ctrl)
	h := NewReportHandler(mockReporting, mockRecorder)

	id := uuid.New()
	mockRecorder.EXPECT().RetryRecord(gomock.Any(), id).Return(apperror.ErrRecordNotRetryable())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.RetryRecord(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// --- Health Check Test ---

func TestHealthCheck_NoDependencies(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck()(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}
