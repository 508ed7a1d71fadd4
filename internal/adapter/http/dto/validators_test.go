package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := LoginRequest{
		Username: "  admin  ",
		Password: "  pass1234  ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "admin", req.Username)
	assert.Equal(t, "pass1234", req.Password)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := CreateCampaignRequest{
		Code: "WATER-2026",
		Name: "drive <script>alert('x')</script> appeal",
		Goal: "100000",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.Name, "&lt;script&gt;")
	assert.NotContains(t, req.Name, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	code := "  WATER-2026  "
	req := CreateDonationRequest{
		ProviderTransactionID: "RKTQDM7W6S",
		PayerReference:        "254712345678",
		Amount:                "1500",
		CampaignCode:          &code,
	}
	SanitizeStruct(&req)

	assert.Equal(t, "WATER-2026", *req.CampaignCode)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := CreateDonationRequest{
		ProviderTransactionID: "RKTQDM7W6S",
		PayerReference:        "254712345678",
		Amount:                "1500",
		CampaignCode:          nil,
	}
	SanitizeStruct(&req)
	assert.Nil(t, req.CampaignCode)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"RKTQDM7W6S",
		"TX_002",
		"a.b.c",
		"simple123",
		"ABC-def_GHI.123",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"tx 001",      // space
		"tx<001>",     // angle brackets
		"tx;DROP",     // semicolon
		"",            // empty
		"hello world", // space
		"tx\n001",     // newline
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

func TestSanitizeStruct_ProviderCallbackRequest(t *testing.T) {
	req := ProviderCallbackRequest{
		TransID:       "  RKTQDM7W6S  ",
		TransAmount:   " 1500.00 ",
		MSISDN:        " 254712345678 ",
		BillRefNumber: " WATER-2026 ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "RKTQDM7W6S", req.TransID)
	assert.Equal(t, "1500.00", req.TransAmount)
	assert.Equal(t, "254712345678", req.MSISDN)
	assert.Equal(t, "WATER-2026", req.BillRefNumber)
}
