// Package anchor provides the HTTP client for the external anchoring service.
package anchor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"donation-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// HTTPClient implements ports.AnchorClient by POSTing the donation facts to
// the anchoring service. Requests are HMAC-signed over the JSON body so the
// service can authenticate the caller.
type HTTPClient struct {
	baseURL string
	secret  string
	sigSvc  ports.SignatureService
	client  *http.Client
	log     zerolog.Logger
}

// NewHTTPClient creates a new anchoring service client.
func NewHTTPClient(
	baseURL string,
	secret string,
	sigSvc ports.SignatureService,
	timeout time.Duration,
	log zerolog.Logger,
) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		secret:  secret,
		sigSvc:  sigSvc,
		client:  &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "anchor_client").Logger(),
	}
}

type anchorRequestBody struct {
	ProviderTransactionID string `json:"provider_transaction_id"`
	PayerReference        string `json:"payer_reference"`
	Amount                string `json:"amount"`
}

type anchorResponseBody struct {
	Reference string `json:"reference"`
}

// Anchor submits the donation facts and returns the anchor reference.
func (c *HTTPClient) Anchor(ctx context.Context, req ports.AnchorRequest) (string, error) {
	body, err := json.Marshal(anchorRequestBody{
		ProviderTransactionID: req.ProviderTransactionID,
		PayerReference:        req.PayerReference,
		Amount:                req.Amount.String(),
	})
	if err != nil {
		return "", fmt.Errorf("marshaling anchor request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating anchor request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		httpReq.Header.Set("X-Signature", c.sigSvc.Sign(c.secret, string(body)))
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling anchoring service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading anchor response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("provider_tx_id", req.ProviderTransactionID).
			Msg("anchoring service returned non-2xx")
		return "", fmt.Errorf("anchoring service returned status %d", resp.StatusCode)
	}

	var parsed anchorResponseBody
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parsing anchor response: %w", err)
	}
	if parsed.Reference == "" {
		return "", fmt.Errorf("anchoring service returned empty reference")
	}

	return parsed.Reference, nil
}
