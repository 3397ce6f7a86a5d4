package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"glam-commerce/pkg/utils"

	"go.uber.org/zap"
)

// Metadata is threaded from Initialize through to the webhook so the
// reconciler knows what a payment was for without inferring it from amounts.
type Metadata struct {
	Type        string `json:"type"`                   // "order" | "booking"
	ReferenceID string `json:"referenceId"`            // order/booking UUID
	Purpose     string `json:"payment_type,omitempty"` // "order" | "deposit" | "balance"
}

type InitializeRequest struct {
	Amount   int64 // kobo
	Email    string
	Metadata Metadata
}

type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

type VerifyResult struct {
	Success    bool
	Amount     int64 // kobo
	Reference  string
	Metadata   Metadata
	RawPayload []byte
}

type RefundRequest struct {
	Reference string
	Amount    int64 // kobo; zero means full refund
	Reason    string
}

type RefundResult struct {
	RefundID string
	Status   string
}

// Client wraps the payment provider's initialize/verify/refund operations and
// webhook signature validation.
type Client interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error)
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
	ValidateWebhookSignature(rawBody []byte, signatureHeader string) bool
}

type paystackClient struct {
	baseURL       string
	secretKey     string
	webhookSecret string
	httpClient    *http.Client
	log           *zap.Logger
}

func NewPaystackClient(config utils.PaystackConfig, log *zap.Logger) Client {
	timeout := time.Duration(config.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &paystackClient{
		baseURL:       config.BaseURL,
		secretKey:     config.SecretKey,
		webhookSecret: config.WebhookSecret,
		httpClient:    &http.Client{Timeout: timeout},
		log:           log.With(zap.String("component", "paystack")),
	}
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *paystackClient) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	payload := map[string]any{
		"amount":   req.Amount,
		"email":    req.Email,
		"currency": "NGN",
		"metadata": req.Metadata,
	}

	data, err := c.post(ctx, "/transaction/initialize", payload)
	if err != nil {
		return nil, fmt.Errorf("initialize transaction: %w", err)
	}

	var body struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decode initialize response: %w", err)
	}

	c.log.Info("Transaction initialized",
		zap.String("reference", body.Reference),
		zap.Int64("amount", req.Amount),
		zap.String("type", req.Metadata.Type),
	)

	return &InitializeResult{
		AuthorizationURL: body.AuthorizationURL,
		AccessCode:       body.AccessCode,
		Reference:        body.Reference,
	}, nil
}

func (c *paystackClient) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	data, err := c.get(ctx, "/transaction/verify/"+reference)
	if err != nil {
		return nil, fmt.Errorf("verify transaction %s: %w", reference, err)
	}

	var body struct {
		Status    string   `json:"status"`
		Amount    int64    `json:"amount"`
		Reference string   `json:"reference"`
		Metadata  Metadata `json:"metadata"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}

	return &VerifyResult{
		Success:    body.Status == "success",
		Amount:     body.Amount,
		Reference:  body.Reference,
		Metadata:   body.Metadata,
		RawPayload: data,
	}, nil
}

func (c *paystackClient) Refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	payload := map[string]any{
		"transaction":   req.Reference,
		"merchant_note": req.Reason,
	}
	if req.Amount > 0 {
		payload["amount"] = req.Amount
	}

	data, err := c.post(ctx, "/refund", payload)
	if err != nil {
		return nil, fmt.Errorf("refund transaction %s: %w", req.Reference, err)
	}

	var body struct {
		ID     json.Number `json:"id"`
		Status string      `json:"status"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decode refund response: %w", err)
	}

	c.log.Info("Refund requested",
		zap.String("reference", req.Reference),
		zap.Int64("amount", req.Amount),
		zap.String("status", body.Status),
	)

	return &RefundResult{RefundID: body.ID.String(), Status: body.Status}, nil
}

// ValidateWebhookSignature checks the HMAC-SHA512 of the raw body against the
// signature header. Fails closed on any malformed input.
func (c *paystackClient) ValidateWebhookSignature(rawBody []byte, signatureHeader string) bool {
	if signatureHeader == "" || len(rawBody) == 0 {
		return false
	}

	secret := c.webhookSecret
	if secret == "" {
		secret = c.secretKey
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signatureHeader))
}

func (c *paystackClient) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *paystackClient) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	return c.do(req)
}

func (c *paystackClient) do(req *http.Request) (json.RawMessage, error) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call payment provider: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Status {
		return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, envelope.Message)
	}

	return envelope.Data, nil
}
