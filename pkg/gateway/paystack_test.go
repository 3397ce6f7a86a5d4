package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"glam-commerce/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewPaystackClient(utils.PaystackConfig{
		BaseURL:       server.URL,
		SecretKey:     "sk_test_secret",
		WebhookSecret: "whsec_test",
		TimeoutSecs:   5,
	}, zap.NewNop())
}

func TestInitializeSendsMetadata(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": map[string]any{
				"authorization_url": "https://checkout.paystack.com/abc",
				"access_code":       "abc",
				"reference":         "ref-123",
			},
		})
	})

	result, err := client.Initialize(context.Background(), InitializeRequest{
		Amount: 1100000,
		Email:  "ada@example.com",
		Metadata: Metadata{
			Type:        "order",
			ReferenceID: "some-uuid",
			Purpose:     "order",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_test_secret", gotAuth)
	assert.Equal(t, "ref-123", result.Reference)
	assert.Equal(t, "https://checkout.paystack.com/abc", result.AuthorizationURL)

	meta, ok := gotBody["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "order", meta["type"])
	assert.Equal(t, "order", meta["payment_type"])
	assert.Equal(t, float64(1100000), gotBody["amount"])
}

func TestVerifyParsesResult(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/ref-123", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": map[string]any{
				"status":    "success",
				"amount":    1100000,
				"reference": "ref-123",
				"metadata": map[string]any{
					"type":         "order",
					"referenceId": "some-uuid",
					"payment_type": "order",
				},
			},
		})
	})

	result, err := client.Verify(context.Background(), "ref-123")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, int64(1100000), result.Amount)
	assert.Equal(t, "order", result.Metadata.Type)
	assert.Equal(t, "order", result.Metadata.Purpose)
	assert.NotEmpty(t, result.RawPayload)
}

func TestVerifyFailedCharge(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data":   map[string]any{"status": "failed", "reference": "ref-dead"},
		})
	})

	result, err := client.Verify(context.Background(), "ref-dead")
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestAPIErrorSurfaces(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"status":  false,
			"message": "Invalid key",
		})
	})

	_, err := client.Verify(context.Background(), "ref-123")
	assert.Error(t, err)
}

func TestRefund(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/refund", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ref-dep-1", body["transaction"])
		assert.Equal(t, float64(400000), body["amount"])

		json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data":   map[string]any{"id": 8871, "status": "pending"},
		})
	})

	result, err := client.Refund(context.Background(), RefundRequest{
		Reference: "ref-dep-1",
		Amount:    400000,
		Reason:    "booking cancelled",
	})
	require.NoError(t, err)
	assert.Equal(t, "8871", result.RefundID)
	assert.Equal(t, "pending", result.Status)
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestValidateWebhookSignature(t *testing.T) {
	client := testClient(t, nil)
	body := []byte(`{"event":"charge.success"}`)

	assert.True(t, client.ValidateWebhookSignature(body, sign("whsec_test", body)))

	// Wrong secret, tampered body, and empty inputs all fail closed.
	assert.False(t, client.ValidateWebhookSignature(body, sign("other", body)))
	assert.False(t, client.ValidateWebhookSignature([]byte(`{"event":"x"}`), sign("whsec_test", body)))
	assert.False(t, client.ValidateWebhookSignature(body, ""))
	assert.False(t, client.ValidateWebhookSignature(nil, sign("whsec_test", nil)))
}
