package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointSelection(t *testing.T) {
	// Test-mode settings must route all calls to the sandbox endpoint.
	test := NewClient("key", true)
	assert.Equal(t, "https://checkout-test.adyen.com/v71", test.BaseURL())

	live := NewClient("key", false)
	assert.Equal(t, "https://checkout-live.adyen.com/checkout/v71", live.BaseURL())
}

func TestCreatePaymentLink(t *testing.T) {
	var gotPath, gotAPIKey string
	var gotReq PaymentLinkRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("X-API-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(PaymentLinkResponse{
			ID:        "PL1234",
			URL:       "https://pay.example.test/PL1234",
			Reference: gotReq.Reference,
			Status:    LinkStatusActive,
		})
	}))
	defer srv.Close()

	c := NewClient("secret-key", true).WithBaseURL(srv.URL)
	resp, err := c.CreatePaymentLink(context.Background(), &PaymentLinkRequest{
		MerchantAccount: "TestMerchant",
		Reference:       "ORD-1",
		Amount:          Amount{Currency: "EUR", Value: 1999},
	})
	require.NoError(t, err)

	assert.Equal(t, "/paymentLinks", gotPath)
	assert.Equal(t, "secret-key", gotAPIKey)
	assert.Equal(t, "TestMerchant", gotReq.MerchantAccount)
	assert.Equal(t, int64(1999), gotReq.Amount.Value)
	assert.Equal(t, "PL1234", resp.ID)
	assert.Equal(t, "https://pay.example.test/PL1234", resp.URL)
}

func TestCreatePaymentLinkGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    422,
			"errorCode": "130",
			"message":   "Required field 'reference' is not provided.",
		})
	}))
	defer srv.Close()

	c := NewClient("key", true).WithBaseURL(srv.URL)
	_, err := c.CreatePaymentLink(context.Background(), &PaymentLinkRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Required field 'reference' is not provided.")
}

func TestModificationCalls(t *testing.T) {
	var gotPaths []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		json.NewEncoder(w).Encode(ModificationResponse{
			PSPReference: "MOD123",
			Status:       "received",
		})
	}))
	defer srv.Close()

	c := NewClient("key", true).WithBaseURL(srv.URL)
	req := &ModificationRequest{MerchantAccount: "TestMerchant"}

	ctx := context.Background()
	capture, err := c.Capture(ctx, "PSP1", req)
	require.NoError(t, err)
	assert.Equal(t, "received", capture.Status)

	_, err = c.Cancel(ctx, "PSP1", req)
	require.NoError(t, err)
	_, err = c.Refund(ctx, "PSP1", req)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/payments/PSP1/captures",
		"/payments/PSP1/cancels",
		"/payments/PSP1/refunds",
	}, gotPaths)
}

func TestGetPaymentLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/paymentLinks/PL42", r.URL.Path)
		json.NewEncoder(w).Encode(PaymentLinkResponse{
			ID:     "PL42",
			Status: LinkStatusCompleted,
		})
	}))
	defer srv.Close()

	c := NewClient("key", true).WithBaseURL(srv.URL)
	link, err := c.GetPaymentLink(context.Background(), "PL42")
	require.NoError(t, err)
	assert.Equal(t, LinkStatusCompleted, link.Status)
}
