package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paybridge/internal/gateway"
)

func testSettings() Settings {
	return Settings{
		ContinueURL:     "https://shop.example.test/continue",
		APIKey:          "test-api-key",
		HMACKey:         "11223344556677889900aabbccddeeff",
		MerchantAccount: "TestMerchant",
		TestMode:        true,
	}
}

// countingServer records gateway calls and answers with the given handler.
func countingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testProvider(t *testing.T, settings Settings, srv *httptest.Server) *Provider {
	t.Helper()
	gw := gateway.NewClient(settings.APIKey, settings.TestMode).WithBaseURL(srv.URL)
	p, err := NewWithGateway(settings, gw, nil)
	require.NoError(t, err)
	return p
}

func testOrder() OrderView {
	return OrderView{
		ID:            "7f9c0d62-3a30-4f3a-9a9e-0b6f53f1b1aa",
		Reference:     "order:7f9c0d62-3a30-4f3a-9a9e-0b6f53f1b1aa",
		OrderNumber:   "ORD-1001",
		CurrencyCode:  "EUR",
		TotalAmount:   decimal.RequireFromString("19.99"),
		CustomerEmail: "shopper@example.test",
		Properties:    map[string]string{},
	}
}

func TestGenerateForm(t *testing.T) {
	var gotReq gateway.PaymentLinkRequest
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(gateway.PaymentLinkResponse{
			ID:  "PL9000",
			URL: "https://pay.example.test/PL9000",
		})
	})

	settings := testSettings()
	settings.AllowedPaymentMethods = "visa, mc ,, amex"
	p := testProvider(t, settings, srv)

	form, err := p.GenerateForm(context.Background(), testOrder())
	require.NoError(t, err)

	assert.Equal(t, "https://pay.example.test/PL9000", form.RedirectURL)
	assert.Equal(t, http.MethodGet, form.Method)
	assert.Equal(t, "PL9000", form.MetaData[PropPaymentLinkID])

	assert.Equal(t, "TestMerchant", gotReq.MerchantAccount)
	assert.Equal(t, "ORD-1001", gotReq.Reference)
	assert.Equal(t, int64(1999), gotReq.Amount.Value)
	assert.Equal(t, "EUR", gotReq.Amount.Currency)
	assert.Equal(t, "https://shop.example.test/continue", gotReq.ReturnURL)
	assert.Equal(t, []string{"visa", "mc", "amex"}, gotReq.AllowedPaymentMethods)
	assert.Equal(t, "ORD-1001", gotReq.Metadata["orderNumber"])
	assert.Equal(t, "7f9c0d62-3a30-4f3a-9a9e-0b6f53f1b1aa", gotReq.Metadata["orderId"])
}

func TestGenerateFormInvalidCurrencyFailsBeforeOutboundCall(t *testing.T) {
	srv, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request) {})
	p := testProvider(t, testSettings(), srv)

	order := testOrder()
	order.CurrencyCode = "NOPE"

	_, err := p.GenerateForm(context.Background(), order)
	require.Error(t, err)
	assert.Equal(t, 0, *calls)
}

func TestGenerateFormGatewayErrorPropagates(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{"message": "Invalid Merchant Account"})
	})
	p := testProvider(t, testSettings(), srv)

	_, err := p.GenerateForm(context.Background(), testOrder())
	assert.Error(t, err)
}

func TestModificationWithoutReferenceReturnsEmptyResult(t *testing.T) {
	srv, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request) {})
	p := testProvider(t, testSettings(), srv)

	order := testOrder() // no transaction id, no stored psp reference

	assert.False(t, p.CapturePayment(context.Background(), order).Applied)
	assert.False(t, p.CancelPayment(context.Background(), order).Applied)
	assert.False(t, p.RefundPayment(context.Background(), order).Applied)
	assert.False(t, p.FetchPaymentStatus(context.Background(), order).Applied)
	assert.Equal(t, 0, *calls)
}

func TestCapturePayment(t *testing.T) {
	var gotPath string
	var gotReq gateway.ModificationRequest
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(gateway.ModificationResponse{
			PSPReference: "CAP456",
			Status:       "received",
		})
	})
	p := testProvider(t, testSettings(), srv)

	order := testOrder()
	order.Transaction = TransactionInfo{TransactionID: "PSP123", Status: StatusAuthorized}

	result := p.CapturePayment(context.Background(), order)
	require.True(t, result.Applied)
	assert.Equal(t, StatusCaptured, result.Status)
	assert.Equal(t, "CAP456", result.TransactionID)
	assert.Equal(t, "/payments/PSP123/captures", gotPath)
	require.NotNil(t, gotReq.Amount)
	assert.Equal(t, int64(1999), gotReq.Amount.Value)
}

func TestRefundPayment(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(gateway.ModificationResponse{PSPReference: "REF1", Status: "received"})
	})
	p := testProvider(t, testSettings(), srv)

	order := testOrder()
	order.Transaction = TransactionInfo{TransactionID: "PSP123", Status: StatusCaptured}

	result := p.RefundPayment(context.Background(), order)
	require.True(t, result.Applied)
	assert.Equal(t, StatusRefunded, result.Status)
}

func TestCancelPaymentResolvesReferenceFromProperties(t *testing.T) {
	var gotPath string
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(gateway.ModificationResponse{Status: "received"})
	})
	p := testProvider(t, testSettings(), srv)

	order := testOrder()
	order.Properties[PropPSPReference] = "PSP999"

	result := p.CancelPayment(context.Background(), order)
	require.True(t, result.Applied)
	assert.Equal(t, StatusCancelled, result.Status)
	// Response carried no psp reference, fall back to the resolved one.
	assert.Equal(t, "PSP999", result.TransactionID)
	assert.Equal(t, "/payments/PSP999/cancels", gotPath)
}

func TestModificationGatewayErrorReturnsEmptyResult(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{"message": "Invalid modification"})
	})
	p := testProvider(t, testSettings(), srv)

	order := testOrder()
	order.Transaction = TransactionInfo{TransactionID: "PSP123"}

	assert.False(t, p.CapturePayment(context.Background(), order).Applied)
}

func TestCaptureInvalidCurrencyReturnsEmptyResult(t *testing.T) {
	srv, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request) {})
	p := testProvider(t, testSettings(), srv)

	order := testOrder()
	order.Transaction = TransactionInfo{TransactionID: "PSP123"}
	order.CurrencyCode = "NOPE"

	assert.False(t, p.CapturePayment(context.Background(), order).Applied)
	assert.Equal(t, 0, *calls)
}

func TestFetchPaymentStatus(t *testing.T) {
	tests := []struct {
		name       string
		linkStatus string
		current    PaymentStatus
		want       PaymentStatus
	}{
		{"completed maps to authorized", gateway.LinkStatusCompleted, StatusInitialized, StatusAuthorized},
		{"expired maps to cancelled", gateway.LinkStatusExpired, StatusInitialized, StatusCancelled},
		{"deactivated maps to cancelled", gateway.LinkStatusManuallyDeactivated, StatusInitialized, StatusCancelled},
		{"active keeps current status", gateway.LinkStatusActive, StatusInitialized, StatusInitialized},
		{"pending keeps current status", gateway.LinkStatusPaymentPending, StatusAuthorized, StatusAuthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(gateway.PaymentLinkResponse{
					ID:     "PL7",
					Status: tt.linkStatus,
				})
			})
			p := testProvider(t, testSettings(), srv)

			order := testOrder()
			order.Properties[PropPaymentLinkID] = "PL7"
			order.Transaction.Status = tt.current

			result := p.FetchPaymentStatus(context.Background(), order)
			require.True(t, result.Applied)
			assert.Equal(t, tt.want, result.Status)
		})
	}
}

func TestNewRejectsIncompleteSettings(t *testing.T) {
	_, err := New(Settings{}, nil)
	assert.Error(t, err)
}
