package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"paybridge/internal/provider"
)

func TestMergeProperties(t *testing.T) {
	order := &Order{}

	order.MergeProperties(map[string]string{"a": "1"})
	order.MergeProperties(map[string]string{"b": "2", "a": "updated"})

	props := order.PropertyMap()
	assert.Equal(t, "updated", props["a"])
	assert.Equal(t, "2", props["b"])

	// Merging nothing leaves the bag untouched.
	before := order.Properties
	order.MergeProperties(nil)
	assert.Equal(t, before, order.Properties)
}

func TestPropertyMapBrokenBag(t *testing.T) {
	order := &Order{Properties: "{not json"}
	assert.Empty(t, order.PropertyMap())
}

func TestView(t *testing.T) {
	order := &Order{
		ID:            "abc-123",
		OrderNumber:   "ORD-7",
		CurrencyCode:  "EUR",
		Amount:        decimal.RequireFromString("42.50"),
		CustomerEmail: "shopper@example.test",
		TransactionID: "PSP1",
		PaymentStatus: string(provider.StatusAuthorized),
	}
	order.MergeProperties(map[string]string{provider.PropPaymentLinkID: "PL1"})

	view := order.View()
	assert.Equal(t, "abc-123", view.ID)
	assert.Equal(t, "order:abc-123", view.Reference)
	assert.Equal(t, "ORD-7", view.OrderNumber)
	assert.True(t, order.Amount.Equal(view.TotalAmount))
	assert.Equal(t, "PL1", view.Properties[provider.PropPaymentLinkID])
	assert.Equal(t, "PSP1", view.Transaction.TransactionID)
	assert.Equal(t, provider.StatusAuthorized, view.Transaction.Status)
}

func TestApplyTransaction(t *testing.T) {
	order := &Order{TransactionID: "PSP1", PaymentStatus: string(provider.StatusAuthorized)}

	order.ApplyTransaction("PSP2", provider.StatusCaptured)
	assert.Equal(t, "PSP2", order.TransactionID)
	assert.Equal(t, string(provider.StatusCaptured), order.PaymentStatus)

	// An empty proposed id keeps the stored one.
	order.ApplyTransaction("", provider.StatusRefunded)
	assert.Equal(t, "PSP2", order.TransactionID)
	assert.Equal(t, string(provider.StatusRefunded), order.PaymentStatus)
}
