package provider

import (
	"encoding/json"

	"go.uber.org/zap"

	"paybridge/internal/currency"
	"paybridge/internal/gateway"
	"paybridge/internal/money"
)

// ProcessCallback validates and parses one inbound webhook notification.
// It accepts only signed, successful AUTHORISATION events; everything else
// yields a rejected result. It never returns an error: each notification
// maps to a fresh computed result and nothing is mutated here.
func (p *Provider) ProcessCallback(body []byte) *CallbackResult {
	rejected := &CallbackResult{}

	var n gateway.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		p.logger.Warn("callback: parse error", zap.Error(err))
		return rejected
	}
	if len(n.NotificationItems) == 0 {
		p.logger.Warn("callback: empty notification")
		return rejected
	}

	// Webhooks are configured for single-item delivery; only the first
	// item is processed.
	item := &n.NotificationItems[0].NotificationRequestItem

	ok, err := gateway.ValidateHMAC(item, p.settings.HMACKey)
	if err != nil {
		p.logger.Warn("callback: signature check failed", zap.Error(err))
		return rejected
	}
	if !ok {
		p.logger.Warn("callback: invalid signature",
			zap.String("psp_reference", item.PSPReference))
		return rejected
	}

	if !item.IsSuccess() || item.EventCode != gateway.EventCodeAuthorisation {
		p.logger.Info("callback: ignoring event",
			zap.String("event_code", item.EventCode),
			zap.String("success", item.Success),
			zap.String("psp_reference", item.PSPReference))
		return rejected
	}

	cur, err := currency.Lookup(item.Amount.Currency)
	if err != nil {
		p.logger.Warn("callback: unknown currency", zap.Error(err))
		return rejected
	}

	return &CallbackResult{
		Accepted:          true,
		MerchantReference: item.MerchantReference,
		TransactionID:     item.PSPReference,
		Amount:            money.FromMinorUnits(item.Amount.Value, cur.Exponent),
		Status:            StatusAuthorized,
		PaymentMethod:     item.PaymentMethod,
		MetaData: map[string]string{
			PropPSPReference:  item.PSPReference,
			PropPaymentMethod: item.PaymentMethod,
		},
	}
}
