package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paybridge/internal/provider"
	"paybridge/internal/repository"
)

// acceptedBody is the response body the gateway expects before it stops
// redelivering a notification.
const acceptedBody = "[accepted]"

// WebhookHandler receives the gateway's asynchronous notifications and
// applies accepted authorization results to the order.
type WebhookHandler struct {
	orders   *repository.OrderRepository
	provider *provider.Provider
	logger   *zap.Logger
}

func NewWebhookHandler(orders *repository.OrderRepository, prov *provider.Provider, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{orders: orders, provider: prov, logger: logger}
}

// HandleNotification validates one inbound notification. Rejected
// notifications get a generic bad-request reply; the gateway's own
// delivery mechanism retries them.
func (h *WebhookHandler) HandleNotification(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.String(http.StatusBadRequest, "bad request")
	}

	result := h.provider.ProcessCallback(body)
	if !result.Accepted {
		return c.String(http.StatusBadRequest, "bad request")
	}

	order, err := h.orders.FindByOrderNumber(result.MerchantReference)
	if err != nil {
		// Acknowledge anyway: redelivery cannot resolve an unknown
		// merchant reference.
		h.logger.Warn("webhook: order not found",
			zap.String("merchant_reference", result.MerchantReference),
			zap.String("psp_reference", result.TransactionID))
		return c.String(http.StatusOK, acceptedBody)
	}

	order.ApplyTransaction(result.TransactionID, result.Status)
	order.MergeProperties(result.MetaData)
	if err := h.orders.Save(order); err != nil {
		h.logger.Error("webhook: failed to apply authorization",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
		return c.String(http.StatusInternalServerError, "error")
	}

	h.logger.Info("webhook: authorization applied",
		zap.String("order_number", order.OrderNumber),
		zap.String("psp_reference", result.TransactionID),
		zap.String("payment_method", result.PaymentMethod),
		zap.String("amount", result.Amount.String()))

	return c.String(http.StatusOK, acceptedBody)
}
