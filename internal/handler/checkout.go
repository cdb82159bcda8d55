package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"paybridge/internal/currency"
	"paybridge/internal/models"
	"paybridge/internal/pkg/utils"
	"paybridge/internal/provider"
	"paybridge/internal/repository"
)

// CheckoutHandler creates orders and redirects shoppers to the gateway's
// hosted payment page.
type CheckoutHandler struct {
	orders   *repository.OrderRepository
	provider *provider.Provider
	logger   *zap.Logger
}

func NewCheckoutHandler(orders *repository.OrderRepository, prov *provider.Provider, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{orders: orders, provider: prov, logger: logger}
}

// Checkout creates an order, generates the payment form and returns the
// redirect target. Currency and gateway errors abort checkout and surface
// to the caller.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	var req models.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request body")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		return errorResponse(c, http.StatusBadRequest, "invalid amount")
	}
	if !currency.IsSupported(req.CurrencyCode) {
		return errorResponse(c, http.StatusBadRequest, "unsupported currency code")
	}

	orderNumber := req.OrderNumber
	if orderNumber == "" {
		orderNumber = utils.GenerateOrderNumber()
	}

	order := &models.Order{
		ID:                utils.GenerateUUID(),
		OrderNumber:       orderNumber,
		CurrencyCode:      req.CurrencyCode,
		Amount:            amount,
		CustomerEmail:     req.CustomerEmail,
		CustomerFirstName: req.CustomerFirstName,
		CustomerLastName:  req.CustomerLastName,
		CustomerReference: req.CustomerReference,
		PaymentStatus:     string(provider.StatusInitialized),
	}

	form, err := h.provider.GenerateForm(c.Request().Context(), order.View())
	if err != nil {
		h.logger.Error("checkout: form generation failed",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
		return errorResponse(c, http.StatusBadGateway, "payment form generation failed")
	}

	order.MergeProperties(form.MetaData)
	if err := h.orders.Create(order); err != nil {
		h.logger.Error("checkout: failed to persist order",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "failed to create order")
	}

	return successResponse(c, "checkout created", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"redirect_url": form.RedirectURL,
		"method":       form.Method,
	})
}
