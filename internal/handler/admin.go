package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paybridge/internal/provider"
	"paybridge/internal/repository"
)

// AdminHandler exposes the administrator-triggered modification
// operations. Each issues one synchronous gateway call; a not-applied
// result leaves the order untouched and relies on manual re-attempt.
type AdminHandler struct {
	orders   *repository.OrderRepository
	provider *provider.Provider
	logger   *zap.Logger
}

func NewAdminHandler(orders *repository.OrderRepository, prov *provider.Provider, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{orders: orders, provider: prov, logger: logger}
}

// ListOrders returns orders with pagination.
func (h *AdminHandler) ListOrders(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, _ := strconv.Atoi(c.QueryParam("page"))

	orders, total, err := h.orders.FindAll(limit, page)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "failed to list orders")
	}
	return successResponse(c, "orders", map[string]interface{}{
		"orders": orders,
		"total":  total,
	})
}

// GetOrder returns a single order.
func (h *AdminHandler) GetOrder(c echo.Context) error {
	order, err := h.orders.FindByID(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusNotFound, "order not found")
	}
	return successResponse(c, "order", order)
}

// Capture captures the authorized payment.
func (h *AdminHandler) Capture(c echo.Context) error {
	return h.modify(c, "capture", h.provider.CapturePayment)
}

// Cancel voids the authorized payment.
func (h *AdminHandler) Cancel(c echo.Context) error {
	return h.modify(c, "cancel", h.provider.CancelPayment)
}

// Refund refunds the captured payment.
func (h *AdminHandler) Refund(c echo.Context) error {
	return h.modify(c, "refund", h.provider.RefundPayment)
}

// Status fetches the gateway-reported payment status and applies it.
func (h *AdminHandler) Status(c echo.Context) error {
	return h.modify(c, "status fetch", h.provider.FetchPaymentStatus)
}

type operation func(ctx context.Context, order provider.OrderView) *provider.TransactionResult

func (h *AdminHandler) modify(c echo.Context, op string, run operation) error {
	order, err := h.orders.FindByID(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusNotFound, "order not found")
	}

	result := run(c.Request().Context(), order.View())
	if !result.Applied {
		// Payment status unchanged; the administrator re-attempts.
		return errorResponse(c, http.StatusUnprocessableEntity, op+" was not applied")
	}

	order.ApplyTransaction(result.TransactionID, result.Status)
	order.MergeProperties(result.MetaData)
	if err := h.orders.Save(order); err != nil {
		h.logger.Error("failed to persist order after "+op,
			zap.String("order_number", order.OrderNumber), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "failed to persist order")
	}

	return successResponse(c, op+" applied", order)
}
