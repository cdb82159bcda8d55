package provider

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"paybridge/internal/currency"
	"paybridge/internal/gateway"
	"paybridge/internal/money"
)

// Provider adapts the host platform's payment abstraction to the checkout
// gateway. It holds no state beyond settings and the gateway client; all
// durable state stays on the host's order aggregate.
type Provider struct {
	settings Settings
	gw       *gateway.Client
	logger   *zap.Logger
}

// New creates a provider from settings. The gateway endpoint (test or
// live) follows the settings' test-mode flag.
func New(settings Settings, logger *zap.Logger) (*Provider, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		settings: settings,
		gw:       gateway.NewClient(settings.APIKey, settings.TestMode),
		logger:   logger,
	}, nil
}

// NewWithGateway creates a provider around an existing gateway client.
func NewWithGateway(settings Settings, gw *gateway.Client, logger *zap.Logger) (*Provider, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{settings: settings, gw: gw, logger: logger}, nil
}

// Gateway returns the underlying gateway client.
func (p *Provider) Gateway() *gateway.Client {
	return p.gw
}

// GenerateForm builds the payment-initiation request for an order and
// returns the redirect target plus metadata to persist. Currency and
// transport errors propagate: they abort checkout and must surface to the
// administrator.
func (p *Provider) GenerateForm(ctx context.Context, order OrderView) (*FormResult, error) {
	cur, err := currency.Lookup(order.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("generate form for order %s: %w", order.OrderNumber, err)
	}

	req := &gateway.PaymentLinkRequest{
		MerchantAccount: p.settings.MerchantAccount,
		Reference:       order.OrderNumber,
		Amount: gateway.Amount{
			Currency: cur.Code,
			Value:    money.ToMinorUnits(order.TotalAmount, cur.Exponent),
		},
		ReturnURL:             p.settings.ContinueURL,
		ShopperEmail:          order.CustomerEmail,
		ShopperReference:      order.CustomerReference,
		AllowedPaymentMethods: p.settings.ParsedAllowedPaymentMethods(),
		Metadata: map[string]string{
			"orderReference": order.Reference,
			"orderId":        order.ID,
			"orderNumber":    order.OrderNumber,
		},
	}
	if order.CustomerFirstName != "" || order.CustomerLastName != "" {
		req.ShopperName = &gateway.ShopperName{
			FirstName: order.CustomerFirstName,
			LastName:  order.CustomerLastName,
		}
	}

	link, err := p.gw.CreatePaymentLink(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate form for order %s: %w", order.OrderNumber, err)
	}

	return &FormResult{
		RedirectURL: link.URL,
		Method:      http.MethodGet,
		MetaData: map[string]string{
			PropPaymentLinkID: link.ID,
		},
	}, nil
}

// CancelPayment voids the authorized payment addressed by the stored PSP
// reference.
func (p *Provider) CancelPayment(ctx context.Context, order OrderView) *TransactionResult {
	psp := p.resolvePSPReference(order)
	if psp == "" {
		p.logger.Warn("cancel: no gateway reference on order",
			zap.String("order_number", order.OrderNumber))
		return &TransactionResult{}
	}

	resp, err := p.gw.Cancel(ctx, psp, &gateway.ModificationRequest{
		MerchantAccount: p.settings.MerchantAccount,
		Reference:       order.OrderNumber,
	})
	if err != nil {
		p.logger.Error("cancel failed",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
		return &TransactionResult{}
	}

	return &TransactionResult{
		Applied:       true,
		TransactionID: modificationTransactionID(resp, psp),
		Status:        StatusCancelled,
	}
}

// CapturePayment captures the authorized amount. The order amount is
// re-validated and re-converted to minor units.
func (p *Provider) CapturePayment(ctx context.Context, order OrderView) *TransactionResult {
	return p.amountModification(ctx, order, "capture", p.gw.Capture, StatusCaptured)
}

// RefundPayment refunds the captured amount.
func (p *Provider) RefundPayment(ctx context.Context, order OrderView) *TransactionResult {
	return p.amountModification(ctx, order, "refund", p.gw.Refund, StatusRefunded)
}

type modifyFunc func(ctx context.Context, pspReference string, req *gateway.ModificationRequest) (*gateway.ModificationResponse, error)

func (p *Provider) amountModification(ctx context.Context, order OrderView, op string, call modifyFunc, status PaymentStatus) *TransactionResult {
	psp := p.resolvePSPReference(order)
	if psp == "" {
		p.logger.Warn(op+": no gateway reference on order",
			zap.String("order_number", order.OrderNumber))
		return &TransactionResult{}
	}

	cur, err := currency.Lookup(order.CurrencyCode)
	if err != nil {
		p.logger.Error(op+" failed",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
		return &TransactionResult{}
	}

	resp, err := call(ctx, psp, &gateway.ModificationRequest{
		MerchantAccount: p.settings.MerchantAccount,
		Reference:       order.OrderNumber,
		Amount: &gateway.Amount{
			Currency: cur.Code,
			Value:    money.ToMinorUnits(order.TotalAmount, cur.Exponent),
		},
	})
	if err != nil {
		p.logger.Error(op+" failed",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
		return &TransactionResult{}
	}

	return &TransactionResult{
		Applied:       true,
		TransactionID: modificationTransactionID(resp, psp),
		Status:        status,
	}
}

// FetchPaymentStatus reads the payment link's gateway-reported state and
// maps it to a payment status.
func (p *Provider) FetchPaymentStatus(ctx context.Context, order OrderView) *TransactionResult {
	linkID := order.Properties[PropPaymentLinkID]
	if linkID == "" {
		p.logger.Warn("status fetch: no payment link id on order",
			zap.String("order_number", order.OrderNumber))
		return &TransactionResult{}
	}

	link, err := p.gw.GetPaymentLink(ctx, linkID)
	if err != nil {
		p.logger.Error("status fetch failed",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
		return &TransactionResult{}
	}

	txID := order.Transaction.TransactionID
	if txID == "" {
		txID = link.ID
	}

	return &TransactionResult{
		Applied:       true,
		TransactionID: txID,
		Status:        mapLinkStatus(link.Status, order.Transaction.Status),
	}
}

// mapLinkStatus translates the gateway's payment-link status. A link that
// is still open keeps the order's current status.
func mapLinkStatus(linkStatus string, current PaymentStatus) PaymentStatus {
	switch linkStatus {
	case gateway.LinkStatusCompleted:
		return StatusAuthorized
	case gateway.LinkStatusExpired, gateway.LinkStatusManuallyDeactivated:
		return StatusCancelled
	default:
		if current != "" {
			return current
		}
		return StatusInitialized
	}
}

// resolvePSPReference finds the gateway reference stored when the payment
// was authorized: transaction info first, then the order property bag.
func (p *Provider) resolvePSPReference(order OrderView) string {
	if order.Transaction.TransactionID != "" {
		return order.Transaction.TransactionID
	}
	return order.Properties[PropPSPReference]
}

func modificationTransactionID(resp *gateway.ModificationResponse, fallback string) string {
	if resp.PSPReference != "" {
		return resp.PSPReference
	}
	return fallback
}
