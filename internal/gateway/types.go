package gateway

// Amount is a monetary amount in the gateway's minor-unit representation.
type Amount struct {
	Currency string `json:"currency"`
	Value    int64  `json:"value"`
}

// PaymentLinkRequest creates a gateway-hosted checkout page.
type PaymentLinkRequest struct {
	MerchantAccount       string            `json:"merchantAccount"`
	Reference             string            `json:"reference"`
	Amount                Amount            `json:"amount"`
	ReturnURL             string            `json:"returnUrl,omitempty"`
	ShopperEmail          string            `json:"shopperEmail,omitempty"`
	ShopperName           *ShopperName      `json:"shopperName,omitempty"`
	ShopperReference      string            `json:"shopperReference,omitempty"`
	AllowedPaymentMethods []string          `json:"allowedPaymentMethods,omitempty"`
	Metadata              map[string]string `json:"metadata,omitempty"`
}

// ShopperName carries the customer name fields.
type ShopperName struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// PaymentLinkResponse is the gateway's view of a payment link.
type PaymentLinkResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    Amount `json:"amount"`
}

// Payment-link statuses reported by the gateway.
const (
	LinkStatusActive              = "active"
	LinkStatusCompleted           = "completed"
	LinkStatusExpired             = "expired"
	LinkStatusPaymentPending      = "paymentPending"
	LinkStatusManuallyDeactivated = "manuallyDeactivated"
)

// ModificationRequest alters the state of a previously authorized payment.
// Amount is required for captures and refunds, absent for cancellations.
type ModificationRequest struct {
	MerchantAccount string  `json:"merchantAccount"`
	Amount          *Amount `json:"amount,omitempty"`
	Reference       string  `json:"reference,omitempty"`
}

// ModificationResponse acknowledges a modification call. The gateway
// processes modifications asynchronously and reports "received".
type ModificationResponse struct {
	PSPReference string `json:"pspReference"`
	Reference    string `json:"reference"`
	Status       string `json:"status"`
}

// Notification is the inbound webhook envelope.
type Notification struct {
	Live              string             `json:"live"`
	NotificationItems []NotificationItem `json:"notificationItems"`
}

// NotificationItem wraps a single notification request item.
type NotificationItem struct {
	NotificationRequestItem NotificationRequestItem `json:"NotificationRequestItem"`
}

// NotificationRequestItem is one payment event pushed by the gateway.
// Success is the literal string "true"/"false" on the wire.
type NotificationRequestItem struct {
	AdditionalData      map[string]string `json:"additionalData"`
	Amount              Amount            `json:"amount"`
	EventCode           string            `json:"eventCode"`
	MerchantAccountCode string            `json:"merchantAccountCode"`
	MerchantReference   string            `json:"merchantReference"`
	OriginalReference   string            `json:"originalReference"`
	PaymentMethod       string            `json:"paymentMethod"`
	PSPReference        string            `json:"pspReference"`
	Success             string            `json:"success"`
}

// IsSuccess reports whether the gateway marked the event successful.
func (n *NotificationRequestItem) IsSuccess() bool {
	return n.Success == "true"
}

// EventCodeAuthorisation is the only event code the adapter accepts.
const EventCodeAuthorisation = "AUTHORISATION"

// additionalData key carrying the webhook signature.
const hmacSignatureKey = "hmacSignature"
