package provider

import "github.com/shopspring/decimal"

// PaymentStatus is the platform-side payment state. Transitions are
// one-shot and driven entirely by gateway responses.
type PaymentStatus string

const (
	StatusInitialized PaymentStatus = "initialized"
	StatusAuthorized  PaymentStatus = "authorized"
	StatusCaptured    PaymentStatus = "captured"
	StatusCancelled   PaymentStatus = "cancelled"
	StatusRefunded    PaymentStatus = "refunded"
	StatusError       PaymentStatus = "error"
)

// Order property keys used to round-trip gateway references.
const (
	PropPaymentLinkID = "adyenPaymentLinkId"
	PropPSPReference  = "adyenPspReference"
	PropPaymentMethod = "adyenPaymentMethod"
)

// TransactionInfo is the stored gateway transaction id plus status.
type TransactionInfo struct {
	TransactionID string
	Status        PaymentStatus
}

// OrderView is a read-only projection of the host platform's order.
// The adapter never mutates it; proposed changes come back as results.
type OrderView struct {
	ID                string
	Reference         string
	OrderNumber       string
	CurrencyCode      string
	TotalAmount       decimal.Decimal
	CustomerEmail     string
	CustomerFirstName string
	CustomerLastName  string
	CustomerReference string
	Properties        map[string]string
	Transaction       TransactionInfo
}

// FormResult is the redirect form plus metadata the host must persist on
// the order so later modification calls can address the payment.
type FormResult struct {
	RedirectURL string
	Method      string
	MetaData    map[string]string
}

// TransactionResult reports a modification operation. Applied=false means
// the operation had no effect and must be re-attempted manually.
type TransactionResult struct {
	Applied       bool
	TransactionID string
	Status        PaymentStatus
	MetaData      map[string]string
}

// CallbackResult is the outcome of processing one webhook notification.
// A rejected result carries no payload fields.
type CallbackResult struct {
	Accepted          bool
	MerchantReference string
	TransactionID     string
	Amount            decimal.Decimal
	Status            PaymentStatus
	PaymentMethod     string
	MetaData          map[string]string
}
