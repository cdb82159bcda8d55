package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"paybridge/internal/provider"
)

// Order maps to the `orders` table. It is the host-side aggregate the
// adapter reads from and whose proposed mutations the handlers apply.
type Order struct {
	ID                string          `gorm:"column:id;primaryKey;size:64" json:"id"`
	OrderNumber       string          `gorm:"column:order_number;size:64;uniqueIndex" json:"order_number"`
	CurrencyCode      string          `gorm:"column:currency_code;size:3" json:"currency_code"`
	Amount            decimal.Decimal `gorm:"column:amount;type:decimal(18,6)" json:"amount"`
	CustomerEmail     string          `gorm:"column:customer_email;size:320" json:"customer_email"`
	CustomerFirstName string          `gorm:"column:customer_first_name;size:200" json:"customer_first_name"`
	CustomerLastName  string          `gorm:"column:customer_last_name;size:200" json:"customer_last_name"`
	CustomerReference string          `gorm:"column:customer_reference;size:200" json:"customer_reference"`
	Properties        string          `gorm:"column:properties;type:text" json:"-"`
	TransactionID     string          `gorm:"column:transaction_id;size:200" json:"transaction_id"`
	PaymentStatus     string          `gorm:"column:payment_status;size:50" json:"payment_status"`
	CreatedAt         time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// PropertyMap decodes the JSON property bag. An empty or broken bag
// decodes to an empty map.
func (o *Order) PropertyMap() map[string]string {
	props := map[string]string{}
	if o.Properties != "" {
		_ = json.Unmarshal([]byte(o.Properties), &props)
	}
	return props
}

// MergeProperties merges key-value pairs into the property bag.
func (o *Order) MergeProperties(kv map[string]string) {
	if len(kv) == 0 {
		return
	}
	props := o.PropertyMap()
	for k, v := range kv {
		props[k] = v
	}
	encoded, _ := json.Marshal(props)
	o.Properties = string(encoded)
}

// View projects the order into the adapter's read-only order view.
func (o *Order) View() provider.OrderView {
	return provider.OrderView{
		ID:                o.ID,
		Reference:         fmt.Sprintf("order:%s", o.ID),
		OrderNumber:       o.OrderNumber,
		CurrencyCode:      o.CurrencyCode,
		TotalAmount:       o.Amount,
		CustomerEmail:     o.CustomerEmail,
		CustomerFirstName: o.CustomerFirstName,
		CustomerLastName:  o.CustomerLastName,
		CustomerReference: o.CustomerReference,
		Properties:        o.PropertyMap(),
		Transaction: provider.TransactionInfo{
			TransactionID: o.TransactionID,
			Status:        provider.PaymentStatus(o.PaymentStatus),
		},
	}
}

// ApplyTransaction applies a proposed transaction-id + status pair.
func (o *Order) ApplyTransaction(txID string, status provider.PaymentStatus) {
	if txID != "" {
		o.TransactionID = txID
	}
	o.PaymentStatus = string(status)
}
