package models

// APIResponse is the envelope for all admin API replies.
type APIResponse struct {
	Status bool        `json:"status"`
	Msg    string      `json:"msg"`
	Obj    interface{} `json:"obj"`
}

// CheckoutRequest is the inbound body for starting a checkout.
type CheckoutRequest struct {
	OrderNumber       string `json:"order_number"`
	CurrencyCode      string `json:"currency_code"`
	Amount            string `json:"amount"`
	CustomerEmail     string `json:"customer_email"`
	CustomerFirstName string `json:"customer_first_name"`
	CustomerLastName  string `json:"customer_last_name"`
	CustomerReference string `json:"customer_reference"`
}
