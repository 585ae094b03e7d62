package domain

// PaymentNotification is the asynchronous message handed to the notification
// service after a payment is recorded for a known customer.
type PaymentNotification struct {
	OrderRef    string `json:"order_ref"`
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
}
