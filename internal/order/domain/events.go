package domain

// Outbox event payloads. They leave the service through the transactional
// outbox so order state changes are never lost between the DB and the broker.

type OrderPlaced struct {
	OrderID    string
	Reference  string
	CustomerID string
	TotalCents int64
	Lines      []OrderLine
}

type OrderPaid struct {
	OrderID   string
	Reference string
	PaymentID string
}

type OrderFailed struct {
	OrderID   string
	Reference string
	Reason    string
}
