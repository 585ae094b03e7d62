package domain

import "time"

// Product is a catalog row with live stock. AvailableQuantity never goes
// negative: every deduction is guarded before it commits.
type Product struct {
	ID                int64
	Name              string
	Description       string
	CategoryID        int64
	PriceCents        int64
	AvailableQuantity int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PurchaseLine is one caller-supplied (product, quantity) pair. Quantities
// are untrusted and validated by the purchase engine.
type PurchaseLine struct {
	ProductID int64
	Quantity  int
}

// PurchasedLine is the confirmation produced for a validated line. It is
// built from the product's name and price at purchase time and never mutated.
type PurchasedLine struct {
	ProductID  int64
	Name       string
	PriceCents int64
	Quantity   int
}

// Deduction is a staged stock decrement, applied atomically with the rest of
// its batch.
type Deduction struct {
	ProductID int64
	Quantity  int
}
