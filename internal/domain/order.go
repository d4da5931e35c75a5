package domain

import "time"

type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "COD"
	PaymentBankTransfer PaymentMethod = "BANK"
	PaymentEWallet      PaymentMethod = "GOPAY"
)

// Order is the payload submitted at checkout, built from a snapshot
// of the cart taken before the network call.
type Order struct {
	CustomerID    int64
	Timestamp     time.Time
	TotalAmount   Money
	AmountPaid    Money
	ChangeDue     Money
	PaymentMethod PaymentMethod
	Lines         []OrderLine
}

type OrderLine struct {
	ProductID int64
	Quantity  int
	UnitPrice Money
	Subtotal  Money
}

// OrderConfirmation is the backend's record of an accepted order.
// It is kept only for display and navigation, never stored locally.
type OrderConfirmation struct {
	OrderID       int64
	CustomerID    int64
	Timestamp     time.Time
	TotalAmount   Money
	AmountPaid    Money
	ChangeDue     Money
	PaymentMethod PaymentMethod
	Lines         []OrderLine
}
