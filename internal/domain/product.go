package domain

import "time"

// Product is a snapshot of a catalog record as last seen from the
// backend. The cart holds these snapshots by value; stock and price
// are not re-validated against the live catalog after capture.
type Product struct {
	ID        int64
	Name      string
	UnitPrice Money
	Stock     int

	PhotoURL   *string
	ExpiryDate *time.Time
}
