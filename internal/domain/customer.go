package domain

// Customer is the authenticated profile returned by the backend at
// login and used to address orders.
type Customer struct {
	ID      int64
	Name    string
	Email   string
	Phone   string
	Address string
}
