package port

import (
	"context"

	"github.com/medikart/storefront/internal/domain"
)

type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type Orders interface {
	SubmitOrder(ctx context.Context, order domain.Order) (domain.OrderConfirmation, error)
	OrderHistory(ctx context.Context, customerID int64) ([]domain.OrderConfirmation, error)
}

type Credentials struct {
	Email    string
	Password string
}

type Registration struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Password string
}

type Auth interface {
	Login(ctx context.Context, creds Credentials) (token string, customer domain.Customer, err error)
	Register(ctx context.Context, reg Registration) error
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, customer domain.Customer) (domain.Customer, error)
}
