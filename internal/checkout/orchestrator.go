package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medikart/storefront/internal/cart"
	"github.com/medikart/storefront/internal/domain"
	"github.com/medikart/storefront/internal/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart  = errors.New("cart is empty")
	ErrNoCustomer = errors.New("customer profile is incomplete")
)

// Fees are the fixed shipping and admin charges added to every order.
// There is no dynamic rate lookup.
type Fees struct {
	Shipping domain.Money
	Admin    domain.Money
}

// Orchestrator turns the current cart into an order submission. It
// snapshots the cart before the network call, so mutations made while
// the submission is in flight neither corrupt the payload nor get
// cleared by its success.
type Orchestrator struct {
	store  *cart.Store
	orders port.Orders
	fees   Fees
	logger *zap.Logger

	now func() time.Time
}

func NewOrchestrator(store *cart.Store, orders port.Orders, fees Fees, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:  store,
		orders: orders,
		fees:   fees,
		logger: logger,
		now:    time.Now,
	}
}

// GrandTotal is the cart total plus the fixed fees.
func (o *Orchestrator) GrandTotal() (domain.Money, error) {
	return o.grandTotal(o.store.Lines())
}

func (o *Orchestrator) grandTotal(lines []domain.CartLine) (domain.Money, error) {
	total := domain.NewMoney(decimal.Zero, o.fees.Shipping.Currency)
	if len(lines) > 0 {
		total = domain.Cart{Lines: lines}.TotalPrice()
	}

	total, err := total.Add(o.fees.Shipping)
	if err != nil {
		return domain.Money{}, fmt.Errorf("add shipping fee: %w", err)
	}

	total, err = total.Add(o.fees.Admin)
	if err != nil {
		return domain.Money{}, fmt.Errorf("add admin fee: %w", err)
	}

	return total, nil
}

// Submit sends the cart as an order for customer. On success the cart
// is cleared and the confirmation returned. On any failure the cart
// keeps its lines; retrying is a fresh, explicit call.
func (o *Orchestrator) Submit(ctx context.Context, customer domain.Customer, method domain.PaymentMethod) (domain.OrderConfirmation, error) {
	// snapshot once; the live cart stays mutable while we are on the wire
	lines := o.store.Lines()
	if len(lines) == 0 {
		return domain.OrderConfirmation{}, ErrEmptyCart
	}
	if customer.ID == 0 {
		return domain.OrderConfirmation{}, ErrNoCustomer
	}

	grandTotal, err := o.grandTotal(lines)
	if err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("grandTotal: %w", err)
	}

	order := domain.Order{
		CustomerID:    customer.ID,
		Timestamp:     o.now(),
		TotalAmount:   grandTotal,
		AmountPaid:    grandTotal,
		ChangeDue:     domain.NewMoney(decimal.Zero, grandTotal.Currency),
		PaymentMethod: method,
	}

	for _, line := range lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.UnitPrice,
			Subtotal:  line.Subtotal,
		})
	}

	confirmation, err := o.orders.SubmitOrder(ctx, order)
	if err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("orders.SubmitOrder: %w", err)
	}

	o.store.Clear()
	o.logger.Info("order submitted",
		zap.Int64("order_id", confirmation.OrderID),
		zap.Int64("customer_id", customer.ID),
		zap.String("grand_total", grandTotal.String()))

	return confirmation, nil
}
