package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/currency"

	"github.com/medikart/storefront/internal/cart"
	"github.com/medikart/storefront/internal/checkout"
	"github.com/medikart/storefront/internal/domain"
	"github.com/medikart/storefront/internal/kv"
)

type fakeOrders struct {
	submitted []domain.Order
	fail      error
}

func (f *fakeOrders) SubmitOrder(_ context.Context, order domain.Order) (domain.OrderConfirmation, error) {
	if f.fail != nil {
		return domain.OrderConfirmation{}, f.fail
	}

	f.submitted = append(f.submitted, order)
	return domain.OrderConfirmation{
		OrderID:     101,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount,
		Lines:       order.Lines,
	}, nil
}

func (f *fakeOrders) OrderHistory(_ context.Context, _ int64) ([]domain.OrderConfirmation, error) {
	return nil, nil
}

func idr(amount int64) domain.Money {
	return domain.NewMoney(decimal.NewFromInt(amount), currency.IDR)
}

func newFixture(t *testing.T, orders *fakeOrders) (*cart.Store, *checkout.Orchestrator) {
	t.Helper()

	store := cart.NewStore(context.Background(), kv.NewMemory(), zap.NewNop())
	t.Cleanup(store.Close)

	orchestrator := checkout.NewOrchestrator(store, orders, checkout.Fees{
		Shipping: idr(10000),
		Admin:    idr(2000),
	}, zap.NewNop())

	return store, orchestrator
}

func addLine(t *testing.T, store *cart.Store, id int64, qty int, price int64) {
	t.Helper()

	ok := store.AddItem(domain.Product{
		ID:        id,
		Name:      "obat",
		UnitPrice: idr(price),
		Stock:     100,
	}, qty)
	require.True(t, ok)
}

func TestGrandTotal(t *testing.T) {
	store, orchestrator := newFixture(t, &fakeOrders{})

	// cart total 20000 + shipping 10000 + admin 2000
	addLine(t, store, 1, 4, 5000)

	total, err := orchestrator.GrandTotal()
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(32000).Equal(total.Amount), "got %s", total.Amount)
	assert.Equal(t, currency.IDR.String(), total.Currency.String())
}

func TestGrandTotalEmptyCartIsJustFees(t *testing.T) {
	_, orchestrator := newFixture(t, &fakeOrders{})

	total, err := orchestrator.GrandTotal()
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12000).Equal(total.Amount), "got %s", total.Amount)
}

func TestSubmitSuccessClearsCart(t *testing.T) {
	orders := &fakeOrders{}
	store, orchestrator := newFixture(t, orders)

	addLine(t, store, 1, 2, 5000)
	addLine(t, store, 2, 1, 10000)

	customer := domain.Customer{ID: 42, Name: "Budi"}
	confirmation, err := orchestrator.Submit(context.Background(), customer, domain.PaymentCOD)
	require.NoError(t, err)

	assert.Equal(t, int64(101), confirmation.OrderID)
	assert.Empty(t, store.Lines(), "successful submission clears the cart")

	require.Len(t, orders.submitted, 1)
	order := orders.submitted[0]
	assert.Equal(t, int64(42), order.CustomerID)
	assert.Equal(t, domain.PaymentCOD, order.PaymentMethod)
	assert.False(t, order.Timestamp.IsZero())

	// 20000 lines + 12000 fees, paid in full, no change
	assert.True(t, decimal.NewFromInt(32000).Equal(order.TotalAmount.Amount))
	assert.True(t, order.TotalAmount.Amount.Equal(order.AmountPaid.Amount))
	assert.True(t, order.ChangeDue.Amount.IsZero())

	require.Len(t, order.Lines, 2)
	assert.Equal(t, int64(1), order.Lines[0].ProductID)
	assert.Equal(t, 2, order.Lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(10000).Equal(order.Lines[0].Subtotal.Amount))
}

func TestSubmitFailureLeavesCartIntact(t *testing.T) {
	orders := &fakeOrders{fail: errors.New("connection reset")}
	store, orchestrator := newFixture(t, orders)

	addLine(t, store, 1, 2, 5000)

	_, err := orchestrator.Submit(context.Background(), domain.Customer{ID: 42}, domain.PaymentCOD)
	require.Error(t, err)

	require.Len(t, store.Lines(), 1)
	assert.Equal(t, 2, store.Lines()[0].Quantity)
}

func TestSubmitEmptyCart(t *testing.T) {
	_, orchestrator := newFixture(t, &fakeOrders{})

	_, err := orchestrator.Submit(context.Background(), domain.Customer{ID: 42}, domain.PaymentCOD)
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
}

func TestSubmitWithoutCustomerID(t *testing.T) {
	store, orchestrator := newFixture(t, &fakeOrders{})
	addLine(t, store, 1, 1, 5000)

	_, err := orchestrator.Submit(context.Background(), domain.Customer{}, domain.PaymentCOD)
	assert.ErrorIs(t, err, checkout.ErrNoCustomer)
}

// A mutation racing an in-flight submission must not leak into the
// submitted payload: the payload is built from a snapshot taken at
// submission start.
func TestSubmitUsesSnapshotTakenAtStart(t *testing.T) {
	store, _ := newFixture(t, &fakeOrders{})
	addLine(t, store, 1, 2, 5000)

	mutating := &mutatingOrders{store: store, t: t}
	orchestrator := checkout.NewOrchestrator(store, mutating, checkout.Fees{
		Shipping: idr(10000),
		Admin:    idr(2000),
	}, zap.NewNop())

	_, err := orchestrator.Submit(context.Background(), domain.Customer{ID: 42}, domain.PaymentCOD)
	require.NoError(t, err)

	require.Len(t, mutating.submitted.Lines, 1)
	assert.Equal(t, 2, mutating.submitted.Lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(32000).Equal(mutating.submitted.TotalAmount.Amount))
}

// mutatingOrders mutates the cart while "on the wire" to simulate a
// user editing the cart during checkout.
type mutatingOrders struct {
	store     *cart.Store
	t         *testing.T
	submitted domain.Order
}

func (m *mutatingOrders) SubmitOrder(_ context.Context, order domain.Order) (domain.OrderConfirmation, error) {
	require.True(m.t, m.store.UpdateQuantity(0, 5))
	m.submitted = order
	return domain.OrderConfirmation{OrderID: 7}, nil
}

func (m *mutatingOrders) OrderHistory(_ context.Context, _ int64) ([]domain.OrderConfirmation, error) {
	return nil, nil
}
