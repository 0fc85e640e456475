package usecase_test

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// =====================
// Repository mocks
// =====================

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindActiveByUserIDForUpdate(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error {
	args := m.Called(ctx, cartID, productID, addQty)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) FindCreatedByUserID(ctx context.Context, userID int64) (model.Order, bool, error) {
	args := m.Called(ctx, userID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) SetGatewayOrderID(ctx context.Context, orderID int64, gatewayOrderID string) error {
	args := m.Called(ctx, orderID, gatewayOrderID)
	return args.Error(0)
}

func (m *OrderRepoMock) MarkConfirmedPaid(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, p model.Payment) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PaymentRepoMock) FindByGatewayOrderIDForUpdate(ctx context.Context, gatewayOrderID string) (model.Payment, error) {
	args := m.Called(ctx, gatewayOrderID)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) MarkPaid(ctx context.Context, paymentID int64, gatewayPaymentID string, rawPayload string) error {
	args := m.Called(ctx, paymentID, gatewayPaymentID, rawPayload)
	return args.Error(0)
}

type EventRepoMock struct{ mock.Mock }

func (m *EventRepoMock) Create(ctx context.Context, ev model.CheckoutEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// =====================
// Gateway mock
// =====================

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreateOrder(ctx context.Context, amountMinorUnits int64, currency string, receipt string) (usecase.GatewayOrder, error) {
	args := m.Called(ctx, amountMinorUnits, currency, receipt)
	gw, _ := args.Get(0).(usecase.GatewayOrder)
	return gw, args.Error(1)
}

// =====================
// Txスタブ（fnを同じrepoセットで即実行する）
// =====================

type txReposStub struct {
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	carts      *CartRepoMock
	cartItems  *CartItemRepoMock
	products   *ProductRepoMock
	payments   *PaymentRepoMock
	events     *EventRepoMock
}

func (r *txReposStub) Orders() repo.OrderRepository { return r.orders }

func (r *txReposStub) OrderItems() repo.OrderItemRepository { return r.orderItems }

func (r *txReposStub) Carts() repo.CartRepository { return r.carts }

func (r *txReposStub) CartItems() repo.CartItemRepository { return r.cartItems }

func (r *txReposStub) Products() repo.ProductRepository { return r.products }

func (r *txReposStub) Payments() repo.PaymentRepository { return r.payments }

func (r *txReposStub) Events() repo.CheckoutEventRepository { return r.events }

type txManagerStub struct {
	repos repo.TxRepos
}

func (m *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}

func newTxFixture() (*txReposStub, *txManagerStub) {
	repos := &txReposStub{
		orders:     new(OrderRepoMock),
		orderItems: new(OrderItemRepoMock),
		carts:      new(CartRepoMock),
		cartItems:  new(CartItemRepoMock),
		products:   new(ProductRepoMock),
		payments:   new(PaymentRepoMock),
		events:     new(EventRepoMock),
	}
	return repos, &txManagerStub{repos: repos}
}
