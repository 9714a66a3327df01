package service

import (
	"context"
	"sync"

	catalogModel "course_commerce/internal/domain/catalog/model"
	couponService "course_commerce/internal/domain/coupon/service"
	"course_commerce/internal/domain/payment/model"
	"course_commerce/internal/domain/payment/repository"
	"course_commerce/internal/domain/payment/strategy"
	userModel "course_commerce/internal/domain/user/model"
	userService "course_commerce/internal/domain/user/service"
	"course_commerce/internal/pkg/events"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindPendingForUpdate(ctx context.Context, tx *gorm.DB, userID string, productType catalogModel.ProductType, productID string) (*model.Order, error) {
	args := m.Called(ctx, tx, userID, productType, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return m.Called(ctx, tx, order).Error(0)
}

func (m *MockOrderRepository) UpdatePending(ctx context.Context, tx *gorm.DB, order *model.Order) (bool, error) {
	args := m.Called(ctx, tx, order)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) FindPendingByTransferCodeForUpdate(ctx context.Context, tx *gorm.DB, transferCode string) (*model.Order, error) {
	args := m.Called(ctx, tx, transferCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByTransferCode(ctx context.Context, transferCode string) (*model.Order, error) {
	args := m.Called(ctx, transferCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) MarkPaid(ctx context.Context, tx *gorm.DB, orderID string, u repository.PaidUpdate) (bool, error) {
	args := m.Called(ctx, tx, orderID, u)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) DeletePending(ctx context.Context, userID, orderID string) (bool, error) {
	args := m.Called(ctx, userID, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) ListPaid(ctx context.Context, userID string, productType catalogModel.ProductType) ([]model.Order, error) {
	args := m.Called(ctx, userID, productType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

type MockProducts struct {
	mock.Mock
}

func (m *MockProducts) Resolve(ctx context.Context, productType catalogModel.ProductType, id string) (*catalogModel.Product, error) {
	args := m.Called(ctx, productType, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogModel.Product), args.Error(1)
}

type MockCoupons struct {
	mock.Mock
}

func (m *MockCoupons) Validate(ctx context.Context, code, resourceTag string, price int64) (*couponService.Result, error) {
	args := m.Called(ctx, code, resourceTag, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*couponService.Result), args.Error(1)
}

func (m *MockCoupons) IncrementUsage(ctx context.Context, tx *gorm.DB, code string) error {
	return m.Called(ctx, tx, code).Error(0)
}

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) FindOrCreateByEmail(ctx context.Context, tx *gorm.DB, contact userModel.BuyerContact) (*userService.Provisioned, error) {
	args := m.Called(ctx, tx, contact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userService.Provisioned), args.Error(1)
}

type MockGranter struct {
	mock.Mock
}

func (m *MockGranter) Grant(ctx context.Context, tx *gorm.DB, userID string, productType catalogModel.ProductType, productID, orderID string) error {
	return m.Called(ctx, tx, userID, productType, productID, orderID).Error(0)
}

func (m *MockGranter) Owns(ctx context.Context, userID string, productType catalogModel.ProductType, productID string) (bool, error) {
	args := m.Called(ctx, userID, productType, productID)
	return args.Bool(0), args.Error(1)
}

type MockSalers struct {
	mock.Mock
}

func (m *MockSalers) ResolveSalerID(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

// fakeGateway 记录最后一次请求
type fakeGateway struct {
	channel string
	qr      string
	err     error
	calls   int
	last    strategy.QRRequest
}

func (g *fakeGateway) Channel() string { return g.channel }

func (g *fakeGateway) CreateQR(ctx context.Context, req strategy.QRRequest) (string, error) {
	g.calls++
	g.last = req
	if g.err != nil {
		return "", g.err
	}
	return g.qr, nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, evt events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
	return nil
}

func (b *recordingBus) Subscribe(eventName, subscriber string, h events.Handler) {}

func (b *recordingBus) Published() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.Event(nil), b.events...)
}
