package service

import (
	"context"
	"errors"
	"testing"

	"course_commerce/internal/domain/catalog/model"
	learning "course_commerce/internal/domain/learning/model"
	"course_commerce/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetActiveBook(ctx context.Context, id string) (*model.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockCatalogRepository) GetActiveIndicator(ctx context.Context, id string) (*model.Indicator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Indicator), args.Error(1)
}

func (m *MockCatalogRepository) GetPublishedCourse(ctx context.Context, id string) (*learning.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*learning.Course), args.Error(1)
}

func (m *MockCatalogRepository) GetBook(ctx context.Context, id string) (*model.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockCatalogRepository) GetIndicator(ctx context.Context, id string) (*model.Indicator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Indicator), args.Error(1)
}

func (m *MockCatalogRepository) ListActiveBooks(ctx context.Context, p *utils.Pagination) ([]model.Book, int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]model.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepository) ListActiveIndicators(ctx context.Context, p *utils.Pagination) ([]model.Indicator, int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]model.Indicator), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepository) SetBookFile(ctx context.Context, id, fileKey string) (bool, error) {
	args := m.Called(ctx, id, fileKey)
	return args.Bool(0), args.Error(1)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("Book", func(t *testing.T) {
		repo := new(MockCatalogRepository)
		b := &model.Book{Title: "Price Action", Price: 199000, DiscountAmount: 20000}
		b.ID = "b-1"
		repo.On("GetActiveBook", ctx, "b-1").Return(b, nil)

		p, err := NewProductService(repo).Resolve(ctx, model.ProductBook, "b-1")

		require.NoError(t, err)
		assert.Equal(t, int64(179000), p.BasePrice())
		assert.Equal(t, "Price Action", p.Name)
	})

	t.Run("Indicator keeps period override", func(t *testing.T) {
		repo := new(MockCatalogRepository)
		i := &model.Indicator{Name: "RSI Pro", Price: 500000, PeriodDays: 90}
		i.ID = "i-1"
		repo.On("GetActiveIndicator", ctx, "i-1").Return(i, nil)

		p, err := NewProductService(repo).Resolve(ctx, model.ProductIndicator, "i-1")

		require.NoError(t, err)
		assert.Equal(t, 90, p.PeriodDays)
	})

	t.Run("Course", func(t *testing.T) {
		repo := new(MockCatalogRepository)
		c := &learning.Course{Title: "Trading 101", Price: 1000000}
		c.ID = "c-1"
		repo.On("GetPublishedCourse", ctx, "c-1").Return(c, nil)

		p, err := NewProductService(repo).Resolve(ctx, model.ProductCourse, "c-1")

		require.NoError(t, err)
		assert.Equal(t, model.ProductCourse, p.Type)
		assert.Equal(t, int64(1000000), p.BasePrice())
	})

	t.Run("Missing or inactive", func(t *testing.T) {
		repo := new(MockCatalogRepository)
		repo.On("GetActiveBook", ctx, "gone").Return(nil, gorm.ErrRecordNotFound)

		_, err := NewProductService(repo).Resolve(ctx, model.ProductBook, "gone")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("Unknown type", func(t *testing.T) {
		_, err := NewProductService(new(MockCatalogRepository)).Resolve(ctx, "ebook", "x")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("Storage error propagates", func(t *testing.T) {
		repo := new(MockCatalogRepository)
		repo.On("GetActiveIndicator", ctx, "i-2").Return(nil, errors.New("timeout"))

		_, err := NewProductService(repo).Resolve(ctx, model.ProductIndicator, "i-2")
		assert.EqualError(t, err, "timeout")
	})
}

func TestProduct_BasePriceNeverNegative(t *testing.T) {
	p := model.Product{Price: 100, DiscountAmount: 150}
	assert.Equal(t, int64(0), p.BasePrice())
}
