package service

import (
	"context"

	"course_commerce/internal/domain/catalog/model"
	"course_commerce/internal/domain/catalog/repository"
	"course_commerce/internal/pkg/apperr"
	"course_commerce/pkg/database"
	"course_commerce/pkg/response"
	"course_commerce/pkg/utils"
)

var ErrProductNotFound = apperr.NotFound(response.ErrProductNotFound, "Sản phẩm không tồn tại hoặc đã ngừng bán")

// ProductService 商品查询
type ProductService interface {
	// Resolve 按类型加载可售商品；不存在或已下架返回 ErrProductNotFound
	Resolve(ctx context.Context, productType model.ProductType, id string) (*model.Product, error)
	ListBooks(ctx context.Context, p *utils.Pagination) (*utils.PageResult, error)
	ListIndicators(ctx context.Context, p *utils.Pagination) (*utils.PageResult, error)
}

type productService struct {
	repo repository.CatalogRepository
}

func NewProductService(repo repository.CatalogRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) Resolve(ctx context.Context, productType model.ProductType, id string) (*model.Product, error) {
	var (
		p   *model.Product
		err error
	)
	switch productType {
	case model.ProductBook:
		var b *model.Book
		if b, err = s.repo.GetActiveBook(ctx, id); err == nil {
			p = &model.Product{Type: productType, ID: b.ID, Name: b.Title, Price: b.Price, DiscountAmount: b.DiscountAmount}
		}
	case model.ProductIndicator:
		var i *model.Indicator
		if i, err = s.repo.GetActiveIndicator(ctx, id); err == nil {
			p = &model.Product{Type: productType, ID: i.ID, Name: i.Name, Price: i.Price, DiscountAmount: i.DiscountAmount, PeriodDays: i.PeriodDays}
		}
	case model.ProductCourse:
		c, cerr := s.repo.GetPublishedCourse(ctx, id)
		if err = cerr; err == nil {
			p = &model.Product{Type: productType, ID: c.ID, Name: c.Title, Price: c.Price, DiscountAmount: c.DiscountAmount}
		}
	default:
		return nil, ErrProductNotFound
	}

	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *productService) ListBooks(ctx context.Context, p *utils.Pagination) (*utils.PageResult, error) {
	books, total, err := s.repo.ListActiveBooks(ctx, p)
	if err != nil {
		return nil, err
	}
	return utils.NewPageResult(books, total, *p), nil
}

func (s *productService) ListIndicators(ctx context.Context, p *utils.Pagination) (*utils.PageResult, error) {
	items, total, err := s.repo.ListActiveIndicators(ctx, p)
	if err != nil {
		return nil, err
	}
	return utils.NewPageResult(items, total, *p), nil
}
