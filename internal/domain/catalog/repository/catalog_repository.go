package repository

import (
	"context"

	"course_commerce/internal/domain/catalog/model"
	learning "course_commerce/internal/domain/learning/model"
	base "course_commerce/pkg/model"
	"course_commerce/pkg/utils"

	"gorm.io/gorm"
)

// CatalogRepository 商品读取
type CatalogRepository interface {
	GetActiveBook(ctx context.Context, id string) (*model.Book, error)
	GetActiveIndicator(ctx context.Context, id string) (*model.Indicator, error)
	GetPublishedCourse(ctx context.Context, id string) (*learning.Course, error)
	GetBook(ctx context.Context, id string) (*model.Book, error)
	GetIndicator(ctx context.Context, id string) (*model.Indicator, error)
	ListActiveBooks(ctx context.Context, p *utils.Pagination) ([]model.Book, int64, error)
	ListActiveIndicators(ctx context.Context, p *utils.Pagination) ([]model.Indicator, int64, error)
	// SetBookFile 绑定电子书在对象存储中的文件
	SetBookFile(ctx context.Context, id, fileKey string) (bool, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetActiveBook(ctx context.Context, id string) (*model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).Where("id = ? AND status = ?", id, model.StatusActive).First(&b).Error
	return &b, err
}

func (r *catalogRepository) GetActiveIndicator(ctx context.Context, id string) (*model.Indicator, error) {
	var i model.Indicator
	err := r.db.WithContext(ctx).Where("id = ? AND status = ?", id, model.StatusActive).First(&i).Error
	return &i, err
}

func (r *catalogRepository) GetPublishedCourse(ctx context.Context, id string) (*learning.Course, error) {
	var c learning.Course
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ? AND lifecycle = ?", id, learning.CourseStatusPublished, base.LifecycleActive).
		First(&c).Error
	return &c, err
}

func (r *catalogRepository) GetBook(ctx context.Context, id string) (*model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	return &b, err
}

func (r *catalogRepository) GetIndicator(ctx context.Context, id string) (*model.Indicator, error) {
	var i model.Indicator
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&i).Error
	return &i, err
}

func (r *catalogRepository) ListActiveBooks(ctx context.Context, p *utils.Pagination) ([]model.Book, int64, error) {
	var books []model.Book
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Book{}).Where("status = ?", model.StatusActive)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset, limit := p.GetPageOffset()
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&books).Error
	return books, total, err
}

func (r *catalogRepository) ListActiveIndicators(ctx context.Context, p *utils.Pagination) ([]model.Indicator, int64, error) {
	var items []model.Indicator
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Indicator{}).Where("status = ?", model.StatusActive)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset, limit := p.GetPageOffset()
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error
	return items, total, err
}

func (r *catalogRepository) SetBookFile(ctx context.Context, id, fileKey string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Book{}).Where("id = ?", id).Update("file_key", fileKey)
	return res.RowsAffected > 0, res.Error
}
