package repository

import (
	"context"

	"course_commerce/internal/domain/commission/model"

	"gorm.io/gorm"
)

type CommissionRepository interface {
	// FindSalerByCode 只返回启用中的推广人
	FindSalerByCode(ctx context.Context, code string) (*model.Saler, error)
	GetSaler(ctx context.Context, id string) (*model.Saler, error)
	FindSalerByUserID(ctx context.Context, userID string) (*model.Saler, error)
	ExistsForOrder(ctx context.Context, orderID string) (bool, error)
	Create(ctx context.Context, c *model.Commission) error
	ListBySaler(ctx context.Context, salerID string, offset, limit int) ([]model.Commission, int64, error)
}

type commissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) FindSalerByCode(ctx context.Context, code string) (*model.Saler, error) {
	var s model.Saler
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", model.NormalizeCode(code), true).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *commissionRepository) GetSaler(ctx context.Context, id string) (*model.Saler, error) {
	var s model.Saler
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *commissionRepository) FindSalerByUserID(ctx context.Context, userID string) (*model.Saler, error) {
	var s model.Saler
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *commissionRepository) ExistsForOrder(ctx context.Context, orderID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Commission{}).Where("order_id = ?", orderID).Count(&n).Error
	return n > 0, err
}

func (r *commissionRepository) Create(ctx context.Context, c *model.Commission) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *commissionRepository) ListBySaler(ctx context.Context, salerID string, offset, limit int) ([]model.Commission, int64, error) {
	var (
		items []model.Commission
		total int64
	)
	q := r.db.WithContext(ctx).Model(&model.Commission{}).Where("saler_id = ?", salerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error
	return items, total, err
}
