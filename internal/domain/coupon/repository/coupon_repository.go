package repository

import (
	"context"

	"course_commerce/internal/domain/coupon/model"
	"course_commerce/pkg/database"

	"gorm.io/gorm"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	// GetByCode 大小写不敏感
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	// IncrementUsage 原子自增并受 usage_limit 约束，返回是否有行被更新
	IncrementUsage(ctx context.Context, tx *gorm.DB, code string) (bool, error)
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.WithContext(ctx).Where("code = ?", model.NormalizeCode(code)).First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// IncrementUsage 条件更新代替读改写，并发确认不会丢失计数也不会越过上限
func (r *couponRepository) IncrementUsage(ctx context.Context, tx *gorm.DB, code string) (bool, error) {
	res := database.Conn(ctx, r.db, tx).Model(&model.Coupon{}).
		Where("code = ? AND (usage_limit = 0 OR usage_count < usage_limit)", model.NormalizeCode(code)).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	return res.RowsAffected > 0, res.Error
}
