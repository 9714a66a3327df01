package service

import (
	"context"
	"time"

	"course_commerce/internal/domain/coupon/model"
	"course_commerce/internal/domain/coupon/repository"
	"course_commerce/internal/pkg/apperr"
	"course_commerce/pkg/database"
	"course_commerce/pkg/response"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrCouponNotFound     = apperr.Validation(response.ErrCouponNotFound, "Mã giảm giá không tồn tại")
	ErrCouponInactive     = apperr.Validation(response.ErrCouponInactive, "Mã giảm giá đã bị vô hiệu hóa")
	ErrCouponExpired      = apperr.Validation(response.ErrCouponExpired, "Mã giảm giá đã hết hạn")
	ErrCouponExhausted    = apperr.Validation(response.ErrCouponExhausted, "Mã giảm giá đã hết lượt sử dụng")
	ErrCouponInapplicable = apperr.Validation(response.ErrCouponInapplicable, "Mã giảm giá không áp dụng cho sản phẩm này")
	ErrCouponDuplicate    = apperr.Conflict(response.ErrCouponCodeDuplicate, "Mã giảm giá đã tồn tại")
	ErrInvalidCouponValue = apperr.Validation(response.ErrInvalidParam, "Giá trị giảm giá không hợp lệ")
)

// Result 优惠计算结果
type Result struct {
	Code       string     `json:"code"`
	Type       model.Type `json:"type"`
	Value      int64      `json:"value"`
	Discount   int64      `json:"discount"`
	FinalPrice int64      `json:"finalPrice"`
}

// Evaluate 校验优惠码状态并计算折扣，不修改任何计数
//   - PERCENTAGE: floor(price * value / 100)
//   - FIXED_AMOUNT: value，不超过 price
func Evaluate(c *model.Coupon, resourceTag string, price int64, now time.Time) (*Result, error) {
	switch {
	case !c.IsActive:
		return nil, ErrCouponInactive
	case c.ExpiresAt != nil && c.ExpiresAt.Before(now):
		return nil, ErrCouponExpired
	case c.Exhausted():
		return nil, ErrCouponExhausted
	case !c.AppliesTo(resourceTag):
		return nil, ErrCouponInapplicable
	}

	if price < 0 {
		price = 0
	}
	var discount int64
	switch c.Type {
	case model.TypePercentage:
		discount = price * c.Value / 100
	case model.TypeFixedAmount:
		discount = c.Value
	}
	if discount > price {
		discount = price
	}
	if discount < 0 {
		discount = 0
	}

	return &Result{
		Code:       c.Code,
		Type:       c.Type,
		Value:      c.Value,
		Discount:   discount,
		FinalPrice: price - discount,
	}, nil
}

// CreateInput 管理员创建优惠码
type CreateInput struct {
	Code         string     `json:"code" binding:"required,max=64"`
	Type         model.Type `json:"type" binding:"required"`
	Value        int64      `json:"value" binding:"required,min=1"`
	ApplicableTo []string   `json:"applicableTo" binding:"required,min=1"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	UsageLimit   int        `json:"usageLimit" binding:"min=0"`
}

type CouponService interface {
	// Validate 结账前预览与结账时校验共用
	Validate(ctx context.Context, code, resourceTag string, price int64) (*Result, error)
	Create(ctx context.Context, in CreateInput) (*model.Coupon, error)
	// IncrementUsage 支付确认时调用；已达上限返回 ErrCouponExhausted
	IncrementUsage(ctx context.Context, tx *gorm.DB, code string) error
}

type couponService struct {
	repo   repository.CouponRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewCouponService(repo repository.CouponRepository, logger *zap.Logger) CouponService {
	return &couponService{
		repo:   repo,
		logger: logger.With(zap.String("service", "coupon")),
		now:    time.Now,
	}
}

func (s *couponService) Validate(ctx context.Context, code, resourceTag string, price int64) (*Result, error) {
	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return Evaluate(c, resourceTag, price, s.now())
}

func (s *couponService) Create(ctx context.Context, in CreateInput) (*model.Coupon, error) {
	if !in.Type.Valid() || (in.Type == model.TypePercentage && in.Value > 100) {
		return nil, ErrInvalidCouponValue
	}
	c := &model.Coupon{
		Code:         in.Code,
		Type:         in.Type,
		Value:        in.Value,
		ApplicableTo: datatypes.JSONSlice[string](in.ApplicableTo),
		ExpiresAt:    in.ExpiresAt,
		UsageLimit:   in.UsageLimit,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrCouponDuplicate
		}
		return nil, err
	}
	s.logger.Info("coupon created", zap.String("code", c.Code), zap.String("type", string(c.Type)))
	return c, nil
}

func (s *couponService) IncrementUsage(ctx context.Context, tx *gorm.DB, code string) error {
	ok, err := s.repo.IncrementUsage(ctx, tx, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCouponExhausted
	}
	return nil
}
