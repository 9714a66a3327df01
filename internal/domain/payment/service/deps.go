package service

import (
	"context"

	catalogModel "course_commerce/internal/domain/catalog/model"
	couponService "course_commerce/internal/domain/coupon/service"
	userModel "course_commerce/internal/domain/user/model"
	userService "course_commerce/internal/domain/user/service"

	"gorm.io/gorm"
)

// ProductResolver 加载可售商品
type ProductResolver interface {
	Resolve(ctx context.Context, productType catalogModel.ProductType, id string) (*catalogModel.Product, error)
}

// CouponValidator 结账时校验优惠码，不消耗次数
type CouponValidator interface {
	Validate(ctx context.Context, code, resourceTag string, price int64) (*couponService.Result, error)
}

// CouponUsage 支付确认时消耗一次优惠码
type CouponUsage interface {
	IncrementUsage(ctx context.Context, tx *gorm.DB, code string) error
}

// AccountProvisioner 按邮箱查找或创建买家
type AccountProvisioner interface {
	FindOrCreateByEmail(ctx context.Context, tx *gorm.DB, contact userModel.BuyerContact) (*userService.Provisioned, error)
}

// EntitlementGranter 权益发放与持有校验
type EntitlementGranter interface {
	Grant(ctx context.Context, tx *gorm.DB, userID string, productType catalogModel.ProductType, productID, orderID string) error
	Owns(ctx context.Context, userID string, productType catalogModel.ProductType, productID string) (bool, error)
}

// SalerResolver 推广码 → saler id，未知推广码返回空串
type SalerResolver interface {
	ResolveSalerID(ctx context.Context, code string) (string, error)
}
