package coupon

import (
	"course_commerce/internal/domain/coupon/handler"
	"course_commerce/internal/domain/coupon/repository"
	"course_commerce/internal/domain/coupon/service"
	"course_commerce/internal/pkg/middleware"
	"course_commerce/internal/pkg/registry"
)

// ServiceCoupons 跨模块服务名
const ServiceCoupons = "coupon.service"

// CouponModule 优惠码模块
type CouponModule struct{}

func init() {
	registry.Register(&CouponModule{})
}

func (m *CouponModule) Name() string {
	return "coupon"
}

func (m *CouponModule) Priority() int {
	return 5
}

func (m *CouponModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	repo := repository.NewCouponRepository(ctx.DB)
	svc := service.NewCouponService(repo, ctx.Logger)
	ctx.Provide(ServiceCoupons, svc)

	// 2. 路由注册
	h := handler.NewCouponHandler(svc)
	ctx.API.POST("/coupons/validate", h.Validate)

	admin := ctx.API.Group("/admin", middleware.AuthMiddleware(), middleware.AdminMiddleware())
	admin.POST("/coupons", h.CreateCoupon)
	return nil
}
