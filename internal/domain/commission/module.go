package commission

import (
	"course_commerce/internal/domain/commission/handler"
	"course_commerce/internal/domain/commission/repository"
	"course_commerce/internal/domain/commission/service"
	"course_commerce/internal/pkg/middleware"
	"course_commerce/internal/pkg/registry"
)

// ServiceSalers 跨模块服务名
const ServiceSalers = "commission.salers"

type CommissionModule struct{}

func init() {
	registry.Register(&CommissionModule{})
}

func (m *CommissionModule) Name() string {
	return "commission"
}

func (m *CommissionModule) Priority() int {
	// 先于 payment，供结账解析推广码
	return 15
}

func (m *CommissionModule) Init(ctx *registry.ModuleContext) error {
	svc := service.NewCommissionService(repository.NewCommissionRepository(ctx.DB), ctx.Metrics, ctx.Logger)
	svc.Register(ctx.Bus)
	ctx.Provide(ServiceSalers, svc)

	h := handler.NewCommissionHandler(svc)
	ctx.API.GET("/me/commissions", middleware.AuthMiddleware(), h.MyCommissions)
	return nil
}
