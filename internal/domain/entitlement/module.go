package entitlement

import (
	"time"

	"course_commerce/internal/domain/catalog"
	"course_commerce/internal/domain/entitlement/handler"
	"course_commerce/internal/domain/entitlement/repository"
	"course_commerce/internal/domain/entitlement/service"
	"course_commerce/internal/pkg/middleware"
	"course_commerce/internal/pkg/registry"
	"course_commerce/internal/pkg/uploader"
)

// ServiceGranter 跨模块服务名
const ServiceGranter = "entitlement.granter"

type EntitlementModule struct{}

func init() {
	registry.Register(&EntitlementModule{})
}

func (m *EntitlementModule) Name() string {
	return "entitlement"
}

func (m *EntitlementModule) Priority() int {
	return 8
}

func (m *EntitlementModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewAccessRepository(ctx.DB)
	ctx.Provide(ServiceGranter, service.NewGranter(repo, ctx.Logger))

	// 对象存储由 catalog 模块创建；未配置时下载接口返回 ErrStorageUnavailable
	store, ok := registry.Lookup[uploader.FileStore](ctx, catalog.ServiceFileStore)
	if !ok {
		ctx.Logger.Warn("book downloads disabled: object storage not configured")
	}
	library := service.NewLibraryService(repo, store, time.Duration(ctx.Config.OSS.SignExpire)*time.Second)

	h := handler.NewLibraryHandler(library)
	me := ctx.API.Group("/me", middleware.AuthMiddleware())
	me.GET("/books", h.MyBooks)
	me.GET("/books/:id/download", h.Download)
	return nil
}
