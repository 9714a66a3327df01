package catalog

import (
	"course_commerce/internal/domain/catalog/handler"
	"course_commerce/internal/domain/catalog/repository"
	"course_commerce/internal/domain/catalog/service"
	"course_commerce/internal/pkg/middleware"
	"course_commerce/internal/pkg/registry"
	"course_commerce/internal/pkg/uploader"

	"go.uber.org/zap"
)

// 跨模块服务名
const (
	ServiceProducts  = "catalog.products"
	ServiceFileStore = "catalog.files"
)

type CatalogModule struct{}

func init() {
	registry.Register(&CatalogModule{})
}

func (m *CatalogModule) Name() string {
	return "catalog"
}

func (m *CatalogModule) Priority() int {
	return 5
}

func (m *CatalogModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewCatalogRepository(ctx.DB)
	products := service.NewProductService(repo)
	ctx.Provide(ServiceProducts, products)

	h := handler.NewCatalogHandler(products)
	ctx.API.GET("/books", h.ListBooks)
	ctx.API.GET("/indicators", h.ListIndicators)

	store, err := uploader.NewAliyunOSSStore(ctx.Config.OSS)
	if err != nil {
		ctx.Logger.Warn("object storage disabled, book file upload unavailable", zap.Error(err))
		return nil
	}
	ctx.Provide(ServiceFileStore, uploader.FileStore(store))

	assets := handler.NewAssetHandler(service.NewAssetService(repo, store, ctx.Logger))
	admin := ctx.API.Group("/admin", middleware.AuthMiddleware(), middleware.AdminMiddleware())
	admin.POST("/books/:id/file", assets.UploadBookFile)
	return nil
}
