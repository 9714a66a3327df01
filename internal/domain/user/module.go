package user

import (
	"course_commerce/internal/domain/user/handler"
	"course_commerce/internal/domain/user/repository"
	"course_commerce/internal/domain/user/service"
	"course_commerce/internal/pkg/middleware"
	"course_commerce/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ServiceProvisioner 跨模块服务名
const ServiceProvisioner = "user.provisioner"

// UserModule 用户模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 结账模块依赖开户服务
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	userRepo := repository.NewUserRepository(ctx.DB)
	userService := service.NewUserService(userRepo, ctx.Logger)
	userHandler := handler.NewUserHandler(userService)

	ctx.Provide(ServiceProvisioner, service.NewProvisioner(userRepo, ctx.Logger))

	// 2. 路由注册
	setupRoutes(ctx.API, userHandler)

	return nil
}

func setupRoutes(r *gin.RouterGroup, h *handler.UserHandler) {
	// 公开路由
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/password", middleware.AuthMiddleware(), h.ChangePassword)
	}

	// 受保护的路由
	userGroup := r.Group("/users")
	userGroup.Use(middleware.AuthMiddleware())
	{
		userGroup.GET("/me", h.Me)
	}
}
