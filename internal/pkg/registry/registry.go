package registry

import (
	"sort"

	"course_commerce/internal/pkg/config"
	"course_commerce/internal/pkg/events"
	"course_commerce/pkg/cache"
	"course_commerce/pkg/database"
	"course_commerce/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ModuleContext 模块初始化所需的上下文
type ModuleContext struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Router  *gin.Engine
	API     *gin.RouterGroup // /api/v1
	Logger  *zap.Logger
	Config  *config.Config
	Tx      database.TxManager
	Cache   cache.CacheService
	Bus     events.Bus
	Metrics *metrics.MetricsCollector

	// 跨模块共享的服务，由先初始化的模块写入
	Services map[string]interface{}
}

// Provide 暴露一个服务给后续模块
func (c *ModuleContext) Provide(name string, svc interface{}) {
	if c.Services == nil {
		c.Services = make(map[string]interface{})
	}
	c.Services[name] = svc
}

// Lookup 获取先初始化模块暴露的服务
func Lookup[T any](c *ModuleContext, name string) (T, bool) {
	v, ok := c.Services[name]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Module 模块接口
type Module interface {
	// Name 返回模块名称
	Name() string

	// Init 初始化模块（依赖注入、路由注册等）
	Init(ctx *ModuleContext) error

	// Priority 返回初始化优先级（数字越小越先初始化）
	// 例如：user 模块需要先于 payment 模块初始化
	Priority() int
}

// moduleRegistry 全局模块注册表
var moduleRegistry = make(map[string]Module)

// Register 注册模块
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// GetModules 获取所有已注册的模块
func GetModules() map[string]Module {
	return moduleRegistry
}

// InitModules 按优先级初始化所有模块
func InitModules(ctx *ModuleContext) error {
	return initSorted(ctx, moduleRegistry)
}

func initSorted(ctx *ModuleContext, registered map[string]Module) error {
	modules := make([]Module, 0, len(registered))
	for _, m := range registered {
		modules = append(modules, m)
	}

	// 优先级相同时按名称，保证启动顺序稳定
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Priority() != modules[j].Priority() {
			return modules[i].Priority() < modules[j].Priority()
		}
		return modules[i].Name() < modules[j].Name()
	})

	for _, module := range modules {
		if err := module.Init(ctx); err != nil {
			return err
		}
		if ctx.Logger != nil {
			ctx.Logger.Info("module initialized", zap.String("module", module.Name()))
		}
	}

	return nil
}
