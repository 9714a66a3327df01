package learning

import (
	"context"

	"course_commerce/internal/domain/learning/handler"
	"course_commerce/internal/domain/learning/repository"
	"course_commerce/internal/domain/learning/service"
	"course_commerce/internal/pkg/events"
	"course_commerce/internal/pkg/middleware"
	"course_commerce/internal/pkg/registry"
)

type LearningModule struct{}

func init() {
	registry.Register(&LearningModule{})
}

func (m *LearningModule) Name() string {
	return "learning"
}

func (m *LearningModule) Priority() int {
	return 10
}

func (m *LearningModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	courseRepo := repository.NewCourseRepository(ctx.DB)
	progressRepo := repository.NewProgressRepository(ctx.DB)
	enrollmentRepo := repository.NewEnrollmentRepository(ctx.DB)

	rollup := service.NewRollupService(courseRepo, progressRepo, enrollmentRepo, ctx.Cache, ctx.Logger)
	tracker := service.NewProgressService(progressRepo, ctx.Tx, rollup,
		ctx.Config.Learning.CompletionThreshold, ctx.Metrics, ctx.Logger)
	courses := service.NewCourseService(courseRepo, progressRepo, enrollmentRepo, tracker)
	analytics := service.NewAnalyticsService(enrollmentRepo, ctx.Cache, ctx.Metrics, ctx.Logger)

	// 2. 支付成功后收入统计变化
	ctx.Bus.Subscribe(events.PaymentConfirmedName, "analytics_cache", func(c context.Context, _ events.Event) error {
		return analytics.Invalidate(c)
	})

	// 3. 路由注册
	h := handler.NewLearningHandler(courses, tracker, analytics)
	g := ctx.API.Group("/learning", middleware.AuthMiddleware())
	{
		g.GET("/courses/:id/lessons", h.Outline)
		g.GET("/courses/:id/enrollment", h.Enrollment)
		g.POST("/lessons/:id/start", h.StartLesson)
		g.PUT("/lessons/:id/progress", h.UpdateProgress)
	}
	admin := ctx.API.Group("/admin", middleware.AuthMiddleware(), middleware.AdminMiddleware())
	admin.GET("/analytics/courses/:id", h.CourseAnalytics)

	return nil
}
