package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "course_commerce/docs"
	_ "course_commerce/internal/domain/catalog"
	_ "course_commerce/internal/domain/commission"
	_ "course_commerce/internal/domain/coupon"
	_ "course_commerce/internal/domain/entitlement"
	_ "course_commerce/internal/domain/learning"
	_ "course_commerce/internal/domain/notification"
	_ "course_commerce/internal/domain/payment"
	_ "course_commerce/internal/domain/user"
	"course_commerce/internal/pkg/config"
	"course_commerce/internal/pkg/events"
	"course_commerce/internal/pkg/middleware"
	"course_commerce/internal/pkg/registry"
	"course_commerce/internal/pkg/worker"
	"course_commerce/pkg/cache"
	"course_commerce/pkg/database"
	"course_commerce/pkg/logger"
	"course_commerce/pkg/metrics"
	"course_commerce/pkg/tracing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. 配置与日志
	config.LoadConfig()
	cfg := &config.GlobalConfig
	if err := logger.InitLogger(cfg.App.Env); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Log

	shutdownTracing := tracing.Init(ctx, cfg.Tracing, cfg.App.Env, log)

	// 2. 存储
	db := database.InitDatabase()
	rdb, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("redis connect failed", zap.Error(err))
	}
	cacheSvc := cache.NewRedisCache(rdb, cfg.App.Env)

	// 3. 指标
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewMetricsCollector(reg)

	// 4. 事件：订阅者在 worker 池中异步执行，失败按池策略重试
	pool := worker.NewWorkerPool(log, 8, 256)
	pool.Start()
	bus := events.NewLocalBus(pool, log, collector)

	nc, err := events.ConnectNATS(cfg.NATS.URL, "course-commerce")
	if err != nil {
		log.Fatal("nats connect failed", zap.Error(err))
	}
	if nc != nil {
		events.NewNATSForwarder(nc, cfg.NATS.SubjectPrefix).
			Attach(bus, events.PaymentConfirmedName, events.AccountProvisionedName)
		log.Info("forwarding domain events to nats", zap.String("url", cfg.NATS.URL))
	} else {
		log.Warn("nats not configured, account emails will not be delivered")
	}

	// 5. HTTP
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(
		middleware.RecoveryMiddleware(log),
		otelgin.Middleware(cfg.Tracing.ServiceName),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(log),
		middleware.MetricsMiddleware(collector),
		middleware.SecurityHeadersMiddleware(),
		cors.New(cors.Config{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Trace-ID"},
			ExposeHeaders:    []string{"X-Trace-ID"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
	)

	limiter := middleware.NewIPRateLimiter(rate.Limit(20), 40)
	go sweepLimiter(ctx, limiter)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	if cfg.App.Env != "prod" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	moduleCtx := &registry.ModuleContext{
		DB:      db,
		Redis:   rdb,
		Router:  r,
		API:     r.Group("/api/v1", middleware.RateLimitMiddleware(limiter)),
		Logger:  log,
		Config:  cfg,
		Tx:      database.NewTxManager(db),
		Cache:   cacheSvc,
		Bus:     bus,
		Metrics: collector,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		log.Fatal("module init failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", zap.Error(err))
	}
	// 先停 HTTP 再停 worker
	pool.Stop()
	if nc != nil {
		if err := nc.Drain(); err != nil {
			log.Warn("nats drain failed", zap.Error(err))
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = rdb.Close()
}

func sweepLimiter(ctx context.Context, limiter *middleware.IPRateLimiter) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			limiter.Cleanup(now)
		}
	}
}
