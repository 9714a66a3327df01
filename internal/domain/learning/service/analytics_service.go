package service

import (
	"context"
	"errors"
	"time"

	"course_commerce/internal/domain/learning/repository"
	"course_commerce/pkg/cache"
	"course_commerce/pkg/metrics"

	"go.uber.org/zap"
)

const analyticsTTL = 10 * time.Minute

// AnalyticsService 管理端课程统计，结果缓存在 analytics:course:<id>
type AnalyticsService interface {
	CourseSummary(ctx context.Context, courseID string) (*repository.CourseStats, error)
	Invalidate(ctx context.Context) error
}

type analyticsService struct {
	enrollments repository.EnrollmentRepository
	cache       cache.CacheService
	metrics     *metrics.MetricsCollector
	logger      *zap.Logger
}

func NewAnalyticsService(enrollments repository.EnrollmentRepository, c cache.CacheService,
	m *metrics.MetricsCollector, logger *zap.Logger) AnalyticsService {
	return &analyticsService{
		enrollments: enrollments,
		cache:       c,
		metrics:     m,
		logger:      logger.With(zap.String("service", "analytics")),
	}
}

func courseKey(courseID string) string {
	return "analytics:course:" + courseID
}

func (s *analyticsService) CourseSummary(ctx context.Context, courseID string) (*repository.CourseStats, error) {
	var cached repository.CourseStats
	err := s.cache.Get(ctx, courseKey(courseID), &cached)
	if err == nil {
		s.metrics.RecordCache("analytics", true)
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("analytics cache read failed", zap.Error(err))
	}
	s.metrics.RecordCache("analytics", false)

	stats, err := s.enrollments.CourseStats(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, courseKey(courseID), stats, analyticsTTL); err != nil {
		s.logger.Warn("analytics cache write failed", zap.Error(err))
	}
	return stats, nil
}

func (s *analyticsService) Invalidate(ctx context.Context) error {
	return s.cache.InvalidatePattern(ctx, AnalyticsPattern)
}
