package service

import (
	"context"
	"math"
	"time"

	"course_commerce/internal/domain/learning/repository"
	"course_commerce/pkg/cache"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AnalyticsPattern 所有分析缓存键
const AnalyticsPattern = "analytics:*"

type rollupService struct {
	courses     repository.CourseRepository
	progress    repository.ProgressRepository
	enrollments repository.EnrollmentRepository
	cache       cache.CacheService
	logger      *zap.Logger
	now         func() time.Time
}

func NewRollupService(courses repository.CourseRepository, progress repository.ProgressRepository,
	enrollments repository.EnrollmentRepository, c cache.CacheService, logger *zap.Logger) Rollup {
	return &rollupService{
		courses:     courses,
		progress:    progress,
		enrollments: enrollments,
		cache:       c,
		logger:      logger.With(zap.String("service", "enrollment_rollup")),
		now:         time.Now,
	}
}

// Recompute 根据实时进度行重算报名进度；没有报名记录时为空操作
func (s *rollupService) Recompute(ctx context.Context, userID, courseID string) error {
	var (
		total, completed int64
		current          string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.courses.CountPublishedLessons(gctx, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		completed, err = s.progress.CountCompleted(gctx, userID, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		current, err = s.progress.LatestLessonID(gctx, userID, courseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if completed > total {
		completed = total
	}

	updated, err := s.enrollments.ApplyRollup(ctx, userID, courseID, repository.RollupValues{
		ProgressPercent:       Percent(completed, total),
		CompletedLessonsCount: int(completed),
		CurrentLessonID:       current,
		AllCompleted:          total > 0 && completed >= total,
		At:                    s.now(),
	})
	if err != nil {
		return err
	}
	if !updated {
		s.logger.Debug("no enrollment to roll up", zap.String("user_id", userID), zap.String("course_id", courseID))
	}

	if err := s.cache.InvalidatePattern(ctx, AnalyticsPattern); err != nil {
		s.logger.Warn("invalidate analytics cache failed", zap.Error(err))
	}
	return nil
}

// Percent completed/total*100，保留一位小数，不超过 100；total 为 0 时为 0
func Percent(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return math.Round(float64(completed)*1000/float64(total)) / 10
}
