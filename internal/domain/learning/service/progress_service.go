package service

import (
	"context"
	"time"

	"course_commerce/internal/domain/learning/model"
	"course_commerce/internal/domain/learning/progress"
	"course_commerce/internal/domain/learning/repository"
	"course_commerce/pkg/database"
	"course_commerce/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UpdateProgressInput 播放进度上报，字段为 nil 表示未提供
type UpdateProgressInput struct {
	WatchTime       *float64           `json:"watch_time"`
	LastPosition    *float64           `json:"last_position"`
	Duration        *float64           `json:"duration"`
	WatchedSegments []progress.Segment `json:"watched_segments"`
	Completed       *bool              `json:"completed"`
	Status          *progress.Status   `json:"status"`
}

// Rollup 报名进度汇总
type Rollup interface {
	Recompute(ctx context.Context, userID, courseID string) error
}

// ProgressService 课时进度
type ProgressService interface {
	GetOrCreate(ctx context.Context, userID, courseID, lessonID string) (*model.LessonProgress, error)
	MarkStarted(ctx context.Context, userID, courseID, lessonID string) (bool, error)
	// UpdateProgress 没有进度行时返回 nil, nil
	UpdateProgress(ctx context.Context, userID, lessonID string, in UpdateProgressInput) (*model.LessonProgress, error)
}

type progressService struct {
	repo      repository.ProgressRepository
	tx        database.TxManager
	rollup    Rollup
	threshold float64
	metrics   *metrics.MetricsCollector
	logger    *zap.Logger
	now       func() time.Time
}

func NewProgressService(repo repository.ProgressRepository, tx database.TxManager, rollup Rollup,
	threshold float64, m *metrics.MetricsCollector, logger *zap.Logger) ProgressService {
	if threshold <= 0 {
		threshold = progress.DefaultCompletionThreshold
	}
	return &progressService{
		repo:      repo,
		tx:        tx,
		rollup:    rollup,
		threshold: threshold,
		metrics:   m,
		logger:    logger.With(zap.String("service", "lesson_progress")),
		now:       time.Now,
	}
}

// GetOrCreate 首次查看课时时惰性创建进度行
// 并发首次查看由唯一索引兜底：插入冲突即重新读取
func (s *progressService) GetOrCreate(ctx context.Context, userID, courseID, lessonID string) (*model.LessonProgress, error) {
	p, err := s.repo.Get(ctx, userID, courseID, lessonID)
	if err == nil {
		return p, nil
	}
	if !database.IsNotFound(err) {
		return nil, err
	}

	p = &model.LessonProgress{
		UserID:          userID,
		CourseID:        courseID,
		LessonID:        lessonID,
		Status:          progress.StatusNotStarted,
		WatchedSegments: datatypes.JSONSlice[progress.Segment]{},
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if database.IsDuplicateKey(err) {
			return s.repo.Get(ctx, userID, courseID, lessonID)
		}
		return nil, err
	}
	return p, nil
}

// MarkStarted NOT_STARTED → IN_PROGRESS；其他状态为幂等空操作
func (s *progressService) MarkStarted(ctx context.Context, userID, courseID, lessonID string) (bool, error) {
	changed, err := s.repo.MarkStarted(ctx, userID, courseID, lessonID, s.now())
	if err != nil {
		return false, err
	}
	if changed {
		s.metrics.RecordProgressUpdate("started")
		s.recompute(ctx, userID, courseID)
	}
	return changed, nil
}

// UpdateProgress 在事务内锁定进度行后合并区间，保证同一 (user, lesson) 的并发上报不会丢失
func (s *progressService) UpdateProgress(ctx context.Context, userID, lessonID string, in UpdateProgressInput) (*model.LessonProgress, error) {
	var row *model.LessonProgress

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		// 1. 锁定进度行
		p, err := s.repo.FindForUpdate(ctx, tx, userID, lessonID)
		if err != nil {
			if database.IsNotFound(err) {
				return nil
			}
			return err
		}

		// 2. 计算新状态
		next := progress.Apply(p.State(), progress.Update{
			Segments:  in.WatchedSegments,
			WatchTime: in.WatchTime,
			Duration:  in.Duration,
			Completed: in.Completed,
			Status:    in.Status,
		}, s.threshold, s.now())
		p.SetState(next)
		if in.LastPosition != nil {
			p.LastPosition = *in.LastPosition
		}

		// 3. 写回
		if err := s.repo.Save(ctx, tx, p); err != nil {
			return err
		}
		row = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}

	s.metrics.RecordProgressUpdate("playback")
	s.recompute(ctx, userID, row.CourseID)
	return row, nil
}

// recompute 汇总失败只记录日志：报名进度是派生数据，下一次上报会重新计算
func (s *progressService) recompute(ctx context.Context, userID, courseID string) {
	if err := s.rollup.Recompute(ctx, userID, courseID); err != nil {
		s.logger.Warn("enrollment rollup failed",
			zap.String("user_id", userID), zap.String("course_id", courseID), zap.Error(err))
	}
}
