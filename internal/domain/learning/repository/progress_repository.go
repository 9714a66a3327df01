package repository

import (
	"context"
	"time"

	"course_commerce/internal/domain/learning/model"
	"course_commerce/internal/domain/learning/progress"
	"course_commerce/pkg/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository 课时进度存储；tx 为 nil 时使用默认连接
type ProgressRepository interface {
	Get(ctx context.Context, userID, courseID, lessonID string) (*model.LessonProgress, error)
	Create(ctx context.Context, p *model.LessonProgress) error
	// FindForUpdate 锁定 (user, lesson) 的进度行直到事务结束
	FindForUpdate(ctx context.Context, tx *gorm.DB, userID, lessonID string) (*model.LessonProgress, error)
	Save(ctx context.Context, tx *gorm.DB, p *model.LessonProgress) error
	// MarkStarted 仅 NOT_STARTED → IN_PROGRESS，返回是否发生了状态变化
	MarkStarted(ctx context.Context, userID, courseID, lessonID string, now time.Time) (bool, error)
	ListByUserCourse(ctx context.Context, userID, courseID string) ([]model.LessonProgress, error)
	// CountCompleted 只统计仍处于发布状态的课时
	CountCompleted(ctx context.Context, userID, courseID string) (int64, error)
	// LatestLessonID 最近更新的进度行对应课时，没有时返回空串
	LatestLessonID(ctx context.Context, userID, courseID string) (string, error)
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, userID, courseID, lessonID string) (*model.LessonProgress, error) {
	var p model.LessonProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND lesson_id = ?", userID, courseID, lessonID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *progressRepository) Create(ctx context.Context, p *model.LessonProgress) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *progressRepository) FindForUpdate(ctx context.Context, tx *gorm.DB, userID, lessonID string) (*model.LessonProgress, error) {
	var p model.LessonProgress
	err := database.Conn(ctx, r.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *progressRepository) Save(ctx context.Context, tx *gorm.DB, p *model.LessonProgress) error {
	return database.Conn(ctx, r.db, tx).Model(p).Select(
		"status", "watch_time", "last_position", "duration", "progress_percent",
		"watched_segments", "started_at", "completed_at", "updated_at",
	).Updates(p).Error
}

func (r *progressRepository) MarkStarted(ctx context.Context, userID, courseID, lessonID string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.LessonProgress{}).
		Where("user_id = ? AND course_id = ? AND lesson_id = ? AND status = ?",
			userID, courseID, lessonID, progress.StatusNotStarted).
		Updates(map[string]interface{}{
			"status":     progress.StatusInProgress,
			"started_at": gorm.Expr("COALESCE(started_at, ?)", now),
			"updated_at": now,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *progressRepository) ListByUserCourse(ctx context.Context, userID, courseID string) ([]model.LessonProgress, error) {
	var rows []model.LessonProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&rows).Error
	return rows, err
}

func (r *progressRepository) CountCompleted(ctx context.Context, userID, courseID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Where("lesson_progresses.user_id = ? AND lesson_progresses.course_id = ? AND lesson_progresses.status = ? AND lessons.status = ?",
			userID, courseID, progress.StatusCompleted, model.LessonStatusPublished).
		Count(&n).Error
	return n, err
}

func (r *progressRepository) LatestLessonID(ctx context.Context, userID, courseID string) (string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.LessonProgress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("updated_at DESC").
		Limit(1).
		Pluck("lesson_id", &ids).Error
	if err != nil || len(ids) == 0 {
		return "", err
	}
	return ids[0], nil
}
