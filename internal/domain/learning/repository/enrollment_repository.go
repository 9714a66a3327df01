package repository

import (
	"context"
	"time"

	"course_commerce/internal/domain/learning/model"
	base "course_commerce/pkg/model"

	"gorm.io/gorm"
)

// RollupValues 报名进度汇总
type RollupValues struct {
	ProgressPercent       float64
	CompletedLessonsCount int
	CurrentLessonID       string
	AllCompleted          bool
	At                    time.Time
}

// CourseStats 课程维度统计
type CourseStats struct {
	Enrolled        int64   `json:"enrolled"`
	Completed       int64   `json:"completed"`
	AverageProgress float64 `json:"averageProgress"`
	Revenue         int64   `json:"revenue"`
}

// EnrollmentRepository 报名读写（创建/恢复由权益发放负责）
type EnrollmentRepository interface {
	GetActive(ctx context.Context, userID, courseID string) (*model.CourseEnrollment, error)
	// ApplyRollup 写入汇总；没有有效报名时返回 false
	ApplyRollup(ctx context.Context, userID, courseID string, v RollupValues) (bool, error)
	CourseStats(ctx context.Context, courseID string) (*CourseStats, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) GetActive(ctx context.Context, userID, courseID string) (*model.CourseEnrollment, error) {
	var e model.CourseEnrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND lifecycle = ?", userID, courseID, base.LifecycleActive).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepository) ApplyRollup(ctx context.Context, userID, courseID string, v RollupValues) (bool, error) {
	updates := map[string]interface{}{
		"progress_percent":        v.ProgressPercent,
		"completed_lessons_count": v.CompletedLessonsCount,
		"last_activity_at":        v.At,
		"updated_at":              v.At,
	}
	if v.CurrentLessonID != "" {
		updates["current_lesson_id"] = v.CurrentLessonID
	}
	if v.AllCompleted {
		// 暂停的报名保持暂停
		updates["status"] = gorm.Expr("CASE WHEN status = ? THEN ? ELSE status END",
			model.EnrollmentActive, model.EnrollmentCompleted)
	}

	res := r.db.WithContext(ctx).Model(&model.CourseEnrollment{}).
		Where("user_id = ? AND course_id = ? AND lifecycle = ?", userID, courseID, base.LifecycleActive).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *enrollmentRepository) CourseStats(ctx context.Context, courseID string) (*CourseStats, error) {
	var stats CourseStats
	err := r.db.WithContext(ctx).Model(&model.CourseEnrollment{}).
		Select("COUNT(*) AS enrolled, "+
			"COUNT(*) FILTER (WHERE status = ?) AS completed, "+
			"COALESCE(AVG(progress_percent), 0) AS average_progress", model.EnrollmentCompleted).
		Where("course_id = ? AND lifecycle = ?", courseID, base.LifecycleActive).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Table("orders").
		Select("COALESCE(SUM(total_amount), 0)").
		Where("product_type = ? AND product_id = ? AND status = ?", "course", courseID, "paid").
		Scan(&stats.Revenue).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
