package repository

import (
	"context"

	"course_commerce/internal/domain/learning/model"

	"gorm.io/gorm"
)

// CourseRepository 课程与课时读取
type CourseRepository interface {
	GetLesson(ctx context.Context, lessonID string) (*model.Lesson, error)
	ListPublishedLessons(ctx context.Context, courseID string) ([]model.Lesson, error)
	CountPublishedLessons(ctx context.Context, courseID string) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) GetLesson(ctx context.Context, lessonID string) (*model.Lesson, error) {
	var l model.Lesson
	if err := r.db.WithContext(ctx).Where("id = ?", lessonID).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *courseRepository) ListPublishedLessons(ctx context.Context, courseID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND status = ?", courseID, model.LessonStatusPublished).
		Order("sort_order ASC, created_at ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *courseRepository) CountPublishedLessons(ctx context.Context, courseID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Lesson{}).
		Where("course_id = ? AND status = ?", courseID, model.LessonStatusPublished).
		Count(&n).Error
	return n, err
}
