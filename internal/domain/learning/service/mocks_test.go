package service

import (
	"context"
	"time"

	"course_commerce/internal/domain/learning/model"
	"course_commerce/internal/domain/learning/repository"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, userID, courseID, lessonID string) (*model.LessonProgress, error) {
	args := m.Called(ctx, userID, courseID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LessonProgress), args.Error(1)
}

func (m *MockProgressRepository) Create(ctx context.Context, p *model.LessonProgress) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProgressRepository) FindForUpdate(ctx context.Context, tx *gorm.DB, userID, lessonID string) (*model.LessonProgress, error) {
	args := m.Called(ctx, tx, userID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LessonProgress), args.Error(1)
}

func (m *MockProgressRepository) Save(ctx context.Context, tx *gorm.DB, p *model.LessonProgress) error {
	return m.Called(ctx, tx, p).Error(0)
}

func (m *MockProgressRepository) MarkStarted(ctx context.Context, userID, courseID, lessonID string, now time.Time) (bool, error) {
	args := m.Called(ctx, userID, courseID, lessonID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockProgressRepository) ListByUserCourse(ctx context.Context, userID, courseID string) ([]model.LessonProgress, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Get(0).([]model.LessonProgress), args.Error(1)
}

func (m *MockProgressRepository) CountCompleted(ctx context.Context, userID, courseID string) (int64, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProgressRepository) LatestLessonID(ctx context.Context, userID, courseID string) (string, error) {
	args := m.Called(ctx, userID, courseID)
	return args.String(0), args.Error(1)
}

type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) GetLesson(ctx context.Context, lessonID string) (*model.Lesson, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lesson), args.Error(1)
}

func (m *MockCourseRepository) ListPublishedLessons(ctx context.Context, courseID string) ([]model.Lesson, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).([]model.Lesson), args.Error(1)
}

func (m *MockCourseRepository) CountPublishedLessons(ctx context.Context, courseID string) (int64, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).(int64), args.Error(1)
}

type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) GetActive(ctx context.Context, userID, courseID string) (*model.CourseEnrollment, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CourseEnrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) ApplyRollup(ctx context.Context, userID, courseID string, v repository.RollupValues) (bool, error) {
	args := m.Called(ctx, userID, courseID, v)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) CourseStats(ctx context.Context, courseID string) (*repository.CourseStats, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CourseStats), args.Error(1)
}

type MockRollup struct {
	mock.Mock
}

func (m *MockRollup) Recompute(ctx context.Context, userID, courseID string) error {
	return m.Called(ctx, userID, courseID).Error(0)
}

type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) GetOrCreate(ctx context.Context, userID, courseID, lessonID string) (*model.LessonProgress, error) {
	args := m.Called(ctx, userID, courseID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LessonProgress), args.Error(1)
}

func (m *MockProgressService) MarkStarted(ctx context.Context, userID, courseID, lessonID string) (bool, error) {
	args := m.Called(ctx, userID, courseID, lessonID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProgressService) UpdateProgress(ctx context.Context, userID, lessonID string, in UpdateProgressInput) (*model.LessonProgress, error) {
	args := m.Called(ctx, userID, lessonID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LessonProgress), args.Error(1)
}
