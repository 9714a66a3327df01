package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"course_commerce/internal/domain/learning/repository"
	"course_commerce/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRollup(courses *MockCourseRepository, prog *MockProgressRepository, enr *MockEnrollmentRepository, c cache.CacheService) *rollupService {
	svc := NewRollupService(courses, prog, enr, c, zap.NewNop()).(*rollupService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestPercent(t *testing.T) {
	tests := []struct {
		completed, total int64
		expected         float64
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{3, 3, 100},
		{1, 8, 12.5},
		{4, 3, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Percent(tt.completed, tt.total), "%d/%d", tt.completed, tt.total)
	}
}

func TestRecompute(t *testing.T) {
	ctx := context.Background()

	t.Run("Partial progress", func(t *testing.T) {
		courses := new(MockCourseRepository)
		prog := new(MockProgressRepository)
		enr := new(MockEnrollmentRepository)
		c := cache.NewMemoryCache()
		require.NoError(t, c.Set(ctx, "analytics:course:c", map[string]int{"enrolled": 1}, time.Minute))
		require.NoError(t, c.Set(ctx, "books:list", []string{"a"}, time.Minute))

		courses.On("CountPublishedLessons", mock.Anything, "c").Return(int64(3), nil)
		prog.On("CountCompleted", mock.Anything, "u", "c").Return(int64(2), nil)
		prog.On("LatestLessonID", mock.Anything, "u", "c").Return("l2", nil)
		enr.On("ApplyRollup", ctx, "u", "c", repository.RollupValues{
			ProgressPercent:       66.7,
			CompletedLessonsCount: 2,
			CurrentLessonID:       "l2",
			AllCompleted:          false,
			At:                    fixedNow,
		}).Return(true, nil)

		err := newRollup(courses, prog, enr, c).Recompute(ctx, "u", "c")

		require.NoError(t, err)
		enr.AssertExpectations(t)
		assert.Equal(t, 1, c.Len(), "analytics keys are invalidated, others kept")
	})

	t.Run("All lessons completed", func(t *testing.T) {
		courses := new(MockCourseRepository)
		prog := new(MockProgressRepository)
		enr := new(MockEnrollmentRepository)

		courses.On("CountPublishedLessons", mock.Anything, "c").Return(int64(3), nil)
		prog.On("CountCompleted", mock.Anything, "u", "c").Return(int64(3), nil)
		prog.On("LatestLessonID", mock.Anything, "u", "c").Return("l3", nil)
		enr.On("ApplyRollup", ctx, "u", "c", mock.MatchedBy(func(v repository.RollupValues) bool {
			return v.AllCompleted && v.ProgressPercent == 100 && v.CompletedLessonsCount == 3
		})).Return(true, nil)

		require.NoError(t, newRollup(courses, prog, enr, cache.NewMemoryCache()).Recompute(ctx, "u", "c"))
		enr.AssertExpectations(t)
	})

	t.Run("Completed count above published total is capped", func(t *testing.T) {
		courses := new(MockCourseRepository)
		prog := new(MockProgressRepository)
		enr := new(MockEnrollmentRepository)

		courses.On("CountPublishedLessons", mock.Anything, "c").Return(int64(2), nil)
		prog.On("CountCompleted", mock.Anything, "u", "c").Return(int64(3), nil)
		prog.On("LatestLessonID", mock.Anything, "u", "c").Return("l3", nil)
		enr.On("ApplyRollup", ctx, "u", "c", mock.MatchedBy(func(v repository.RollupValues) bool {
			return v.AllCompleted && v.ProgressPercent == 100 && v.CompletedLessonsCount == 2
		})).Return(true, nil)

		require.NoError(t, newRollup(courses, prog, enr, cache.NewMemoryCache()).Recompute(ctx, "u", "c"))
		enr.AssertExpectations(t)
	})

	t.Run("Course without lessons never completes", func(t *testing.T) {
		courses := new(MockCourseRepository)
		prog := new(MockProgressRepository)
		enr := new(MockEnrollmentRepository)

		courses.On("CountPublishedLessons", mock.Anything, "c").Return(int64(0), nil)
		prog.On("CountCompleted", mock.Anything, "u", "c").Return(int64(0), nil)
		prog.On("LatestLessonID", mock.Anything, "u", "c").Return("", nil)
		enr.On("ApplyRollup", ctx, "u", "c", mock.MatchedBy(func(v repository.RollupValues) bool {
			return !v.AllCompleted && v.ProgressPercent == 0
		})).Return(false, nil)

		require.NoError(t, newRollup(courses, prog, enr, cache.NewMemoryCache()).Recompute(ctx, "u", "c"))
		enr.AssertExpectations(t)
	})

	t.Run("Count failure aborts", func(t *testing.T) {
		courses := new(MockCourseRepository)
		prog := new(MockProgressRepository)
		enr := new(MockEnrollmentRepository)

		courses.On("CountPublishedLessons", mock.Anything, "c").Return(int64(0), errors.New("timeout"))
		prog.On("CountCompleted", mock.Anything, "u", "c").Return(int64(1), nil)
		prog.On("LatestLessonID", mock.Anything, "u", "c").Return("l1", nil)

		err := newRollup(courses, prog, enr, cache.NewMemoryCache()).Recompute(ctx, "u", "c")

		assert.EqualError(t, err, "timeout")
		enr.AssertNotCalled(t, "ApplyRollup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
