package service

import (
	"context"
	"testing"

	"course_commerce/internal/domain/learning/repository"
	"course_commerce/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCourseSummaryCaching(t *testing.T) {
	ctx := context.Background()
	enr := new(MockEnrollmentRepository)
	c := cache.NewMemoryCache()
	stats := &repository.CourseStats{Enrolled: 4, Completed: 1, AverageProgress: 52.5, Revenue: 1200000}
	enr.On("CourseStats", ctx, "c").Return(stats, nil).Once()

	svc := NewAnalyticsService(enr, c, nil, zap.NewNop())

	first, err := svc.CourseSummary(ctx, "c")
	require.NoError(t, err)
	second, err := svc.CourseSummary(ctx, "c")
	require.NoError(t, err)

	assert.Equal(t, *stats, *first)
	assert.Equal(t, *stats, *second)
	enr.AssertNumberOfCalls(t, "CourseStats", 1)

	require.NoError(t, svc.Invalidate(ctx))
	assert.Zero(t, c.Len())
}
