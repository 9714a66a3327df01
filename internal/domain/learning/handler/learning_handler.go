package handler

import (
	"course_commerce/internal/domain/learning/service"
	"course_commerce/internal/pkg/middleware"
	"course_commerce/pkg/response"

	"github.com/gin-gonic/gin"
)

type LearningHandler struct {
	courses   service.CourseService
	progress  service.ProgressService
	analytics service.AnalyticsService
}

func NewLearningHandler(courses service.CourseService, progress service.ProgressService, analytics service.AnalyticsService) *LearningHandler {
	return &LearningHandler{courses: courses, progress: progress, analytics: analytics}
}

// Outline 课程大纲（解锁状态 + 续播课时）
// @Tags learning
// @Security Bearer
// @Router /api/v1/learning/courses/{id}/lessons [get]
func (h *LearningHandler) Outline(c *gin.Context) {
	out, err := h.courses.Outline(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, out)
}

// Enrollment 当前用户的报名进度
// @Tags learning
// @Security Bearer
// @Router /api/v1/learning/courses/{id}/enrollment [get]
func (h *LearningHandler) Enrollment(c *gin.Context) {
	e, err := h.courses.GetEnrollment(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, e)
}

// StartLesson 打开课时
// @Tags learning
// @Security Bearer
// @Router /api/v1/learning/lessons/{id}/start [post]
func (h *LearningHandler) StartLesson(c *gin.Context) {
	p, err := h.courses.StartLesson(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, p)
}

// UpdateProgress 上报播放进度；尚未打开过的课时返回 404
// @Tags learning
// @Security Bearer
// @Router /api/v1/learning/lessons/{id}/progress [put]
func (h *LearningHandler) UpdateProgress(c *gin.Context) {
	var in service.UpdateProgressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, response.ErrInvalidParam, err.Error())
		return
	}
	if in.Status != nil && !in.Status.Valid() {
		response.Fail(c, response.ErrInvalidParam, "invalid status")
		return
	}

	p, err := h.progress.UpdateProgress(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if p == nil {
		response.FromError(c, service.ErrNoProgress)
		return
	}
	response.Success(c, p)
}

// CourseAnalytics 管理端课程统计
// @Tags admin
// @Security Bearer
// @Router /api/v1/admin/analytics/courses/{id} [get]
func (h *LearningHandler) CourseAnalytics(c *gin.Context) {
	stats, err := h.analytics.CourseSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, stats)
}
