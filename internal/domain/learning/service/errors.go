package service

import (
	"course_commerce/internal/pkg/apperr"
	"course_commerce/pkg/response"
)

var (
	ErrLessonNotFound = apperr.NotFound(response.ErrLessonNotFound, "Bài học không tồn tại")
	ErrLessonLocked   = apperr.Forbidden(response.ErrLessonLocked, "Bài học chưa được mở khóa")
	ErrNotEnrolled    = apperr.Forbidden(response.ErrNotEnrolled, "Bạn chưa đăng ký khóa học này")
	ErrNoProgress     = apperr.NotFound(response.ErrProgressNotFound, "Chưa có tiến độ cho bài học này")
)
