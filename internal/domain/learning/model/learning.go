package model

import (
	"time"

	"course_commerce/internal/domain/learning/progress"
	"course_commerce/pkg/model"

	"gorm.io/datatypes"
)

// 课程/课时发布状态
const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"

	LessonStatusDraft     = "draft"
	LessonStatusPublished = "published"
)

// Course 课程
type Course struct {
	model.BaseModel
	Title          string          `gorm:"type:varchar(255);not null" json:"title"`
	Slug           string          `gorm:"type:varchar(255);uniqueIndex" json:"slug"`
	Description    string          `gorm:"type:text" json:"description"`
	Price          int64           `gorm:"not null" json:"price"`
	DiscountAmount int64           `gorm:"not null;default:0" json:"discountAmount"`
	Status         string          `gorm:"type:varchar(16);not null;default:'draft'" json:"status"`
	Lifecycle      model.Lifecycle `gorm:"type:varchar(16);not null;default:'active'" json:"-"`
}

func (Course) TableName() string { return "courses" }

// Lesson 课时，按 Order 排序，相同时按创建时间
type Lesson struct {
	model.BaseModel
	CourseID string  `gorm:"type:uuid;not null;index:idx_lessons_course_order,priority:1" json:"courseId"`
	Title    string  `gorm:"type:varchar(255);not null" json:"title"`
	Order    int     `gorm:"column:sort_order;not null;index:idx_lessons_course_order,priority:2" json:"order"`
	VideoURL string  `gorm:"type:varchar(512)" json:"videoUrl"`
	Duration float64 `gorm:"not null;default:0" json:"duration"` // 秒
	Status   string  `gorm:"type:varchar(16);not null;default:'published'" json:"status"`
}

func (Lesson) TableName() string { return "lessons" }

// LessonProgress 用户课时进度，(user_id, course_id, lesson_id) 唯一
type LessonProgress struct {
	model.BaseModel
	UserID          string                                `gorm:"type:uuid;not null;uniqueIndex:uq_lesson_progress,priority:1" json:"userId"`
	CourseID        string                                `gorm:"type:uuid;not null;uniqueIndex:uq_lesson_progress,priority:2" json:"courseId"`
	LessonID        string                                `gorm:"type:uuid;not null;uniqueIndex:uq_lesson_progress,priority:3" json:"lessonId"`
	Status          progress.Status                       `gorm:"type:varchar(16);not null;default:'NOT_STARTED'" json:"status"`
	WatchTime       float64                               `gorm:"not null;default:0" json:"watchTime"`
	LastPosition    float64                               `gorm:"not null;default:0" json:"lastPosition"`
	Duration        float64                               `gorm:"not null;default:0" json:"duration"`
	ProgressPercent float64                               `gorm:"not null;default:0" json:"progressPercent"`
	WatchedSegments datatypes.JSONSlice[progress.Segment] `gorm:"type:jsonb;not null;default:'[]'" json:"watchedSegments"`
	StartedAt       *time.Time                            `json:"startedAt,omitempty"`
	CompletedAt     *time.Time                            `json:"completedAt,omitempty"`
	Lifecycle       model.Lifecycle                       `gorm:"type:varchar(16);not null;default:'active'" json:"-"`
}

func (LessonProgress) TableName() string { return "lesson_progresses" }

// State 转为计算用的进度状态
func (p *LessonProgress) State() progress.State {
	return progress.State{
		Status:          p.Status,
		Segments:        []progress.Segment(p.WatchedSegments),
		WatchTime:       p.WatchTime,
		Duration:        p.Duration,
		ProgressPercent: p.ProgressPercent,
		StartedAt:       p.StartedAt,
		CompletedAt:     p.CompletedAt,
	}
}

// SetState 回写计算结果
func (p *LessonProgress) SetState(s progress.State) {
	p.Status = s.Status
	p.WatchedSegments = datatypes.JSONSlice[progress.Segment](s.Segments)
	p.WatchTime = s.WatchTime
	p.Duration = s.Duration
	p.ProgressPercent = s.ProgressPercent
	p.StartedAt = s.StartedAt
	p.CompletedAt = s.CompletedAt
}

// 报名状态
const (
	EnrollmentActive    = "active"
	EnrollmentSuspended = "suspended"
	EnrollmentCompleted = "completed"
)

// CourseEnrollment 课程报名，(user_id, course_id) 唯一
// 删除只改 Lifecycle，重新购买时恢复同一行
type CourseEnrollment struct {
	model.BaseModel
	UserID                string          `gorm:"type:uuid;not null;uniqueIndex:uq_course_enrollment,priority:1" json:"userId"`
	CourseID              string          `gorm:"type:uuid;not null;uniqueIndex:uq_course_enrollment,priority:2" json:"courseId"`
	OrderID               *string         `gorm:"type:uuid" json:"orderId,omitempty"`
	Status                string          `gorm:"type:varchar(16);not null;default:'active'" json:"status"`
	ProgressPercent       float64         `gorm:"not null;default:0" json:"progressPercent"`
	CompletedLessonsCount int             `gorm:"not null;default:0" json:"completedLessonsCount"`
	CurrentLessonID       *string         `gorm:"type:uuid" json:"currentLessonId,omitempty"`
	EnrolledAt            time.Time       `json:"enrolledAt"`
	LastActivityAt        *time.Time      `json:"lastActivityAt,omitempty"`
	Lifecycle             model.Lifecycle `gorm:"type:varchar(16);not null;default:'active'" json:"-"`
}

func (CourseEnrollment) TableName() string { return "course_enrollments" }

// CanLearn 报名有效（未暂停、未删除）
func (e *CourseEnrollment) CanLearn() bool {
	return e.Lifecycle == model.LifecycleActive && e.Status != EnrollmentSuspended
}
