package service

import (
	"context"

	"course_commerce/internal/domain/learning/model"
	"course_commerce/internal/domain/learning/progress"
	"course_commerce/internal/domain/learning/repository"
	"course_commerce/internal/domain/learning/unlock"
	"course_commerce/pkg/database"
)

// LessonView 课程大纲中的一课
type LessonView struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Order           int             `json:"order"`
	Duration        float64         `json:"duration"`
	Status          progress.Status `json:"status"`
	ProgressPercent float64         `json:"progressPercent"`
	Locked          bool            `json:"locked"`
}

// CourseOutline 课程大纲与续播位置
type CourseOutline struct {
	CourseID       string                  `json:"courseId"`
	Lessons        []LessonView            `json:"lessons"`
	ResumeLessonID string                  `json:"resumeLessonId,omitempty"`
	Enrollment     *model.CourseEnrollment `json:"enrollment"`
}

// CourseService 学员视角的课程访问
type CourseService interface {
	Outline(ctx context.Context, userID, courseID string) (*CourseOutline, error)
	// StartLesson 校验报名与解锁，创建进度行并标记开始
	StartLesson(ctx context.Context, userID, lessonID string) (*model.LessonProgress, error)
	GetEnrollment(ctx context.Context, userID, courseID string) (*model.CourseEnrollment, error)
}

type courseService struct {
	courses     repository.CourseRepository
	progress    repository.ProgressRepository
	enrollments repository.EnrollmentRepository
	tracker     ProgressService
}

func NewCourseService(courses repository.CourseRepository, progressRepo repository.ProgressRepository,
	enrollments repository.EnrollmentRepository, tracker ProgressService) CourseService {
	return &courseService{
		courses:     courses,
		progress:    progressRepo,
		enrollments: enrollments,
		tracker:     tracker,
	}
}

func (s *courseService) GetEnrollment(ctx context.Context, userID, courseID string) (*model.CourseEnrollment, error) {
	e, err := s.enrollments.GetActive(ctx, userID, courseID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}
	if !e.CanLearn() {
		return nil, ErrNotEnrolled
	}
	return e, nil
}

func (s *courseService) Outline(ctx context.Context, userID, courseID string) (*CourseOutline, error) {
	enrollment, err := s.GetEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	lessons, rows, err := s.load(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	resolved := unlock.Resolve(toUnlockLessons(lessons), statusMap(rows))

	byID := make(map[string]model.Lesson, len(lessons))
	for _, l := range lessons {
		byID[l.ID] = l
	}
	percent := make(map[string]float64, len(rows))
	for _, r := range rows {
		percent[r.LessonID] = r.ProgressPercent
	}

	out := &CourseOutline{
		CourseID:       courseID,
		Lessons:        make([]LessonView, 0, len(resolved.Lessons)),
		ResumeLessonID: resolved.ResumeLesson,
		Enrollment:     enrollment,
	}
	for _, st := range resolved.Lessons {
		l := byID[st.LessonID]
		out.Lessons = append(out.Lessons, LessonView{
			ID:              l.ID,
			Title:           l.Title,
			Order:           l.Order,
			Duration:        l.Duration,
			Status:          st.Status,
			ProgressPercent: percent[l.ID],
			Locked:          st.Locked,
		})
	}
	return out, nil
}

func (s *courseService) StartLesson(ctx context.Context, userID, lessonID string) (*model.LessonProgress, error) {
	// 1. 课时与报名
	lesson, err := s.courses.GetLesson(ctx, lessonID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	if _, err := s.GetEnrollment(ctx, userID, lesson.CourseID); err != nil {
		return nil, err
	}

	// 2. 顺序解锁校验
	lessons, rows, err := s.load(ctx, userID, lesson.CourseID)
	if err != nil {
		return nil, err
	}
	locked, found := unlock.Resolve(toUnlockLessons(lessons), statusMap(rows)).IsLocked(lessonID)
	if !found {
		return nil, ErrLessonNotFound
	}
	if locked {
		return nil, ErrLessonLocked
	}

	// 3. 创建进度并标记开始
	p, err := s.tracker.GetOrCreate(ctx, userID, lesson.CourseID, lessonID)
	if err != nil {
		return nil, err
	}
	changed, err := s.tracker.MarkStarted(ctx, userID, lesson.CourseID, lessonID)
	if err != nil {
		return nil, err
	}
	if changed {
		return s.progress.Get(ctx, userID, lesson.CourseID, lessonID)
	}
	return p, nil
}

func (s *courseService) load(ctx context.Context, userID, courseID string) ([]model.Lesson, []model.LessonProgress, error) {
	lessons, err := s.courses.ListPublishedLessons(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.progress.ListByUserCourse(ctx, userID, courseID)
	if err != nil {
		return nil, nil, err
	}
	return lessons, rows, nil
}

func toUnlockLessons(lessons []model.Lesson) []unlock.Lesson {
	out := make([]unlock.Lesson, len(lessons))
	for i, l := range lessons {
		out[i] = unlock.Lesson{ID: l.ID, Order: l.Order, CreatedAt: l.CreatedAt}
	}
	return out
}

func statusMap(rows []model.LessonProgress) map[string]progress.Status {
	m := make(map[string]progress.Status, len(rows))
	for _, r := range rows {
		m[r.LessonID] = r.Status
	}
	return m
}
