package unlock

import (
	"sort"
	"time"

	"course_commerce/internal/domain/learning/progress"
)

// Lesson 参与排序的课时
type Lesson struct {
	ID        string
	Order     int
	CreatedAt time.Time
}

// LessonState 课时解锁结果
type LessonState struct {
	LessonID    string
	Status      progress.Status // 无进度记录时为 NOT_STARTED
	HasProgress bool
	Locked      bool
}

// Result 按展示顺序排列的课时状态与续播课时
type Result struct {
	Lessons      []LessonState
	ResumeLesson string // 课时列表为空时为空串
}

// Resolve 顺序解锁：第一课始终可学；之后每一课仅在前一课 COMPLETED 时解锁
// 续播：第一个已解锁的 IN_PROGRESS，其次第一个已解锁的 NOT_STARTED，全部完成则回到第一课
func Resolve(lessons []Lesson, statuses map[string]progress.Status) Result {
	ordered := make([]Lesson, len(lessons))
	copy(ordered, lessons)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Order != ordered[j].Order {
			return ordered[i].Order < ordered[j].Order
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	res := Result{Lessons: make([]LessonState, len(ordered))}
	for i, l := range ordered {
		st, ok := statuses[l.ID]
		if !ok {
			st = progress.StatusNotStarted
		}
		locked := false
		if i > 0 {
			prev := res.Lessons[i-1]
			locked = !prev.HasProgress || prev.Status != progress.StatusCompleted
		}
		res.Lessons[i] = LessonState{LessonID: l.ID, Status: st, HasProgress: ok, Locked: locked}
	}

	res.ResumeLesson = resumeTarget(res.Lessons)
	return res
}

// IsLocked 单课时查询
func (r Result) IsLocked(lessonID string) (locked bool, found bool) {
	for _, l := range r.Lessons {
		if l.LessonID == lessonID {
			return l.Locked, true
		}
	}
	return false, false
}

func resumeTarget(lessons []LessonState) string {
	if len(lessons) == 0 {
		return ""
	}
	for _, l := range lessons {
		if !l.Locked && l.Status == progress.StatusInProgress {
			return l.LessonID
		}
	}
	for _, l := range lessons {
		if !l.Locked && l.Status == progress.StatusNotStarted {
			return l.LessonID
		}
	}
	return lessons[0].LessonID
}
