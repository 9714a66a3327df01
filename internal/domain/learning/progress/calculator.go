package progress

import (
	"math"
	"time"
)

// Status 课时学习状态
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// DefaultCompletionThreshold 观看百分比达到该值即视为完成
const DefaultCompletionThreshold = 70.0

// State 一条课时进度的可计算部分
type State struct {
	Status          Status
	Segments        []Segment
	WatchTime       float64
	Duration        float64
	ProgressPercent float64
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

// Update 客户端上报的一次进度变更，nil 表示未提供
type Update struct {
	Segments []Segment
	// WatchTime 仅在从未上报过区间时使用；有区间时观看时长只由区间推导
	WatchTime *float64
	Duration  *float64
	Completed *bool
	Status    *Status
}

// Apply 计算新的进度状态
//   - 观看时长 = 旧区间与新区间合并后的总长，非法区间（负起点、终点不大于起点）被丢弃
//   - duration > 0 时 percent = min(100, watched/duration*100)，否则 percent 不变
//   - percent >= threshold 自动完成；已完成不会因观看时长变化而回退
//   - 手动状态优先，但 COMPLETED 之后只接受 COMPLETED，不会被改回
//   - completed_at/started_at 只写一次，永不清空
func Apply(prev State, upd Update, threshold float64, now time.Time) State {
	next := prev
	if threshold <= 0 {
		threshold = DefaultCompletionThreshold
	}

	if upd.Duration != nil && *upd.Duration > 0 {
		next.Duration = *upd.Duration
	}

	all := make([]Segment, 0, len(prev.Segments)+len(upd.Segments))
	all = append(all, prev.Segments...)
	all = append(all, upd.Segments...)
	next.Segments = MergeSegments(all)

	switch {
	case len(next.Segments) > 0:
		next.WatchTime = TotalWatched(next.Segments)
	case upd.WatchTime != nil && *upd.WatchTime >= 0:
		next.WatchTime = *upd.WatchTime
	}

	if next.Duration > 0 {
		next.ProgressPercent = math.Max(0, math.Min(100, next.WatchTime*100/next.Duration))
	}

	switch {
	case upd.Status != nil && upd.Status.Valid() && (next.Status != StatusCompleted || *upd.Status == StatusCompleted):
		next.Status = *upd.Status
	case upd.Completed != nil && *upd.Completed:
		next.Status = StatusCompleted
	case next.Status != StatusCompleted && next.ProgressPercent >= threshold:
		next.Status = StatusCompleted
	case next.Status == StatusNotStarted && next.WatchTime > 0:
		next.Status = StatusInProgress
	case next.Status == "":
		next.Status = StatusNotStarted
	}

	if next.Status != StatusNotStarted && next.StartedAt == nil {
		next.StartedAt = stamp(now)
	}
	if next.Status == StatusCompleted && next.CompletedAt == nil {
		next.CompletedAt = stamp(now)
	}
	return next
}

func stamp(t time.Time) *time.Time {
	return &t
}
