package progress

import (
	"math"
	"sort"
)

// Segment 已观看的视频区间 [Start, End)，单位秒
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Valid 起点非负且终点严格大于起点
func (s Segment) Valid() bool {
	return s.Start >= 0 && s.End > s.Start && !math.IsInf(s.End, 1)
}

// MergeSegments 合并区间，返回按 Start 升序且两两不相交的最小列表
// 首尾相接（current.End == next.Start）视为连续；非法区间直接丢弃
func MergeSegments(segs []Segment) []Segment {
	sorted := make([]Segment, 0, len(segs))
	for _, seg := range segs {
		if seg.Valid() {
			sorted = append(sorted, seg)
		}
	}
	if len(sorted) == 0 {
		return []Segment{}
	}

	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := make([]Segment, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if current.End >= next.Start {
			if next.End > current.End {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// TotalWatched 合并后的总观看时长
func TotalWatched(segs []Segment) float64 {
	var total float64
	for _, s := range MergeSegments(segs) {
		total += s.End - s.Start
	}
	return total
}
