package loadtest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// RequestFunc 单次请求，i 为请求序号
type RequestFunc func(ctx context.Context, i int) error

// Burst 一次性并发压测：total 个请求，最多 concurrency 个同时在途
type Burst struct {
	name        string
	total       int
	concurrency int

	mu    sync.Mutex
	times []time.Duration
	fails int
	errs  map[string]int
}

// NewBurst 创建压测
func NewBurst(name string, total, concurrency int) *Burst {
	if concurrency <= 0 {
		concurrency = 1
	}
	if concurrency > total {
		concurrency = total
	}
	return &Burst{
		name:        name,
		total:       total,
		concurrency: concurrency,
		errs:        make(map[string]int),
	}
}

// Run 执行并汇总；单个请求失败不会中断其余请求
func (b *Burst) Run(ctx context.Context, fn RequestFunc) *Result {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	start := time.Now()
	for i := 0; i < b.total; i++ {
		i := i
		g.Go(func() error {
			t := time.Now()
			err := fn(gctx, i)
			b.record(time.Since(t), err)
			return nil
		})
	}
	_ = g.Wait()

	return b.result(time.Since(start))
}

func (b *Burst) record(d time.Duration, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.times = append(b.times, d)
	if err != nil {
		b.fails++
		b.errs[err.Error()]++
	}
}

func (b *Burst) result(elapsed time.Duration) *Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	sorted := make([]time.Duration, len(b.times))
	copy(sorted, b.times)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	r := &Result{
		TestName:        b.name,
		Concurrency:     b.concurrency,
		Elapsed:         elapsed,
		TotalRequests:   len(sorted),
		SuccessRequests: len(sorted) - b.fails,
		FailedRequests:  b.fails,
		Errors:          make(map[string]int, len(b.errs)),
	}
	for k, v := range b.errs {
		r.Errors[k] = v
	}
	if elapsed > 0 {
		r.QPS = float64(r.TotalRequests) / elapsed.Seconds()
	}
	if len(sorted) > 0 {
		var sum time.Duration
		for _, d := range sorted {
			sum += d
		}
		r.AverageResponseTime = sum / time.Duration(len(sorted))
		r.MinResponseTime = sorted[0]
		r.MaxResponseTime = sorted[len(sorted)-1]
		r.P50 = percentile(sorted, 0.5)
		r.P95 = percentile(sorted, 0.95)
		r.P99 = percentile(sorted, 0.99)
	}
	return r
}

// percentile 计算百分位数（times 已排序）
func percentile(times []time.Duration, p float64) time.Duration {
	if len(times) == 0 {
		return 0
	}
	index := int(float64(len(times)) * p)
	if index >= len(times) {
		index = len(times) - 1
	}
	return times[index]
}

// Result 压测结果
type Result struct {
	TestName            string         `json:"test_name"`
	Concurrency         int            `json:"concurrency"`
	Elapsed             time.Duration  `json:"elapsed"`
	TotalRequests       int            `json:"total_requests"`
	SuccessRequests     int            `json:"success_requests"`
	FailedRequests      int            `json:"failed_requests"`
	QPS                 float64        `json:"qps"`
	AverageResponseTime time.Duration  `json:"average_response_time"`
	MinResponseTime     time.Duration  `json:"min_response_time"`
	MaxResponseTime     time.Duration  `json:"max_response_time"`
	P50                 time.Duration  `json:"p50"`
	P95                 time.Duration  `json:"p95"`
	P99                 time.Duration  `json:"p99"`
	Errors              map[string]int `json:"errors,omitempty"`
}

// PrintResult 打印测试结果
func (r *Result) PrintResult() {
	fmt.Printf("📊 压测结果: %s\n", r.TestName)
	fmt.Printf("================================\n")
	fmt.Printf("并发数: %d\n", r.Concurrency)
	fmt.Printf("耗时: %v\n", r.Elapsed)
	fmt.Printf("总请求数: %d\n", r.TotalRequests)
	fmt.Printf("成功请求: %d\n", r.SuccessRequests)
	fmt.Printf("失败请求: %d\n", r.FailedRequests)
	fmt.Printf("QPS: %.2f\n", r.QPS)
	fmt.Printf("平均响应时间: %v\n", r.AverageResponseTime)
	fmt.Printf("P50: %v  P95: %v  P99: %v\n", r.P50, r.P95, r.P99)
	for msg, n := range r.Errors {
		fmt.Printf("  ❌ %s x%d\n", msg, n)
	}
	fmt.Printf("================================\n")
}
