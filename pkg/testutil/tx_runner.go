package testutil

import (
	"context"
	"sync"

	"course_commerce/pkg/database"

	"gorm.io/gorm"
)

// InjectedTx 服务层测试用的事务管理器：fn 收到 nil tx（仓储回退到 mock），
// 可注入提交失败，并记录提交/回滚次数
type InjectedTx struct {
	mu sync.Mutex

	FailCommit error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ database.TxManager = (*InjectedTx)(nil)

func (r *InjectedTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failCommit := r.FailCommit
	r.mu.Unlock()

	if err := fn(nil); err != nil {
		r.mu.Lock()
		r.RollbackCalls++
		r.mu.Unlock()
		return err
	}
	if failCommit != nil {
		r.mu.Lock()
		r.RollbackCalls++
		r.mu.Unlock()
		return failCommit
	}
	r.mu.Lock()
	r.CommitCalls++
	r.mu.Unlock()
	return nil
}

func (r *InjectedTx) Commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.CommitCalls
}

func (r *InjectedTx) Rollbacks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.RollbackCalls
}
