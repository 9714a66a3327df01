package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// TxManager 事务边界。仓储方法接收 tx，tx 为 nil 时使用默认连接
type TxManager interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}

// Conn 选择执行连接：事务优先
func Conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// Savepoint 在外层事务中以 savepoint 执行 fn，fn 失败只回滚到 savepoint，外层事务仍可继续
// tx 为 nil 时直接执行
func Savepoint(tx *gorm.DB, fn func(sp *gorm.DB) error) error {
	if tx == nil {
		return fn(nil)
	}
	return tx.Transaction(fn)
}

const pgUniqueViolation = "23505"

// IsDuplicateKey 唯一约束冲突（TranslateError 未开启时回退到 pg 错误码）
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsNotFound 记录不存在
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
