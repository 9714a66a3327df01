package testutil

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MockDB 基于 sqlmock 的 gorm 连接，用于校验原子 SQL 的形状
// 关闭默认事务，Exec 期望与单条语句一一对应
func MockDB(tb testing.TB) (*gorm.DB, sqlmock.Sqlmock) {
	tb.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		tb.Fatalf("sqlmock: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		tb.Fatalf("gorm open: %v", err)
	}
	return db, mock
}
