package repository

import (
	"context"
	"testing"

	"course_commerce/pkg/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementUsageIsAtomic(t *testing.T) {
	db, mock := testutil.MockDB(t)
	repo := NewCouponRepository(db)

	mock.ExpectExec(`UPDATE "coupons" SET "usage_count"=usage_count \+ 1 WHERE code = \$1 AND \(usage_limit = 0 OR usage_count < usage_limit\)`).
		WithArgs("SALE10").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.IncrementUsage(context.Background(), nil, " sale10 ")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementUsageAtLimit(t *testing.T) {
	db, mock := testutil.MockDB(t)
	repo := NewCouponRepository(db)

	mock.ExpectExec(`UPDATE "coupons" SET "usage_count"=usage_count \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.IncrementUsage(context.Background(), nil, "SALE10")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
