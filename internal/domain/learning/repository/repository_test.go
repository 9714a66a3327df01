package repository

import (
	"context"
	"testing"
	"time"

	"course_commerce/pkg/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkStartedIsConditional(t *testing.T) {
	db, mock := testutil.MockDB(t)
	repo := NewProgressRepository(db)
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE "lesson_progresses" SET .*COALESCE\(started_at, .*WHERE .*user_id = .* AND status = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "lesson_progresses" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.MarkStarted(context.Background(), "u", "c", "l", now)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkStarted(context.Background(), "u", "c", "l", now)
	require.NoError(t, err)
	assert.False(t, changed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyRollupCompletesOnlyActive(t *testing.T) {
	db, mock := testutil.MockDB(t)
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(`UPDATE "course_enrollments" SET .*CASE WHEN status = .* THEN .* ELSE status END`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.ApplyRollup(context.Background(), "u", "c", RollupValues{
		ProgressPercent:       100,
		CompletedLessonsCount: 3,
		CurrentLessonID:       "l3",
		AllCompleted:          true,
		At:                    time.Now(),
	})

	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyRollupWithoutEnrollment(t *testing.T) {
	db, mock := testutil.MockDB(t)
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(`UPDATE "course_enrollments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.ApplyRollup(context.Background(), "u", "c", RollupValues{ProgressPercent: 50, At: time.Now()})

	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindForUpdateLocksRow(t *testing.T) {
	db, mock := testutil.MockDB(t)
	repo := NewProgressRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "course_id", "lesson_id", "status"}).
		AddRow("p1", "u", "c", "l", "IN_PROGRESS")
	mock.ExpectQuery(`SELECT \* FROM "lesson_progresses" WHERE user_id = \$1 AND lesson_id = \$2 .*FOR UPDATE`).
		WillReturnRows(rows)

	p, err := repo.FindForUpdate(context.Background(), nil, "u", "l")

	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountCompletedOnlyPublishedLessons(t *testing.T) {
	db, mock := testutil.MockDB(t)
	repo := NewProgressRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "lesson_progresses" JOIN lessons ON lessons.id = lesson_progresses.lesson_id WHERE .*lesson_progresses.status = \$3 AND lessons.status = \$4`).
		WithArgs("u", "c", "COMPLETED", "published").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountCompleted(context.Background(), "u", "c")

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
