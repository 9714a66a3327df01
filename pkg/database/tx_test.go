package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(fmt.Errorf("create order: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicateKey(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsDuplicateKey(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsDuplicateKey(errors.New("timeout")))
	assert.False(t, IsDuplicateKey(nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsNotFound(gorm.ErrDuplicatedKey))
}
