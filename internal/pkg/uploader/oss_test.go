package uploader

import (
	"strings"
	"testing"
	"time"

	"course_commerce/internal/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	now := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	key := ObjectKey("books/abc", "Trading Plan.PDF", now)

	assert.True(t, strings.HasPrefix(key, "books/abc/20240309/"))
	assert.True(t, strings.HasSuffix(key, ".PDF"))
	assert.NotEqual(t, key, ObjectKey("books/abc", "Trading Plan.PDF", now))
}

func TestNewAliyunOSSStoreRequiresConfig(t *testing.T) {
	_, err := NewAliyunOSSStore(config.OSSConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
