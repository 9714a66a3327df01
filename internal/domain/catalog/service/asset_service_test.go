package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"course_commerce/internal/domain/catalog/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type memStore struct {
	objects map[string]string
	err     error
}

func (s *memStore) Put(ctx context.Context, key string, r io.Reader) error {
	if s.err != nil {
		return s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = string(data)
	return nil
}

func (s *memStore) SignURL(key string, expire time.Duration) (string, error) {
	return "https://oss.example/" + key, nil
}

func newAssetService(repo *MockCatalogRepository, store *memStore) AssetService {
	svc := NewAssetService(repo, store, zap.NewNop())
	svc.(*assetService).now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestAttachBookFile(t *testing.T) {
	repo := new(MockCatalogRepository)
	store := &memStore{objects: map[string]string{}}
	svc := newAssetService(repo, store)
	repo.On("GetBook", mock.Anything, "book-1").Return(&model.Book{Title: "Go"}, nil)
	repo.On("SetBookFile", mock.Anything, "book-1", mock.AnythingOfType("string")).Return(true, nil)

	key, err := svc.AttachBookFile(context.Background(), "book-1", "Go-Book.PDF", strings.NewReader("%PDF-1.7"))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "books/20240601/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.Equal(t, "%PDF-1.7", store.objects[key])
	repo.AssertCalled(t, "SetBookFile", mock.Anything, "book-1", key)
}

func TestAttachBookFile_Rejections(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		repo := new(MockCatalogRepository)
		svc := newAssetService(repo, &memStore{objects: map[string]string{}})

		_, err := svc.AttachBookFile(context.Background(), "book-1", "cover.png", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrUnsupportedFile)
		repo.AssertNotCalled(t, "GetBook", mock.Anything, mock.Anything)
	})

	t.Run("unknown book", func(t *testing.T) {
		repo := new(MockCatalogRepository)
		repo.On("GetBook", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)
		svc := newAssetService(repo, &memStore{objects: map[string]string{}})

		_, err := svc.AttachBookFile(context.Background(), "nope", "a.epub", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("storage failure leaves book untouched", func(t *testing.T) {
		repo := new(MockCatalogRepository)
		repo.On("GetBook", mock.Anything, "book-1").Return(&model.Book{}, nil)
		svc := newAssetService(repo, &memStore{objects: map[string]string{}, err: errors.New("oss 503")})

		_, err := svc.AttachBookFile(context.Background(), "book-1", "a.epub", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrStorageUnavailable)
		repo.AssertNotCalled(t, "SetBookFile", mock.Anything, mock.Anything, mock.Anything)
	})
}
