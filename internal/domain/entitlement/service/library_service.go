package service

import (
	"context"
	"time"

	"course_commerce/internal/domain/entitlement/model"
	"course_commerce/internal/domain/entitlement/repository"
	"course_commerce/internal/pkg/apperr"
	"course_commerce/internal/pkg/uploader"
	"course_commerce/pkg/database"
	"course_commerce/pkg/response"
)

var (
	ErrNotEntitled        = apperr.Forbidden(response.ErrNotEntitled, "Bạn chưa sở hữu sản phẩm này")
	ErrFileUnavailable    = apperr.NotFound(response.ErrProductNotFound, "Tệp sách chưa sẵn sàng để tải xuống")
	ErrStorageUnavailable = apperr.New(apperr.KindExternal, response.ErrServerInternal, "Dịch vụ lưu trữ tạm thời không khả dụng")
)

// DownloadLink 限时下载链接
type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LibraryService 用户书架
type LibraryService interface {
	ListBooks(ctx context.Context, userID string) ([]model.OwnedBook, error)
	DownloadLink(ctx context.Context, userID, bookID string) (*DownloadLink, error)
}

type libraryService struct {
	repo   repository.AccessRepository
	store  uploader.FileStore
	expire time.Duration
	now    func() time.Time
}

// NewLibraryService store 可为 nil（未配置对象存储时下载返回 ErrStorageUnavailable）
func NewLibraryService(repo repository.AccessRepository, store uploader.FileStore, expire time.Duration) LibraryService {
	if expire <= 0 {
		expire = 15 * time.Minute
	}
	return &libraryService{repo: repo, store: store, expire: expire, now: time.Now}
}

func (s *libraryService) ListBooks(ctx context.Context, userID string) ([]model.OwnedBook, error) {
	books, err := s.repo.ListActiveBooks(ctx, userID)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []model.OwnedBook{}
	}
	return books, nil
}

func (s *libraryService) DownloadLink(ctx context.Context, userID, bookID string) (*DownloadLink, error) {
	owned, err := s.repo.HasActiveBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrNotEntitled
	}

	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrFileUnavailable
		}
		return nil, err
	}
	if book.FileKey == "" {
		return nil, ErrFileUnavailable
	}
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}

	url, err := s.store.SignURL(book.FileKey, s.expire)
	if err != nil {
		return nil, ErrStorageUnavailable.Wrap(err)
	}
	return &DownloadLink{URL: url, ExpiresAt: s.now().Add(s.expire)}, nil
}
