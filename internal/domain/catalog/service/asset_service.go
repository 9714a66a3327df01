package service

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"course_commerce/internal/domain/catalog/repository"
	"course_commerce/internal/pkg/apperr"
	"course_commerce/internal/pkg/uploader"
	"course_commerce/pkg/database"
	"course_commerce/pkg/response"

	"go.uber.org/zap"
)

var (
	ErrUnsupportedFile    = apperr.Validation(response.ErrInvalidParam, "Chỉ hỗ trợ tệp PDF hoặc EPUB")
	ErrStorageUnavailable = apperr.New(apperr.KindExternal, response.ErrServerInternal, "Không thể lưu tệp, vui lòng thử lại")
)

var bookFileExts = map[string]bool{".pdf": true, ".epub": true}

// AssetService 管理员上传电子书文件
type AssetService interface {
	// AttachBookFile 上传到私有桶并绑定到书籍，返回 object key
	AttachBookFile(ctx context.Context, bookID, filename string, r io.Reader) (string, error)
}

type assetService struct {
	repo   repository.CatalogRepository
	store  uploader.FileStore
	logger *zap.Logger
	now    func() time.Time
}

func NewAssetService(repo repository.CatalogRepository, store uploader.FileStore, logger *zap.Logger) AssetService {
	return &assetService{repo: repo, store: store, logger: logger, now: time.Now}
}

func (s *assetService) AttachBookFile(ctx context.Context, bookID, filename string, r io.Reader) (string, error) {
	if !bookFileExts[strings.ToLower(path.Ext(filename))] {
		return "", ErrUnsupportedFile
	}
	if _, err := s.repo.GetBook(ctx, bookID); err != nil {
		if database.IsNotFound(err) {
			return "", ErrProductNotFound
		}
		return "", err
	}

	key := uploader.ObjectKey("books", strings.ToLower(filename), s.now())
	if err := s.store.Put(ctx, key, r); err != nil {
		s.logger.Error("upload book file failed", zap.String("book_id", bookID), zap.Error(err))
		return "", ErrStorageUnavailable.Wrap(err)
	}

	ok, err := s.repo.SetBookFile(ctx, bookID, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrProductNotFound
	}
	s.logger.Info("book file attached", zap.String("book_id", bookID), zap.String("key", key))
	return key, nil
}
