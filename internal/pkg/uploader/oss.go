package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"course_commerce/internal/pkg/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// ErrNotConfigured 未配置对象存储
var ErrNotConfigured = errors.New("object storage is not configured")

// FileStore 私有桶读写：上传返回 object key，下载只发放限时签名链接
type FileStore interface {
	Put(ctx context.Context, key string, r io.Reader) error
	SignURL(key string, expire time.Duration) (string, error)
}

type AliyunOSSStore struct {
	bucket *oss.Bucket
}

// NewAliyunOSSStore 未配置 endpoint 或 bucket 时返回 ErrNotConfigured
func NewAliyunOSSStore(cfg config.OSSConfig) (*AliyunOSSStore, error) {
	if cfg.Endpoint == "" || cfg.BucketName == "" {
		return nil, ErrNotConfigured
	}
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, err
	}
	return &AliyunOSSStore{bucket: bucket}, nil
}

func (s *AliyunOSSStore) Put(ctx context.Context, key string, r io.Reader) error {
	return s.bucket.PutObject(key, r, oss.WithContext(ctx))
}

func (s *AliyunOSSStore) SignURL(key string, expire time.Duration) (string, error) {
	return s.bucket.SignURL(key, oss.HTTPGet, int64(expire.Seconds()))
}

// ObjectKey 生成 prefix/YYYYMMDD/uuid.ext 形式的对象键
func ObjectKey(prefix, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%s/%s%s", prefix, now.Format("20060102"), uuid.New().String(), path.Ext(filename))
}
