package repository

import (
	"context"
	"time"

	catalogModel "course_commerce/internal/domain/catalog/model"
	"course_commerce/internal/domain/entitlement/model"
	learningModel "course_commerce/internal/domain/learning/model"
	"course_commerce/pkg/database"
	base "course_commerce/pkg/model"

	"gorm.io/gorm"
)

// AccessRepository 书籍访问权与课程报名的发放侧读写；tx 为 nil 时使用默认连接
type AccessRepository interface {
	// FindBookAccess 不区分 Lifecycle
	FindBookAccess(ctx context.Context, tx *gorm.DB, userID, bookID string) (*model.UserBookAccess, error)
	CreateBookAccess(ctx context.Context, tx *gorm.DB, a *model.UserBookAccess) error
	RestoreBookAccess(ctx context.Context, tx *gorm.DB, id string, orderID string, at time.Time) error
	HasActiveBook(ctx context.Context, userID, bookID string) (bool, error)
	ListActiveBooks(ctx context.Context, userID string) ([]model.OwnedBook, error)
	GetBook(ctx context.Context, bookID string) (*catalogModel.Book, error)

	// FindEnrollment 不区分 Lifecycle
	FindEnrollment(ctx context.Context, tx *gorm.DB, userID, courseID string) (*learningModel.CourseEnrollment, error)
	CreateEnrollment(ctx context.Context, tx *gorm.DB, e *learningModel.CourseEnrollment) error
	RestoreEnrollment(ctx context.Context, tx *gorm.DB, id string, orderID string, at time.Time) error
	HasActiveEnrollment(ctx context.Context, userID, courseID string) (bool, error)
}

type accessRepository struct {
	db *gorm.DB
}

func NewAccessRepository(db *gorm.DB) AccessRepository {
	return &accessRepository{db: db}
}

func (r *accessRepository) FindBookAccess(ctx context.Context, tx *gorm.DB, userID, bookID string) (*model.UserBookAccess, error) {
	var a model.UserBookAccess
	err := database.Conn(ctx, r.db, tx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accessRepository) CreateBookAccess(ctx context.Context, tx *gorm.DB, a *model.UserBookAccess) error {
	return database.Conn(ctx, r.db, tx).Create(a).Error
}

func (r *accessRepository) RestoreBookAccess(ctx context.Context, tx *gorm.DB, id string, orderID string, at time.Time) error {
	return database.Conn(ctx, r.db, tx).Model(&model.UserBookAccess{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"lifecycle":  base.LifecycleActive,
			"order_id":   orderID,
			"granted_at": at,
			"updated_at": at,
		}).Error
}

func (r *accessRepository) HasActiveBook(ctx context.Context, userID, bookID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.UserBookAccess{}).
		Where("user_id = ? AND book_id = ? AND lifecycle = ?", userID, bookID, base.LifecycleActive).
		Count(&n).Error
	return n > 0, err
}

func (r *accessRepository) ListActiveBooks(ctx context.Context, userID string) ([]model.OwnedBook, error) {
	var books []model.OwnedBook
	err := r.db.WithContext(ctx).Table("user_book_accesses AS a").
		Select("b.id AS book_id, b.title, b.author, b.cover_url, a.granted_at").
		Joins("JOIN books b ON b.id = a.book_id").
		Where("a.user_id = ? AND a.lifecycle = ?", userID, base.LifecycleActive).
		Order("a.granted_at DESC").
		Scan(&books).Error
	return books, err
}

func (r *accessRepository) GetBook(ctx context.Context, bookID string) (*catalogModel.Book, error) {
	var b catalogModel.Book
	if err := r.db.WithContext(ctx).Where("id = ?", bookID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *accessRepository) FindEnrollment(ctx context.Context, tx *gorm.DB, userID, courseID string) (*learningModel.CourseEnrollment, error) {
	var e learningModel.CourseEnrollment
	err := database.Conn(ctx, r.db, tx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *accessRepository) CreateEnrollment(ctx context.Context, tx *gorm.DB, e *learningModel.CourseEnrollment) error {
	return database.Conn(ctx, r.db, tx).Create(e).Error
}

// RestoreEnrollment 恢复已删除的报名，保留历史进度
func (r *accessRepository) RestoreEnrollment(ctx context.Context, tx *gorm.DB, id string, orderID string, at time.Time) error {
	return database.Conn(ctx, r.db, tx).Model(&learningModel.CourseEnrollment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"lifecycle":   base.LifecycleActive,
			"status":      learningModel.EnrollmentActive,
			"order_id":    orderID,
			"enrolled_at": at,
			"updated_at":  at,
		}).Error
}

func (r *accessRepository) HasActiveEnrollment(ctx context.Context, userID, courseID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&learningModel.CourseEnrollment{}).
		Where("user_id = ? AND course_id = ? AND lifecycle = ?", userID, courseID, base.LifecycleActive).
		Count(&n).Error
	return n > 0, err
}
