package repository

import (
	"context"
	"time"

	"course_commerce/internal/domain/user/model"
	"course_commerce/pkg/database"

	"gorm.io/gorm"
)

// UserRepository 接口定义；tx 为 nil 时使用默认连接
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, mustChange bool) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
}

// userRepository 实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建新的仓库实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户；邮箱唯一索引冲突原样返回，由调用方判断
func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *model.User) error {
	return database.Conn(ctx, r.db, tx).Create(user).Error
}

// GetByID 根据ID获取用户
func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 邮箱须已规范化（小写、去空格）
func (r *userRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.User, error) {
	var user model.User
	if err := database.Conn(ctx, r.db, tx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string, mustChange bool) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash":        passwordHash,
		"must_change_password": mustChange,
	}).Error
}

func (r *userRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).UpdateColumn("last_login_at", at).Error
}
