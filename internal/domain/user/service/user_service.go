package service

import (
	"context"
	"time"

	"course_commerce/internal/domain/user/model"
	"course_commerce/internal/domain/user/repository"
	"course_commerce/internal/pkg/apperr"
	"course_commerce/pkg/database"
	base "course_commerce/pkg/model"
	"course_commerce/pkg/response"
	"course_commerce/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAuthFailed   = apperr.Validation(response.ErrAuthFailed, "Email hoặc mật khẩu không đúng")
	ErrUserNotFound = apperr.NotFound(response.ErrUserNotFound, "Người dùng không tồn tại")
	ErrWeakPassword = apperr.Validation(response.ErrInvalidParam, "Mật khẩu mới phải có ít nhất 8 ký tự")
)

// LoginResult 登录结果
type LoginResult struct {
	Token              string     `json:"token"`
	ExpireAt           *time.Time `json:"expireAt"`
	MustChangePassword bool       `json:"mustChangePassword"`
}

// UserService 用户服务接口
type UserService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// userService 实现
type userService struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger.With(zap.String("service", "user"))}
}

// Login 邮箱+密码登录
func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	// 1. 查询用户
	user, err := s.repo.GetByEmail(ctx, nil, NormalizeEmail(email))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrAuthFailed
		}
		return nil, err
	}

	// 2. 检查状态与密码
	if user.Lifecycle == base.LifecycleDeleted {
		return nil, ErrAuthFailed
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrAuthFailed
	}

	// 3. 生成 Token
	token, expireAt, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	if err := s.repo.TouchLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.Warn("touch last login failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	return &LoginResult{Token: token, ExpireAt: expireAt, MustChangePassword: user.MustChangePassword}, nil
}

// ChangePassword 修改密码，同时清除 must_change_password
func (s *userService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return ErrAuthFailed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, string(hash), false)
}

// GetUser 获取单个用户
func (s *userService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
