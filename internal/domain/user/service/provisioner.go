package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"course_commerce/internal/domain/user/model"
	"course_commerce/internal/domain/user/repository"
	"course_commerce/pkg/database"
	base "course_commerce/pkg/model"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 去掉易混淆字符 0/O/1/l/I
const tempPasswordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Provisioned 开户结果；TempPassword 仅在新建账户时非空
type Provisioned struct {
	User         *model.User
	Created      bool
	TempPassword string
}

// Provisioner 结账时按邮箱查找或创建买家账户
type Provisioner interface {
	FindOrCreateByEmail(ctx context.Context, tx *gorm.DB, contact model.BuyerContact) (*Provisioned, error)
}

type provisioner struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewProvisioner(repo repository.UserRepository, logger *zap.Logger) Provisioner {
	return &provisioner{repo: repo, logger: logger.With(zap.String("service", "user_provisioner"))}
}

// NormalizeEmail 去空格并转小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindOrCreateByEmail 查找或创建买家
// 并发下同一邮箱同时开户时以唯一索引为准：插入冲突后重新读取已存在的账户
func (p *provisioner) FindOrCreateByEmail(ctx context.Context, tx *gorm.DB, contact model.BuyerContact) (*Provisioned, error) {
	email := NormalizeEmail(contact.Email)
	if email == "" {
		return nil, errors.New("buyer email is required")
	}

	// 1. 已有账户直接返回
	user, err := p.repo.GetByEmail(ctx, tx, email)
	if err == nil {
		return &Provisioned{User: user}, nil
	}
	if !database.IsNotFound(err) {
		return nil, err
	}

	// 2. 生成临时密码并创建
	tempPassword, err := GenerateTempPassword()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash temp password: %w", err)
	}
	user = &model.User{
		Email:              email,
		FullName:           strings.TrimSpace(contact.FullName),
		Phone:              strings.TrimSpace(contact.Phone),
		PasswordHash:       string(hash),
		MustChangePassword: true,
		Role:               model.RoleUser,
		Lifecycle:          base.LifecycleActive,
	}

	createErr := database.Savepoint(tx, func(sp *gorm.DB) error {
		return p.repo.Create(ctx, sp, user)
	})
	if createErr == nil {
		p.logger.Info("buyer account provisioned", zap.String("user_id", user.ID))
		return &Provisioned{User: user, Created: true, TempPassword: tempPassword}, nil
	}
	if !database.IsDuplicateKey(createErr) {
		return nil, createErr
	}

	// 3. 并发开户，读取胜出方
	existing, err := p.repo.GetByEmail(ctx, tx, email)
	if err != nil {
		return nil, err
	}
	return &Provisioned{User: existing}, nil
}

// GenerateTempPassword 生成 xxxxx-xxxxx 形式的临时密码
func GenerateTempPassword() (string, error) {
	const groupLen = 5
	var b strings.Builder
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := 0; i < groupLen*2; i++ {
		if i == groupLen {
			b.WriteByte('-')
		}
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate temp password: %w", err)
		}
		b.WriteByte(tempPasswordAlphabet[n.Int64()])
	}
	return b.String(), nil
}
