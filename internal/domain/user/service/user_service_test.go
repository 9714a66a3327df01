package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"course_commerce/internal/domain/user/model"
	"course_commerce/internal/pkg/config"
	base "course_commerce/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, tx *gorm.DB, user *model.User) error {
	args := m.Called(ctx, tx, user)
	if user.ID == "" {
		user.ID = "new-user-id"
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.User, error) {
	args := m.Called(ctx, tx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, mustChange bool) error {
	args := m.Called(ctx, id, passwordHash, mustChange)
	return args.Error(0)
}

func (m *MockUserRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func createTestUser(id, email, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		Email:        email,
		FullName:     "Test User",
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		Lifecycle:    base.LifecycleActive,
	}
	u.ID = id
	return u
}

func TestFindOrCreateByEmail(t *testing.T) {
	ctx := context.Background()
	contact := model.BuyerContact{Email: "  Buyer@Example.COM ", FullName: " Nguyen Van A "}

	t.Run("Existing account is reused", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		p := NewProvisioner(mockRepo, zap.NewNop())
		existing := createTestUser("u-1", "buyer@example.com", "secret123")

		mockRepo.On("GetByEmail", ctx, (*gorm.DB)(nil), "buyer@example.com").Return(existing, nil)

		res, err := p.FindOrCreateByEmail(ctx, nil, contact)

		assert.NoError(t, err)
		assert.False(t, res.Created)
		assert.Empty(t, res.TempPassword)
		assert.Equal(t, "u-1", res.User.ID)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("New account gets temp password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		p := NewProvisioner(mockRepo, zap.NewNop())

		mockRepo.On("GetByEmail", ctx, (*gorm.DB)(nil), "buyer@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", ctx, (*gorm.DB)(nil), mock.AnythingOfType("*model.User")).Return(nil)

		res, err := p.FindOrCreateByEmail(ctx, nil, contact)

		require.NoError(t, err)
		assert.True(t, res.Created)
		assert.Equal(t, "buyer@example.com", res.User.Email)
		assert.Equal(t, "Nguyen Van A", res.User.FullName)
		assert.True(t, res.User.MustChangePassword)
		assert.NotEmpty(t, res.TempPassword)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte(res.TempPassword)))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Concurrent create re-reads winner", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		p := NewProvisioner(mockRepo, zap.NewNop())
		winner := createTestUser("u-winner", "buyer@example.com", "x")

		mockRepo.On("GetByEmail", ctx, (*gorm.DB)(nil), "buyer@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
		mockRepo.On("Create", ctx, (*gorm.DB)(nil), mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
		mockRepo.On("GetByEmail", ctx, (*gorm.DB)(nil), "buyer@example.com").Return(winner, nil).Once()

		res, err := p.FindOrCreateByEmail(ctx, nil, contact)

		require.NoError(t, err)
		assert.False(t, res.Created)
		assert.Equal(t, "u-winner", res.User.ID)
	})

	t.Run("Storage error propagates", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		p := NewProvisioner(mockRepo, zap.NewNop())
		mockRepo.On("GetByEmail", ctx, (*gorm.DB)(nil), "buyer@example.com").Return(nil, errors.New("db down"))

		_, err := p.FindOrCreateByEmail(ctx, nil, contact)
		assert.EqualError(t, err, "db down")
	})
}

func TestGenerateTempPassword(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		pw, err := GenerateTempPassword()
		require.NoError(t, err)
		assert.Len(t, pw, 11)
		assert.Equal(t, byte('-'), pw[5])
		assert.False(t, strings.ContainsAny(pw, "0O1lI"))
		seen[pw] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestLogin(t *testing.T) {
	config.GlobalConfig.JWT.Secret = "0123456789abcdef0123456789abcdef"
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, zap.NewNop())
		user := createTestUser("u-1", "buyer@example.com", "secret123")
		user.MustChangePassword = true

		mockRepo.On("GetByEmail", ctx, (*gorm.DB)(nil), "buyer@example.com").Return(user, nil)
		mockRepo.On("TouchLogin", ctx, "u-1", mock.AnythingOfType("time.Time")).Return(nil)

		res, err := svc.Login(ctx, "Buyer@example.com", "secret123")

		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.True(t, res.MustChangePassword)
	})

	t.Run("Wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, zap.NewNop())
		user := createTestUser("u-1", "buyer@example.com", "secret123")
		mockRepo.On("GetByEmail", ctx, (*gorm.DB)(nil), "buyer@example.com").Return(user, nil)

		_, err := svc.Login(ctx, "buyer@example.com", "nope")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("Unknown email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, zap.NewNop())
		mockRepo.On("GetByEmail", ctx, (*gorm.DB)(nil), "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Login(ctx, "ghost@example.com", "x")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Clears must change flag", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, zap.NewNop())
		user := createTestUser("u-1", "buyer@example.com", "temp-pass")

		mockRepo.On("GetByID", ctx, "u-1").Return(user, nil)
		mockRepo.On("UpdatePassword", ctx, "u-1", mock.AnythingOfType("string"), false).Return(nil)

		err := svc.ChangePassword(ctx, "u-1", "temp-pass", "new-strong-pass")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Rejects short password", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository), zap.NewNop())
		assert.ErrorIs(t, svc.ChangePassword(ctx, "u-1", "a", "short"), ErrWeakPassword)
	})

	t.Run("Rejects wrong old password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, zap.NewNop())
		mockRepo.On("GetByID", ctx, "u-1").Return(createTestUser("u-1", "a@b.c", "right"), nil)

		assert.ErrorIs(t, svc.ChangePassword(ctx, "u-1", "wrong", "new-strong-pass"), ErrAuthFailed)
	})
}
