package service

import (
	"context"
	"fmt"
	"time"

	catalogModel "course_commerce/internal/domain/catalog/model"
	"course_commerce/internal/domain/entitlement/model"
	"course_commerce/internal/domain/entitlement/repository"
	learningModel "course_commerce/internal/domain/learning/model"
	"course_commerce/pkg/database"
	base "course_commerce/pkg/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Granter 支付成功后发放权益
//   - 已删除的权益恢复并刷新发放时间
//   - 已有效则为空操作
//   - 不存在则创建
//
// 指标订阅的有效期记录在订单上，这里不做处理
type Granter interface {
	Grant(ctx context.Context, tx *gorm.DB, userID string, productType catalogModel.ProductType, productID, orderID string) error
	// Owns 是否已持有有效的书籍访问权或课程报名
	Owns(ctx context.Context, userID string, productType catalogModel.ProductType, productID string) (bool, error)
}

type granter struct {
	repo   repository.AccessRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewGranter(repo repository.AccessRepository, logger *zap.Logger) Granter {
	return &granter{
		repo:   repo,
		logger: logger.With(zap.String("service", "entitlement")),
		now:    time.Now,
	}
}

func (g *granter) Grant(ctx context.Context, tx *gorm.DB, userID string, productType catalogModel.ProductType, productID, orderID string) error {
	switch productType {
	case catalogModel.ProductBook:
		return g.grantBook(ctx, tx, userID, productID, orderID)
	case catalogModel.ProductCourse:
		return g.grantCourse(ctx, tx, userID, productID, orderID)
	case catalogModel.ProductIndicator:
		return nil
	}
	return fmt.Errorf("unsupported product type %q", productType)
}

func (g *granter) Owns(ctx context.Context, userID string, productType catalogModel.ProductType, productID string) (bool, error) {
	switch productType {
	case catalogModel.ProductBook:
		return g.repo.HasActiveBook(ctx, userID, productID)
	case catalogModel.ProductCourse:
		return g.repo.HasActiveEnrollment(ctx, userID, productID)
	}
	// 指标可续订
	return false, nil
}

func (g *granter) grantBook(ctx context.Context, tx *gorm.DB, userID, bookID, orderID string) error {
	now := g.now()
	existing, err := g.repo.FindBookAccess(ctx, tx, userID, bookID)
	if err != nil && !database.IsNotFound(err) {
		return err
	}

	if existing == nil {
		a := &model.UserBookAccess{
			UserID:    userID,
			BookID:    bookID,
			OrderID:   &orderID,
			GrantedAt: now,
			Lifecycle: base.LifecycleActive,
		}
		err = database.Savepoint(tx, func(sp *gorm.DB) error {
			return g.repo.CreateBookAccess(ctx, sp, a)
		})
		if err == nil {
			g.logger.Info("book access granted", zap.String("user_id", userID), zap.String("book_id", bookID))
			return nil
		}
		if !database.IsDuplicateKey(err) {
			return err
		}
		if existing, err = g.repo.FindBookAccess(ctx, tx, userID, bookID); err != nil {
			return err
		}
	}

	if existing.Lifecycle == base.LifecycleActive {
		return nil
	}
	g.logger.Info("book access restored", zap.String("user_id", userID), zap.String("book_id", bookID))
	return g.repo.RestoreBookAccess(ctx, tx, existing.ID, orderID, now)
}

func (g *granter) grantCourse(ctx context.Context, tx *gorm.DB, userID, courseID, orderID string) error {
	now := g.now()
	existing, err := g.repo.FindEnrollment(ctx, tx, userID, courseID)
	if err != nil && !database.IsNotFound(err) {
		return err
	}

	if existing == nil {
		e := &learningModel.CourseEnrollment{
			UserID:     userID,
			CourseID:   courseID,
			OrderID:    &orderID,
			Status:     learningModel.EnrollmentActive,
			EnrolledAt: now,
			Lifecycle:  base.LifecycleActive,
		}
		err = database.Savepoint(tx, func(sp *gorm.DB) error {
			return g.repo.CreateEnrollment(ctx, sp, e)
		})
		if err == nil {
			g.logger.Info("course enrollment created", zap.String("user_id", userID), zap.String("course_id", courseID))
			return nil
		}
		if !database.IsDuplicateKey(err) {
			return err
		}
		if existing, err = g.repo.FindEnrollment(ctx, tx, userID, courseID); err != nil {
			return err
		}
	}

	if existing.Lifecycle == base.LifecycleActive {
		return nil
	}
	g.logger.Info("course enrollment restored", zap.String("user_id", userID), zap.String("course_id", courseID))
	return g.repo.RestoreEnrollment(ctx, tx, existing.ID, orderID, now)
}
