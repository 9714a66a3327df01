package service

import (
	"context"

	catalogModel "course_commerce/internal/domain/catalog/model"
	"course_commerce/internal/domain/commission/model"
	"course_commerce/internal/domain/commission/repository"
	"course_commerce/internal/pkg/apperr"
	"course_commerce/internal/pkg/events"
	"course_commerce/pkg/database"
	"course_commerce/pkg/metrics"
	"course_commerce/pkg/response"
	"course_commerce/pkg/utils"

	"go.uber.org/zap"
)

var ErrNotSaler = apperr.Forbidden(response.ErrNotSaler, "Tài khoản chưa đăng ký cộng tác viên")

// SalerResolver 结账时把推广码解析为推广人 id，未知推广码返回空串
type SalerResolver interface {
	ResolveSalerID(ctx context.Context, code string) (string, error)
}

// SnapshotService 支付成功后冻结课程佣金
type SnapshotService interface {
	OnPaymentConfirmed(ctx context.Context, evt events.PaymentConfirmed) error
	// Register 订阅 payment.confirmed
	Register(bus events.Bus)
}

// CommissionQuery 推广人查询自己的佣金
type CommissionQuery interface {
	ListMine(ctx context.Context, userID string, p utils.Pagination) (*utils.PageResult, error)
}

// CommissionService 推广码解析、佣金快照与查询
type CommissionService struct {
	repo    repository.CommissionRepository
	metrics *metrics.MetricsCollector
	logger  *zap.Logger
}

func NewCommissionService(repo repository.CommissionRepository, m *metrics.MetricsCollector, logger *zap.Logger) *CommissionService {
	return &CommissionService{
		repo:    repo,
		metrics: m,
		logger:  logger.With(zap.String("service", "commission")),
	}
}

var (
	_ SalerResolver   = (*CommissionService)(nil)
	_ SnapshotService = (*CommissionService)(nil)
	_ CommissionQuery = (*CommissionService)(nil)
)

func (s *CommissionService) ResolveSalerID(ctx context.Context, code string) (string, error) {
	saler, err := s.repo.FindSalerByCode(ctx, code)
	if err != nil {
		if database.IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return saler.ID, nil
}

func (s *CommissionService) Register(bus events.Bus) {
	events.SubscribePaymentConfirmed(bus, "commission_snapshot", s.OnPaymentConfirmed)
}

// OnPaymentConfirmed 重复投递安全：已有佣金直接跳过，并发插入由 order_id 唯一索引兜底
func (s *CommissionService) OnPaymentConfirmed(ctx context.Context, evt events.PaymentConfirmed) error {
	if evt.ProductType != string(catalogModel.ProductCourse) || evt.SalerID == nil || *evt.SalerID == "" {
		return nil
	}
	log := s.logger.With(zap.String("order_id", evt.OrderID), zap.String("saler_id", *evt.SalerID))

	exists, err := s.repo.ExistsForOrder(ctx, evt.OrderID)
	if err != nil {
		return err
	}
	if exists {
		s.metrics.RecordCommission("duplicate")
		return nil
	}

	saler, err := s.repo.GetSaler(ctx, *evt.SalerID)
	if err != nil {
		if database.IsNotFound(err) {
			log.Warn("saler removed before commission snapshot")
			s.metrics.RecordCommission("skipped")
			return nil
		}
		return err
	}

	rate := saler.RateFor(evt.ProductID)
	c := &model.Commission{
		OrderID:     evt.OrderID,
		SalerID:     saler.ID,
		BuyerID:     evt.UserID,
		CourseID:    evt.ProductID,
		OrderAmount: evt.Amount,
		Rate:        rate,
		Amount:      model.CommissionAmount(evt.Amount, rate),
		Status:      model.StatusAvailable,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if database.IsDuplicateKey(err) {
			s.metrics.RecordCommission("duplicate")
			return nil
		}
		s.metrics.RecordCommission("failed")
		return err
	}

	s.metrics.RecordCommission("created")
	log.Info("commission snapshot created",
		zap.String("rate", rate.StringFixed(2)),
		zap.String("amount", c.Amount.StringFixed(2)))
	return nil
}

func (s *CommissionService) ListMine(ctx context.Context, userID string, p utils.Pagination) (*utils.PageResult, error) {
	saler, err := s.repo.FindSalerByUserID(ctx, userID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrNotSaler
		}
		return nil, err
	}
	offset, limit := p.GetPageOffset()
	items, total, err := s.repo.ListBySaler(ctx, saler.ID, offset, limit)
	if err != nil {
		return nil, err
	}
	return utils.NewPageResult(items, total, p), nil
}
