package service

import (
	"context"
	"errors"
	"strings"
	"time"

	catalogModel "course_commerce/internal/domain/catalog/model"
	"course_commerce/internal/domain/payment/model"
	"course_commerce/internal/domain/payment/repository"
	"course_commerce/internal/pkg/config"
	"course_commerce/internal/pkg/events"
	"course_commerce/pkg/database"
	"course_commerce/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Confirmation 网关/银行回调归一化后的到账通知
type Confirmation struct {
	TransferCode  string
	ExternalTxnID string
	Amount        int64
	Channel       string
}

// ConfirmResult AlreadyProcessed 表示重复投递或未知转账码，未做任何修改
type ConfirmResult struct {
	OrderID          string `json:"orderId,omitempty"`
	AlreadyProcessed bool   `json:"alreadyProcessed"`
}

// ConfirmationService 支付确认
type ConfirmationService interface {
	// Confirm pending → paid 只发生一次；同一转账码的重复回调是无副作用的成功
	Confirm(ctx context.Context, c Confirmation) (*ConfirmResult, error)
}

type ConfirmationDeps struct {
	Orders  repository.OrderRepository
	Tx      database.TxManager
	Coupons CouponUsage
	Granter EntitlementGranter
	Bus     events.Bus
	Config  config.CheckoutConfig
	Metrics *metrics.MetricsCollector
	Logger  *zap.Logger
}

type confirmationService struct {
	ConfirmationDeps
	logger *zap.Logger
	now    func() time.Time
}

func NewConfirmationService(deps ConfirmationDeps) ConfirmationService {
	return &confirmationService{
		ConfirmationDeps: deps,
		logger:           deps.Logger.With(zap.String("service", "payment_confirmation")),
		now:              time.Now,
	}
}

func (s *confirmationService) Confirm(ctx context.Context, c Confirmation) (*ConfirmResult, error) {
	code := strings.ToUpper(strings.TrimSpace(c.TransferCode))
	log := s.logger.With(
		zap.String("transfer_code", code),
		zap.String("external_txn_id", c.ExternalTxnID),
		zap.String("channel", c.Channel))

	var (
		paid   *model.Order
		paidAt time.Time
	)
	err := s.Tx.WithTx(ctx, func(tx *gorm.DB) error {
		// 1. 只锁 pending 订单；找不到即已处理或未知转账码
		o, err := s.Orders.FindPendingByTransferCodeForUpdate(ctx, tx, code)
		if err != nil {
			if database.IsNotFound(err) {
				return nil
			}
			return err
		}
		if c.Amount != o.TotalAmount {
			log.Warn("payment amount mismatch",
				zap.String("order_id", o.ID),
				zap.Int64("expected", o.TotalAmount),
				zap.Int64("received", c.Amount))
			return ErrAmountMismatch
		}

		// 2. CAS pending → paid，指标订阅同时写入有效期
		paidAt = s.now()
		update := repository.PaidUpdate{PaidAt: paidAt, ExternalTxnID: c.ExternalTxnID}
		meta := o.Metadata.Data()
		if o.ProductType == catalogModel.ProductIndicator {
			days := meta.PeriodDays
			if days <= 0 {
				days = s.Config.IndicatorPeriodDays
			}
			end := paidAt.AddDate(0, 0, days)
			update.StartAt, update.EndAt = &paidAt, &end
		}
		ok, err := s.Orders.MarkPaid(ctx, tx, o.ID, update)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		// 3. 优惠码计数失败只记录，不影响发放权益
		if meta.CouponCode != "" {
			err := database.Savepoint(tx, func(sp *gorm.DB) error {
				return s.Coupons.IncrementUsage(ctx, sp, meta.CouponCode)
			})
			if err != nil {
				log.Error("increment coupon usage failed",
					zap.String("order_id", o.ID),
					zap.String("coupon", meta.CouponCode),
					zap.Error(err))
			}
		}

		// 4. 权益
		if err := s.Granter.Grant(ctx, tx, o.UserID, o.ProductType, o.ProductID, o.ID); err != nil {
			return err
		}

		o.Status = model.OrderStatusPaid
		o.PaidAt = &paidAt
		paid = o
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAmountMismatch) {
			s.Metrics.RecordConfirmation(c.Channel, "amount_mismatch")
		} else {
			s.Metrics.RecordConfirmation(c.Channel, "error")
			log.Error("payment confirmation failed", zap.Error(err))
		}
		return nil, err
	}

	if paid == nil {
		log.Info("payment notification ignored: no pending order")
		s.Metrics.RecordConfirmation(c.Channel, "already_processed")
		return &ConfirmResult{AlreadyProcessed: true}, nil
	}

	// 5. 提交后才发布事件，下游各自幂等
	evt := events.PaymentConfirmed{
		OrderID:     paid.ID,
		UserID:      paid.UserID,
		ProductType: string(paid.ProductType),
		ProductID:   paid.ProductID,
		Amount:      paid.TotalAmount,
		SalerID:     paid.SalerID,
		Channel:     c.Channel,
		PaidAt:      paidAt,
	}
	if err := s.Bus.Publish(ctx, evt); err != nil {
		log.Error("publish payment confirmed failed", zap.String("order_id", paid.ID), zap.Error(err))
	}

	s.Metrics.RecordConfirmation(c.Channel, "paid")
	log.Info("order paid", zap.String("order_id", paid.ID), zap.String("user_id", paid.UserID))
	return &ConfirmResult{OrderID: paid.ID}, nil
}
