package service

import (
	"context"
	"time"

	catalogModel "course_commerce/internal/domain/catalog/model"
	"course_commerce/internal/pkg/events"
	"course_commerce/internal/pkg/push"
	"course_commerce/pkg/cache"

	"go.uber.org/zap"
)

// dedupTTL 覆盖总线重试窗口即可
const dedupTTL = 7 * 24 * time.Hour

func dedupKey(orderID string) string {
	return "notify:payment:" + orderID
}

// PaymentNotifier 支付成功后推送给买家
type PaymentNotifier struct {
	cache  cache.CacheService
	pusher push.Notifier
	logger *zap.Logger
}

func NewPaymentNotifier(c cache.CacheService, pusher push.Notifier, logger *zap.Logger) *PaymentNotifier {
	return &PaymentNotifier{
		cache:  c,
		pusher: pusher,
		logger: logger.With(zap.String("service", "payment_notifier")),
	}
}

func (n *PaymentNotifier) Register(bus events.Bus) {
	events.SubscribePaymentConfirmed(bus, "payment_notifier", n.OnPaymentConfirmed)
}

// OnPaymentConfirmed 每个订单只推送一次；推送失败释放去重键，交给总线重试
func (n *PaymentNotifier) OnPaymentConfirmed(ctx context.Context, evt events.PaymentConfirmed) error {
	key := dedupKey(evt.OrderID)
	first, err := n.cache.SetNX(ctx, key, evt.PaidAt.Unix(), dedupTTL)
	if err != nil {
		return err
	}
	if !first {
		n.logger.Debug("payment notification already sent", zap.String("order_id", evt.OrderID))
		return nil
	}

	if err := n.pusher.PushToAccount(ctx, evt.UserID, messageFor(evt)); err != nil {
		if delErr := n.cache.Delete(ctx, key); delErr != nil {
			n.logger.Warn("release dedup key failed", zap.String("order_id", evt.OrderID), zap.Error(delErr))
		}
		return err
	}
	n.logger.Info("payment notification sent", zap.String("order_id", evt.OrderID), zap.String("user_id", evt.UserID))
	return nil
}

func messageFor(evt events.PaymentConfirmed) push.Message {
	var body string
	switch catalogModel.ProductType(evt.ProductType) {
	case catalogModel.ProductBook:
		body = "Sách đã được thêm vào thư viện của bạn."
	case catalogModel.ProductIndicator:
		body = "Gói chỉ báo của bạn đã được kích hoạt."
	case catalogModel.ProductCourse:
		body = "Bạn đã có thể bắt đầu khóa học."
	default:
		body = "Đơn hàng của bạn đã được xác nhận."
	}
	return push.Message{
		Title: "Thanh toán thành công",
		Body:  body,
		Ext: map[string]string{
			"type":        "payment_confirmed",
			"orderId":     evt.OrderID,
			"productType": evt.ProductType,
			"productId":   evt.ProductID,
		},
	}
}
