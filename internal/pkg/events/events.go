package events

import (
	"context"
	"time"
)

// 事件名
const (
	PaymentConfirmedName   = "payment.confirmed"
	AccountProvisionedName = "account.provisioned"
)

// Event 领域事件
type Event interface {
	Name() string
	// Key 事件的去重键，下游据此做幂等
	Key() string
}

// Handler 事件处理函数
type Handler func(ctx context.Context, evt Event) error

// Bus 进程内事件总线
type Bus interface {
	Publish(ctx context.Context, evt Event) error
	Subscribe(eventName, subscriber string, h Handler)
}

// PaymentConfirmed 订单支付成功
type PaymentConfirmed struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	ProductType string    `json:"product_type"`
	ProductID   string    `json:"product_id"`
	Amount      int64     `json:"amount"`
	SalerID     *string   `json:"saler_id,omitempty"`
	Channel     string    `json:"channel"`
	PaidAt      time.Time `json:"paid_at"`
}

func (e PaymentConfirmed) Name() string { return PaymentConfirmedName }
func (e PaymentConfirmed) Key() string  { return e.OrderID }

// AccountProvisioned 结账时自动开户，携带临时密码供邮件服务发送
// 临时密码不得写入日志
type AccountProvisioned struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	TempPassword string `json:"temp_password"`
}

func (e AccountProvisioned) Name() string { return AccountProvisionedName }
func (e AccountProvisioned) Key() string  { return e.UserID }

// SubscribePaymentConfirmed 类型化订阅
func SubscribePaymentConfirmed(bus Bus, subscriber string, fn func(ctx context.Context, evt PaymentConfirmed) error) {
	bus.Subscribe(PaymentConfirmedName, subscriber, func(ctx context.Context, evt Event) error {
		switch e := evt.(type) {
		case PaymentConfirmed:
			return fn(ctx, e)
		case *PaymentConfirmed:
			return fn(ctx, *e)
		}
		return nil
	})
}
