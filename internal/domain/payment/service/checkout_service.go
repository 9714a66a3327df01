package service

import (
	"context"
	"strings"
	"time"

	catalogModel "course_commerce/internal/domain/catalog/model"
	"course_commerce/internal/domain/payment/model"
	"course_commerce/internal/domain/payment/repository"
	"course_commerce/internal/domain/payment/strategy"
	userModel "course_commerce/internal/domain/user/model"
	userService "course_commerce/internal/domain/user/service"
	"course_commerce/internal/pkg/config"
	"course_commerce/internal/pkg/events"
	"course_commerce/pkg/database"
	"course_commerce/pkg/metrics"
	base "course_commerce/pkg/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CheckoutInput 一次购买请求
type CheckoutInput struct {
	ProductType catalogModel.ProductType
	ProductID   string
	Contact     userModel.BuyerContact
	CouponCode  string
	SalerCode   string
	Channel     string
}

// CheckoutResult 待支付订单与付款二维码
type CheckoutResult struct {
	OrderID      string         `json:"orderId"`
	TransferCode string         `json:"transferCode"`
	TotalAmount  int64          `json:"totalAmount"`
	Channel      string         `json:"channel"`
	QRCodeURL    string         `json:"qrCodeUrl"`
	Pricing      model.Metadata `json:"pricing"`
	Reused       bool           `json:"reused"`
	NewAccount   bool           `json:"newAccount"`
}

// OrderStatusView 按转账备注码轮询的订单状态
type OrderStatusView struct {
	TransferCode string                   `json:"transferCode"`
	ProductType  catalogModel.ProductType `json:"productType"`
	Status       string                   `json:"status"`
	TotalAmount  int64                    `json:"totalAmount"`
	PaidAt       *time.Time               `json:"paidAt,omitempty"`
}

// SubscriptionView 指标订阅
type SubscriptionView struct {
	OrderID     string     `json:"orderId"`
	IndicatorID string     `json:"indicatorId"`
	Name        string     `json:"name"`
	StartAt     *time.Time `json:"startAt"`
	EndAt       *time.Time `json:"endAt"`
	Active      bool       `json:"active"`
}

// CheckoutService 结账编排
type CheckoutService interface {
	// Checkout 校验商品与优惠码、开户、复用或创建 pending 订单并生成二维码
	// 整个过程在一个事务内，网关失败时不留下任何状态
	Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error)
	// Cancel 删除调用者自己的 pending 订单
	Cancel(ctx context.Context, userID, orderID string) error
	OrderStatus(ctx context.Context, transferCode string) (*OrderStatusView, error)
	Subscriptions(ctx context.Context, userID string) ([]SubscriptionView, error)
}

// CheckoutDeps 结账依赖
type CheckoutDeps struct {
	Orders   repository.OrderRepository
	Tx       database.TxManager
	Products ProductResolver
	Coupons  CouponValidator
	Accounts AccountProvisioner
	Granter  EntitlementGranter
	Salers   SalerResolver // 可为 nil
	Gateways map[string]strategy.Gateway
	Bus      events.Bus
	Config   config.CheckoutConfig
	Metrics  *metrics.MetricsCollector
	Logger   *zap.Logger
}

type checkoutService struct {
	CheckoutDeps
	logger *zap.Logger
	now    func() time.Time
}

func NewCheckoutService(deps CheckoutDeps) CheckoutService {
	return &checkoutService{
		CheckoutDeps: deps,
		logger:       deps.Logger.With(zap.String("service", "checkout")),
		now:          time.Now,
	}
}

func (s *checkoutService) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	res, err := s.checkout(ctx, in)
	if err != nil {
		s.Metrics.RecordCheckout(string(in.ProductType), "failed")
		return nil, err
	}
	if res.Reused {
		s.Metrics.RecordCheckout(string(in.ProductType), "reused")
	} else {
		s.Metrics.RecordCheckout(string(in.ProductType), "created")
	}
	return res, nil
}

func (s *checkoutService) checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if !in.ProductType.Valid() {
		return nil, ErrInvalidProductType
	}

	// 1. 商品
	product, err := s.Products.Resolve(ctx, in.ProductType, in.ProductID)
	if err != nil {
		return nil, err
	}

	// 2. 价格：默认折扣后再叠加优惠码，最后加手续费
	meta, err := s.price(ctx, product, in)
	if err != nil {
		return nil, err
	}
	total := meta.BasePrice - meta.CouponDiscount + meta.PaymentFee

	gateway, err := s.gateway(in.Channel)
	if err != nil {
		return nil, err
	}
	salerID := s.resolveSaler(ctx, product, in.SalerCode)

	var (
		prov   *userService.Provisioned
		order  *model.Order
		reused bool
	)
	err = s.Tx.WithTx(ctx, func(tx *gorm.DB) error {
		// 3. 买家账户
		p, err := s.Accounts.FindOrCreateByEmail(ctx, tx, in.Contact)
		if err != nil {
			return err
		}
		prov = p

		owned, err := s.Granter.Owns(ctx, p.User.ID, product.Type, product.ID)
		if err != nil {
			return err
		}
		if owned {
			return ErrAlreadyPurchased
		}

		// 4. 复用或创建 pending 订单
		o, isReused, err := s.pendingOrder(ctx, tx, p.User.ID, product, gateway.Channel())
		if err != nil {
			return err
		}
		o.ProductName = product.Name
		o.TotalAmount = total
		o.Channel = gateway.Channel()
		o.Metadata = datatypes.NewJSONType(meta)
		o.SalerID = salerID

		// 5. 二维码，失败则整个事务回滚
		qr, err := gateway.CreateQR(ctx, strategy.QRRequest{
			TransferCode: o.TransferCode,
			Amount:       total,
			Description:  product.Name,
		})
		if err != nil {
			return ErrGatewayUnavailable.Wrap(err)
		}
		o.QRCodeURL = qr

		ok, err := s.Orders.UpdatePending(ctx, tx, o)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOrderNotPending
		}
		order, reused = o, isReused
		return nil
	})
	if err != nil {
		return nil, err
	}

	if prov.Created {
		s.announceAccount(ctx, prov)
	}
	s.logger.Info("checkout order ready",
		zap.String("order_id", order.ID),
		zap.String("transfer_code", order.TransferCode),
		zap.String("product_type", string(product.Type)),
		zap.Int64("total", total),
		zap.Bool("reused", reused))

	return &CheckoutResult{
		OrderID:      order.ID,
		TransferCode: order.TransferCode,
		TotalAmount:  order.TotalAmount,
		Channel:      order.Channel,
		QRCodeURL:    order.QRCodeURL,
		Pricing:      meta,
		Reused:       reused,
		NewAccount:   prov.Created,
	}, nil
}

func (s *checkoutService) price(ctx context.Context, product *catalogModel.Product, in CheckoutInput) (model.Metadata, error) {
	meta := model.Metadata{
		Price:           product.Price,
		DefaultDiscount: product.DiscountAmount,
		BasePrice:       product.BasePrice(),
		PaymentFee:      s.Config.PaymentFee,
		Contact: model.Contact{
			Email:    userService.NormalizeEmail(in.Contact.Email),
			FullName: strings.TrimSpace(in.Contact.FullName),
			Phone:    strings.TrimSpace(in.Contact.Phone),
		},
	}
	if product.Type == catalogModel.ProductIndicator {
		meta.PeriodDays = product.PeriodDays
		if meta.PeriodDays <= 0 {
			meta.PeriodDays = s.Config.IndicatorPeriodDays
		}
	}

	if code := strings.TrimSpace(in.CouponCode); code != "" {
		res, err := s.Coupons.Validate(ctx, code, product.Type.ResourceTag(), meta.BasePrice)
		if err != nil {
			return meta, err
		}
		meta.CouponCode = res.Code
		meta.CouponDiscount = res.Discount
	}
	return meta, nil
}

func (s *checkoutService) gateway(channel string) (strategy.Gateway, error) {
	if channel == "" {
		channel = s.Config.DefaultChannel
	}
	gw, ok := s.Gateways[channel]
	if !ok {
		return nil, ErrUnsupportedChannel
	}
	return gw, nil
}

// resolveSaler 仅课程订单记录推广人；推广码无效不影响购买
func (s *checkoutService) resolveSaler(ctx context.Context, product *catalogModel.Product, code string) *string {
	code = strings.TrimSpace(code)
	if s.Salers == nil || code == "" || product.Type != catalogModel.ProductCourse {
		return nil
	}
	id, err := s.Salers.ResolveSalerID(ctx, code)
	if err != nil {
		s.logger.Warn("resolve saler code failed", zap.String("saler_code", code), zap.Error(err))
		return nil
	}
	if id == "" {
		s.logger.Info("unknown saler code ignored", zap.String("saler_code", code))
		return nil
	}
	return &id
}

// pendingOrder 锁定已有 pending 订单；没有则在 savepoint 中创建
// 并发结账时部分唯一索引使后到者插入冲突，回退为复用胜出方的订单
func (s *checkoutService) pendingOrder(ctx context.Context, tx *gorm.DB, userID string, product *catalogModel.Product, channel string) (*model.Order, bool, error) {
	o, err := s.Orders.FindPendingForUpdate(ctx, tx, userID, product.Type, product.ID)
	if err == nil {
		return o, true, nil
	}
	if !database.IsNotFound(err) {
		return nil, false, err
	}

	id := uuid.New().String()
	o = &model.Order{
		BaseModel:    base.BaseModel{ID: id},
		UserID:       userID,
		ProductType:  product.Type,
		ProductID:    product.ID,
		ProductName:  product.Name,
		Status:       model.OrderStatusPending,
		TransferCode: model.TransferCodeFor(id),
		Channel:      channel,
	}
	err = database.Savepoint(tx, func(sp *gorm.DB) error {
		return s.Orders.Create(ctx, sp, o)
	})
	if err == nil {
		return o, false, nil
	}
	if !database.IsDuplicateKey(err) {
		return nil, false, err
	}

	o, err = s.Orders.FindPendingForUpdate(ctx, tx, userID, product.Type, product.ID)
	if err != nil {
		return nil, false, err
	}
	return o, true, nil
}

func (s *checkoutService) announceAccount(ctx context.Context, prov *userService.Provisioned) {
	err := s.Bus.Publish(ctx, events.AccountProvisioned{
		UserID:       prov.User.ID,
		Email:        prov.User.Email,
		TempPassword: prov.TempPassword,
	})
	if err != nil {
		s.logger.Error("publish account provisioned failed", zap.String("user_id", prov.User.ID), zap.Error(err))
	}
}

func (s *checkoutService) Cancel(ctx context.Context, userID, orderID string) error {
	ok, err := s.Orders.DeletePending(ctx, userID, orderID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOrderNotPending
	}
	s.logger.Info("pending order cancelled", zap.String("order_id", orderID))
	return nil
}

func (s *checkoutService) OrderStatus(ctx context.Context, transferCode string) (*OrderStatusView, error) {
	o, err := s.Orders.FindByTransferCode(ctx, strings.ToUpper(strings.TrimSpace(transferCode)))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &OrderStatusView{
		TransferCode: o.TransferCode,
		ProductType:  o.ProductType,
		Status:       o.Status,
		TotalAmount:  o.TotalAmount,
		PaidAt:       o.PaidAt,
	}, nil
}

func (s *checkoutService) Subscriptions(ctx context.Context, userID string) ([]SubscriptionView, error) {
	orders, err := s.Orders.ListPaid(ctx, userID, catalogModel.ProductIndicator)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]SubscriptionView, 0, len(orders))
	for _, o := range orders {
		out = append(out, SubscriptionView{
			OrderID:     o.ID,
			IndicatorID: o.ProductID,
			Name:        o.ProductName,
			StartAt:     o.StartAt,
			EndAt:       o.EndAt,
			Active:      o.EndAt != nil && o.EndAt.After(now),
		})
	}
	return out, nil
}
