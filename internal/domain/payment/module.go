package payment

import (
	"context"
	"fmt"

	"course_commerce/internal/domain/catalog"
	catalogModel "course_commerce/internal/domain/catalog/model"
	"course_commerce/internal/domain/commission"
	"course_commerce/internal/domain/coupon"
	couponService "course_commerce/internal/domain/coupon/service"
	"course_commerce/internal/domain/entitlement"
	"course_commerce/internal/domain/payment/handler"
	"course_commerce/internal/domain/payment/repository"
	"course_commerce/internal/domain/payment/service"
	"course_commerce/internal/domain/payment/strategy"
	"course_commerce/internal/domain/user"
	"course_commerce/internal/pkg/middleware"
	"course_commerce/internal/pkg/registry"

	"go.uber.org/zap"
)

// ServiceConfirmation 跨模块服务名（压测工具与后台补单使用）
const ServiceConfirmation = "payment.confirmation"

// PaymentModule 结账与支付确认
type PaymentModule struct{}

func init() {
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	// 依赖 catalog / coupon / user / entitlement / commission 暴露的服务
	return 20
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	products, ok := registry.Lookup[service.ProductResolver](ctx, catalog.ServiceProducts)
	if !ok {
		return fmt.Errorf("payment: %s not provided", catalog.ServiceProducts)
	}
	coupons, ok := registry.Lookup[couponService.CouponService](ctx, coupon.ServiceCoupons)
	if !ok {
		return fmt.Errorf("payment: %s not provided", coupon.ServiceCoupons)
	}
	accounts, ok := registry.Lookup[service.AccountProvisioner](ctx, user.ServiceProvisioner)
	if !ok {
		return fmt.Errorf("payment: %s not provided", user.ServiceProvisioner)
	}
	granter, ok := registry.Lookup[service.EntitlementGranter](ctx, entitlement.ServiceGranter)
	if !ok {
		return fmt.Errorf("payment: %s not provided", entitlement.ServiceGranter)
	}
	// 推广模块可选
	salers, _ := registry.Lookup[service.SalerResolver](ctx, commission.ServiceSalers)

	gateways, parsers := m.buildGateways(ctx)
	if len(gateways) == 0 {
		ctx.Logger.Warn("no payment channel configured, checkout will reject every request")
	}

	orders := repository.NewOrderRepository(ctx.DB)
	checkout := service.NewCheckoutService(service.CheckoutDeps{
		Orders:   orders,
		Tx:       ctx.Tx,
		Products: products,
		Coupons:  coupons,
		Accounts: accounts,
		Granter:  granter,
		Salers:   salers,
		Gateways: gateways,
		Bus:      ctx.Bus,
		Config:   ctx.Config.Checkout,
		Metrics:  ctx.Metrics,
		Logger:   ctx.Logger,
	})
	confirm := service.NewConfirmationService(service.ConfirmationDeps{
		Orders:  orders,
		Tx:      ctx.Tx,
		Coupons: coupons,
		Granter: granter,
		Bus:     ctx.Bus,
		Config:  ctx.Config.Checkout,
		Metrics: ctx.Metrics,
		Logger:  ctx.Logger,
	})
	ctx.Provide(ServiceConfirmation, confirm)

	h := handler.NewPaymentHandler(checkout, confirm, parsers, ctx.Logger)

	co := ctx.API.Group("/checkout")
	co.POST("/books/:id", h.Checkout(catalogModel.ProductBook))
	co.POST("/indicators/:id", h.Checkout(catalogModel.ProductIndicator))
	co.POST("/courses/:id", h.Checkout(catalogModel.ProductCourse))
	co.GET("/orders/:id", h.OrderStatus)
	co.DELETE("/orders/:id", middleware.AuthMiddleware(), h.CancelOrder)

	// 回调无需登录：银行走 API Key，网关走验签
	pay := ctx.API.Group("/payments")
	pay.POST("/webhook/bank", middleware.WebhookAuthMiddleware(ctx.Config.Webhook.APIKey), h.BankWebhook)
	pay.POST("/notify/alipay", h.AlipayNotify)
	pay.POST("/notify/wechat", h.WechatNotify)

	ctx.API.GET("/me/subscriptions", middleware.AuthMiddleware(), h.MySubscriptions)
	return nil
}

// buildGateways 注册已配置的支付渠道，出站调用统一包一层超时/重试/熔断
func (m *PaymentModule) buildGateways(ctx *registry.ModuleContext) (map[string]strategy.Gateway, map[string]strategy.NotifyParser) {
	cfg := ctx.Config
	gateways := make(map[string]strategy.Gateway)
	parsers := make(map[string]strategy.NotifyParser)
	wrap := func(gw strategy.Gateway) strategy.Gateway {
		return strategy.NewResilient(gw, cfg.Gateway, ctx.Metrics, ctx.Logger)
	}

	if cfg.Bank.AccountNo != "" {
		if bank, err := strategy.NewBankStrategy(cfg.Bank); err != nil {
			ctx.Logger.Error("init bank strategy failed", zap.Error(err))
		} else {
			gateways[bank.Channel()] = wrap(bank)
		}
	}

	if cfg.Alipay.AppID != "" {
		if ali, err := strategy.NewAlipayStrategy(cfg.Alipay); err != nil {
			ctx.Logger.Error("init alipay strategy failed", zap.Error(err))
		} else {
			gateways[ali.Channel()] = wrap(ali)
			parsers[ali.Channel()] = ali
		}
	}

	if cfg.Wechat.MchID != "" {
		if wx, err := strategy.NewWechatStrategy(context.Background(), cfg.Wechat); err != nil {
			ctx.Logger.Error("init wechat strategy failed", zap.Error(err))
		} else {
			gateways[wx.Channel()] = wrap(wx)
			parsers[wx.Channel()] = wx
		}
	}
	return gateways, parsers
}
