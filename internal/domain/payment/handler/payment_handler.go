package handler

import (
	"net/http"
	"strings"

	catalogModel "course_commerce/internal/domain/catalog/model"
	"course_commerce/internal/domain/payment/model"
	"course_commerce/internal/domain/payment/service"
	"course_commerce/internal/domain/payment/strategy"
	userModel "course_commerce/internal/domain/user/model"
	"course_commerce/internal/pkg/middleware"
	"course_commerce/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	checkout service.CheckoutService
	confirm  service.ConfirmationService
	parsers  map[string]strategy.NotifyParser
	logger   *zap.Logger
}

func NewPaymentHandler(checkout service.CheckoutService, confirm service.ConfirmationService, parsers map[string]strategy.NotifyParser, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{checkout: checkout, confirm: confirm, parsers: parsers, logger: logger}
}

// CheckoutInput 结账请求体，商品由路径决定
type CheckoutInput struct {
	Contact    userModel.BuyerContact `json:"contact" binding:"required"`
	CouponCode string                 `json:"couponCode"`
	SalerCode  string                 `json:"salerCode"`
	Channel    string                 `json:"channel" binding:"omitempty,oneof=bank alipay wechat"`
}

// BankWebhookInput 银行到账回调；transfer_code 缺失时从 content 中提取
type BankWebhookInput struct {
	TransferCode          string `json:"transfer_code"`
	Content               string `json:"content"`
	ExternalTransactionID string `json:"external_transaction_id" binding:"required"`
	Amount                int64  `json:"amount" binding:"required,gt=0"`
}

// Checkout 购买指定类型的商品
// @Summary 结账并生成付款二维码
// @Tags checkout
// @Router /api/v1/checkout/{type}/{id} [post]
func (h *PaymentHandler) Checkout(productType catalogModel.ProductType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Fail(c, response.ErrInvalidParam, err.Error())
			return
		}

		result, err := h.checkout.Checkout(c.Request.Context(), service.CheckoutInput{
			ProductType: productType,
			ProductID:   c.Param("id"),
			Contact:     input.Contact,
			CouponCode:  input.CouponCode,
			SalerCode:   input.SalerCode,
			Channel:     input.Channel,
		})
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.Success(c, result)
	}
}

// CancelOrder 取消自己的待支付订单
// @Summary 取消待支付订单
// @Tags checkout
// @Security Bearer
// @Router /api/v1/checkout/orders/{id} [delete]
func (h *PaymentHandler) CancelOrder(c *gin.Context) {
	if err := h.checkout.Cancel(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, true)
}

// OrderStatus 前端轮询支付结果
// @Summary 按转账码查询订单状态
// @Tags checkout
// @Router /api/v1/checkout/orders/{transfer_code} [get]
func (h *PaymentHandler) OrderStatus(c *gin.Context) {
	view, err := h.checkout.OrderStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, view)
}

// MySubscriptions 当前用户的指标订阅
// @Summary 我的指标订阅
// @Tags me
// @Security Bearer
// @Router /api/v1/me/subscriptions [get]
func (h *PaymentHandler) MySubscriptions(c *gin.Context) {
	subs, err := h.checkout.Subscriptions(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, subs)
}

// BankWebhook 银行到账回调（X-API-Key 鉴权）
// @Summary 银行转账到账通知
// @Tags payments
// @Router /api/v1/payments/webhook/bank [post]
func (h *PaymentHandler) BankWebhook(c *gin.Context) {
	var input BankWebhookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, response.ErrInvalidParam, err.Error())
		return
	}

	code := strings.ToUpper(strings.TrimSpace(input.TransferCode))
	if code == "" {
		code = model.ExtractTransferCode(input.Content)
	}
	if code == "" {
		// 与订单无关的流水，确认收到即可
		h.logger.Info("bank webhook without transfer code", zap.String("external_txn_id", input.ExternalTransactionID))
		response.Success(c, service.ConfirmResult{AlreadyProcessed: true})
		return
	}

	result, err := h.confirm.Confirm(c.Request.Context(), service.Confirmation{
		TransferCode:  code,
		ExternalTxnID: input.ExternalTransactionID,
		Amount:        input.Amount,
		Channel:       model.ChannelBank,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}

// AlipayNotify 支付宝异步通知
// @Summary 支付宝回调
// @Tags payments
// @Router /api/v1/payments/notify/alipay [post]
func (h *PaymentHandler) AlipayNotify(c *gin.Context) {
	// 支付宝只认纯文本 success，其余响应都会重试
	if err := h.handleNotify(c, model.ChannelAlipay); err != nil {
		c.String(http.StatusOK, "fail")
		return
	}
	c.String(http.StatusOK, "success")
}

// WechatNotify 微信支付回调
// @Summary 微信支付回调
// @Tags payments
// @Router /api/v1/payments/notify/wechat [post]
func (h *PaymentHandler) WechatNotify(c *gin.Context) {
	if err := h.handleNotify(c, model.ChannelWechat); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "FAIL", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "SUCCESS", "message": "OK"})
}

func (h *PaymentHandler) handleNotify(c *gin.Context, channel string) error {
	parser, ok := h.parsers[channel]
	if !ok {
		return service.ErrUnsupportedChannel
	}
	n, err := parser.ParseNotify(c.Request.Context(), c.Request)
	if err != nil {
		h.logger.Warn("invalid payment notification", zap.String("channel", channel), zap.Error(err))
		return err
	}
	if !n.Success {
		h.logger.Info("payment notification not successful",
			zap.String("channel", channel), zap.String("transfer_code", n.TransferCode))
		return nil
	}
	_, err = h.confirm.Confirm(c.Request.Context(), service.Confirmation{
		TransferCode:  n.TransferCode,
		ExternalTxnID: n.ExternalTxnID,
		Amount:        n.Amount,
		Channel:       channel,
	})
	return err
}
