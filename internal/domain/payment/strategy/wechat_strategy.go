package strategy

import (
	"context"
	"errors"
	"net/http"

	"course_commerce/internal/pkg/config"

	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/core/auth/verifiers"
	"github.com/wechatpay-apiv3/wechatpay-go/core/downloader"
	"github.com/wechatpay-apiv3/wechatpay-go/core/notify"
	"github.com/wechatpay-apiv3/wechatpay-go/core/option"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/native"
	"github.com/wechatpay-apiv3/wechatpay-go/utils"
)

// WechatStrategy Native 支付，返回 code_url
type WechatStrategy struct {
	client  *core.Client
	config  config.WechatPayConfig
	handler *notify.Handler
}

func NewWechatStrategy(ctx context.Context, cfg config.WechatPayConfig) (*WechatStrategy, error) {
	if cfg.MchID == "" {
		return nil, errors.New("wechat pay config missing")
	}

	// 1. 加载商户私钥
	mchPrivateKey, err := utils.LoadPrivateKey(cfg.MchPrivateKey)
	if err != nil {
		return nil, err
	}

	// 2. 初始化 Client（自动下载平台证书）
	client, err := core.NewClient(ctx,
		option.WithWechatPayAutoAuthCipher(cfg.MchID, cfg.MchCertificateSerial, mchPrivateKey, cfg.APIv3Key))
	if err != nil {
		return nil, err
	}

	// 3. 回调验签
	certVisitor := downloader.MgrInstance().GetCertificateVisitor(cfg.MchID)
	handler := notify.NewNotifyHandler(cfg.APIv3Key, verifiers.NewSHA256WithRSAVerifier(certVisitor))

	return &WechatStrategy{
		client:  client,
		config:  cfg,
		handler: handler,
	}, nil
}

func (s *WechatStrategy) Channel() string { return "wechat" }

func (s *WechatStrategy) CreateQR(ctx context.Context, req QRRequest) (string, error) {
	svc := native.NativeApiService{Client: s.client}
	resp, _, err := svc.Prepay(ctx, native.PrepayRequest{
		Appid:       core.String(s.config.AppID),
		Mchid:       core.String(s.config.MchID),
		Description: core.String(req.Description),
		OutTradeNo:  core.String(req.TransferCode),
		NotifyUrl:   core.String(s.config.NotifyURL),
		Amount: &native.Amount{
			Total: core.Int64(req.Amount),
		},
	})
	if err != nil {
		return "", err
	}
	if resp.CodeUrl == nil {
		return "", errors.New("wechat prepay returned no code_url")
	}
	return *resp.CodeUrl, nil
}

func (s *WechatStrategy) ParseNotify(ctx context.Context, req *http.Request) (*Notification, error) {
	transaction := new(payments.Transaction)
	if _, err := s.handler.ParseNotifyRequest(ctx, req, transaction); err != nil {
		return nil, err
	}
	if transaction.OutTradeNo == nil || transaction.Amount == nil || transaction.Amount.Total == nil {
		return nil, errors.New("wechat notify missing fields")
	}

	n := &Notification{
		TransferCode: *transaction.OutTradeNo,
		Amount:       *transaction.Amount.Total,
		Success:      transaction.TradeState != nil && *transaction.TradeState == "SUCCESS",
	}
	if transaction.TransactionId != nil {
		n.ExternalTxnID = *transaction.TransactionId
	}
	return n, nil
}

var (
	_ Gateway      = (*WechatStrategy)(nil)
	_ NotifyParser = (*WechatStrategy)(nil)
)
