package strategy

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"course_commerce/internal/pkg/config"

	"github.com/smartwalle/alipay/v3"
)

// AlipayStrategy 当面付预下单，返回二维码内容
type AlipayStrategy struct {
	client *alipay.Client
	config config.AlipayConfig
}

func NewAlipayStrategy(cfg config.AlipayConfig) (*AlipayStrategy, error) {
	if cfg.AppID == "" {
		return nil, errors.New("alipay config missing")
	}

	client, err := alipay.New(cfg.AppID, cfg.PrivateKey, cfg.IsProduction)
	if err != nil {
		return nil, err
	}

	// 加载支付宝公钥 (用于验证签名)
	if err = client.LoadAliPayPublicKey(cfg.PublicKey); err != nil {
		return nil, err
	}

	return &AlipayStrategy{
		client: client,
		config: cfg,
	}, nil
}

func (s *AlipayStrategy) Channel() string { return "alipay" }

// CreateQR 以转账备注码作为商户订单号
func (s *AlipayStrategy) CreateQR(ctx context.Context, req QRRequest) (string, error) {
	p := alipay.TradePreCreate{}
	p.NotifyURL = s.config.NotifyURL
	p.Subject = req.Description
	p.OutTradeNo = req.TransferCode
	p.TotalAmount = toMajor(req.Amount)

	rsp, err := s.client.TradePreCreate(ctx, p)
	if err != nil {
		return "", err
	}
	if rsp.Code != alipay.CodeSuccess {
		return "", fmt.Errorf("alipay precreate: %s %s", rsp.Code, rsp.SubMsg)
	}
	return rsp.QRCode, nil
}

// ParseNotify 验签；TRADE_SUCCESS 或 TRADE_FINISHED 视为成功
func (s *AlipayStrategy) ParseNotify(ctx context.Context, req *http.Request) (*Notification, error) {
	if err := req.ParseForm(); err != nil {
		return nil, err
	}

	noti, err := s.client.DecodeNotification(req.Form)
	if err != nil {
		return nil, err
	}

	amount, err := toMinor(noti.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("alipay notify amount %q: %w", noti.TotalAmount, err)
	}

	return &Notification{
		TransferCode:  noti.OutTradeNo,
		ExternalTxnID: noti.TradeNo,
		Amount:        amount,
		Success:       noti.TradeStatus == alipay.TradeStatusSuccess || noti.TradeStatus == alipay.TradeStatusFinished,
	}, nil
}

var (
	_ Gateway      = (*AlipayStrategy)(nil)
	_ NotifyParser = (*AlipayStrategy)(nil)
)
