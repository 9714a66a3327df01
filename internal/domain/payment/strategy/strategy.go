package strategy

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

// QRRequest 以转账备注码为关联键请求付款二维码
type QRRequest struct {
	TransferCode string
	Amount       int64
	Description  string
}

// Gateway 付款二维码生成
type Gateway interface {
	Channel() string
	// CreateQR 返回二维码内容（图片地址或 code_url）
	CreateQR(ctx context.Context, req QRRequest) (string, error)
}

// Notification 渠道异步通知解析结果
type Notification struct {
	TransferCode  string
	ExternalTxnID string
	Amount        int64
	Success       bool
}

// NotifyParser 验签并解析渠道回调
type NotifyParser interface {
	ParseNotify(ctx context.Context, req *http.Request) (*Notification, error)
}

// toMajor 最小货币单位转两位小数金额字符串，如 12345 → "123.45"
func toMajor(amount int64) string {
	return decimal.New(amount, -2).StringFixed(2)
}

// toMinor "123.45" → 12345
func toMinor(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, err
	}
	return d.Shift(2).Round(0).IntPart(), nil
}
