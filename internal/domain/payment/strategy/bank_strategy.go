package strategy

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"course_commerce/internal/pkg/config"
)

// BankStrategy VietQR 银行转账二维码，金额与备注码写入图片参数
// 到账由银行回调 webhook 确认
type BankStrategy struct {
	config config.BankConfig
}

func NewBankStrategy(cfg config.BankConfig) (*BankStrategy, error) {
	if cfg.BankID == "" || cfg.AccountNo == "" {
		return nil, errors.New("bank account config missing")
	}
	if cfg.QRBaseURL == "" {
		cfg.QRBaseURL = "https://img.vietqr.io/image"
	}
	if cfg.Template == "" {
		cfg.Template = "compact2"
	}
	return &BankStrategy{config: cfg}, nil
}

func (s *BankStrategy) Channel() string { return "bank" }

func (s *BankStrategy) CreateQR(ctx context.Context, req QRRequest) (string, error) {
	if req.TransferCode == "" {
		return "", errors.New("transfer code is required")
	}
	if req.Amount < 0 {
		return "", fmt.Errorf("invalid amount %d", req.Amount)
	}

	q := url.Values{}
	q.Set("amount", strconv.FormatInt(req.Amount, 10))
	q.Set("addInfo", req.TransferCode)
	if s.config.AccountName != "" {
		q.Set("accountName", s.config.AccountName)
	}

	image := fmt.Sprintf("%s-%s-%s.png",
		url.PathEscape(s.config.BankID), url.PathEscape(s.config.AccountNo), url.PathEscape(s.config.Template))
	return strings.TrimRight(s.config.QRBaseURL, "/") + "/" + image + "?" + q.Encode(), nil
}

var _ Gateway = (*BankStrategy)(nil)
