package model

import (
	"regexp"
	"strings"
	"time"

	catalogModel "course_commerce/internal/domain/catalog/model"
	baseModel "course_commerce/pkg/model"

	"gorm.io/datatypes"
)

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"

	ChannelBank   = "bank"
	ChannelAlipay = "alipay"
	ChannelWechat = "wechat"
)

// TransferCodePrefix 银行转账备注前缀
const TransferCodePrefix = "CC"

// Order 一次购买尝试（书籍、指标订阅、课程共用）
// 同一 (user, product) 最多一条 pending 订单，由部分唯一索引 uq_orders_pending 保证
type Order struct {
	baseModel.BaseModel
	UserID        string                       `gorm:"type:uuid;not null;index;uniqueIndex:uq_orders_pending,priority:1,where:status = 'pending'" json:"userId"`
	ProductType   catalogModel.ProductType     `gorm:"type:varchar(16);not null;uniqueIndex:uq_orders_pending,priority:2" json:"productType"`
	ProductID     string                       `gorm:"type:uuid;not null;uniqueIndex:uq_orders_pending,priority:3" json:"productId"`
	ProductName   string                       `gorm:"type:varchar(255)" json:"productName"`
	Status        string                       `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	TransferCode  string                       `gorm:"type:varchar(32);not null;uniqueIndex" json:"transferCode"`
	TotalAmount   int64                        `gorm:"not null" json:"totalAmount"`
	Channel       string                       `gorm:"type:varchar(16);not null" json:"channel"`
	QRCodeURL     string                       `gorm:"type:text" json:"qrCodeUrl"`
	Metadata      datatypes.JSONType[Metadata] `gorm:"type:jsonb" json:"metadata"`
	SalerID       *string                      `gorm:"type:uuid" json:"salerId,omitempty"`
	PaidAt        *time.Time                   `json:"paidAt,omitempty"`
	ExternalTxnID *string                      `gorm:"type:varchar(128)" json:"externalTxnId,omitempty"`
	StartAt       *time.Time                   `json:"startAt,omitempty"` // 指标订阅生效时间
	EndAt         *time.Time                   `json:"endAt,omitempty"`
}

func (Order) TableName() string { return "orders" }

// Contact 下单时的买家联系方式快照
type Contact struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone,omitempty"`
}

// Metadata 下单时冻结的价格明细
type Metadata struct {
	Price           int64   `json:"price"`
	DefaultDiscount int64   `json:"defaultDiscount"`
	BasePrice       int64   `json:"basePrice"`
	CouponCode      string  `json:"couponCode,omitempty"`
	CouponDiscount  int64   `json:"couponDiscount"`
	PaymentFee      int64   `json:"paymentFee"`
	PeriodDays      int     `json:"periodDays,omitempty"`
	Contact         Contact `json:"contact"`
}

// TransferCodeFor 由订单自身 id 推导转账备注码，仅含大写字母与数字
func TransferCodeFor(orderID string) string {
	hex := strings.ToUpper(strings.ReplaceAll(orderID, "-", ""))
	if len(hex) > 16 {
		hex = hex[:16]
	}
	return TransferCodePrefix + hex
}

var transferCodePattern = regexp.MustCompile(TransferCodePrefix + `[0-9A-F]{16}`)

// ExtractTransferCode 从银行流水备注中提取转账码，备注常被银行截断或混入其他文字
func ExtractTransferCode(content string) string {
	return transferCodePattern.FindString(strings.ToUpper(strings.ReplaceAll(content, " ", "")))
}

// IsPending 待支付
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}
