package model

import (
	"strings"

	"course_commerce/pkg/model"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// 佣金状态
const (
	StatusAvailable = "AVAILABLE"
	StatusWithdrawn = "WITHDRAWN"
)

// Saler 课程推广人
type Saler struct {
	model.BaseModel
	UserID      string                                         `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	Code        string                                         `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`
	DefaultRate decimal.Decimal                                `gorm:"type:numeric(5,2);not null" json:"defaultRate"` // 百分比
	CourseRates datatypes.JSONType[map[string]decimal.Decimal] `gorm:"type:jsonb" json:"courseRates"`
	IsActive    bool                                           `gorm:"not null;default:true" json:"isActive"`
}

func (Saler) TableName() string { return "salers" }

// NormalizeCode 推广码不区分大小写
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// RateFor 课程单独设置的比例优先，否则用默认比例
func (s *Saler) RateFor(courseID string) decimal.Decimal {
	if rate, ok := s.CourseRates.Data()[courseID]; ok {
		return rate
	}
	return s.DefaultRate
}

// Commission 订单支付时冻结的佣金快照，之后不随推广比例变化
type Commission struct {
	model.BaseModel
	OrderID     string          `gorm:"type:uuid;not null;uniqueIndex" json:"orderId"`
	SalerID     string          `gorm:"type:uuid;not null;index" json:"salerId"`
	BuyerID     string          `gorm:"type:uuid;not null" json:"buyerId"`
	CourseID    string          `gorm:"type:uuid;not null" json:"courseId"`
	OrderAmount int64           `gorm:"not null" json:"orderAmount"`
	Rate        decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"rate"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Status      string          `gorm:"type:varchar(16);not null;default:'AVAILABLE'" json:"status"`
}

func (Commission) TableName() string { return "commissions" }

// CommissionAmount 订单金额 × 比例 / 100，保留两位小数
func CommissionAmount(orderAmount int64, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(orderAmount).Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
}
