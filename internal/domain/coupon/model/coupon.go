package model

import (
	"strings"
	"time"

	baseModel "course_commerce/pkg/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Type 优惠方式
type Type string

const (
	TypePercentage  Type = "PERCENTAGE"
	TypeFixedAmount Type = "FIXED_AMOUNT"
)

func (t Type) Valid() bool {
	return t == TypePercentage || t == TypeFixedAmount
}

// ApplicableAll 适用于所有资源类型
const ApplicableAll = "ALL"

// Coupon 优惠码
// usage_count 只在支付确认时原子自增，永不回退
type Coupon struct {
	baseModel.BaseModel
	Code         string                      `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Type         Type                        `gorm:"type:varchar(16);not null" json:"type"`
	Value        int64                       `gorm:"not null" json:"value"`
	ApplicableTo datatypes.JSONSlice[string] `gorm:"type:jsonb;not null" json:"applicableTo"`
	ExpiresAt    *time.Time                  `json:"expiresAt,omitempty"`
	UsageLimit   int                         `gorm:"not null;default:0" json:"usageLimit"` // 0 = 不限
	UsageCount   int                         `gorm:"not null;default:0" json:"usageCount"`
	IsActive     bool                        `gorm:"not null;default:true" json:"isActive"`
}

func (Coupon) TableName() string { return "coupons" }

// BeforeSave 统一大写存储
func (c *Coupon) BeforeSave(tx *gorm.DB) error {
	c.Code = NormalizeCode(c.Code)
	return nil
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// AppliesTo resourceTag 或 ALL 在适用列表中
func (c *Coupon) AppliesTo(resourceTag string) bool {
	for _, t := range c.ApplicableTo {
		t = strings.ToUpper(t)
		if t == ApplicableAll || t == strings.ToUpper(resourceTag) {
			return true
		}
	}
	return false
}

// Exhausted usage_limit > 0 且已用满
func (c *Coupon) Exhausted() bool {
	return c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit
}
