package model

import (
	"strings"

	"course_commerce/pkg/model"
)

// ProductType 可售商品类型
type ProductType string

const (
	ProductBook      ProductType = "book"
	ProductIndicator ProductType = "indicator"
	ProductCourse    ProductType = "course"
)

func (t ProductType) Valid() bool {
	switch t {
	case ProductBook, ProductIndicator, ProductCourse:
		return true
	}
	return false
}

// ResourceTag 优惠券 applicable_to 使用的资源标签，如 BOOK
func (t ProductType) ResourceTag() string {
	return strings.ToUpper(string(t))
}

// 商品上架状态
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Book 电子书
type Book struct {
	model.BaseModel
	Title          string `gorm:"type:varchar(255);not null" json:"title"`
	Author         string `gorm:"type:varchar(255)" json:"author"`
	Description    string `gorm:"type:text" json:"description"`
	CoverURL       string `gorm:"type:varchar(512)" json:"coverUrl"`
	FileKey        string `gorm:"type:varchar(512)" json:"-"` // OSS object key
	Price          int64  `gorm:"not null" json:"price"`      // VND
	DiscountAmount int64  `gorm:"not null;default:0" json:"discountAmount"`
	Status         string `gorm:"type:varchar(16);not null;default:'active';index" json:"status"`
}

func (Book) TableName() string { return "books" }

// Indicator 交易指标订阅商品
type Indicator struct {
	model.BaseModel
	Name           string `gorm:"type:varchar(255);not null" json:"name"`
	Description    string `gorm:"type:text" json:"description"`
	ContactInfo    string `gorm:"type:text" json:"-"` // 订阅生效后才可见
	Price          int64  `gorm:"not null" json:"price"`
	DiscountAmount int64  `gorm:"not null;default:0" json:"discountAmount"`
	PeriodDays     int    `gorm:"not null;default:0" json:"periodDays"` // 0 表示使用全局配置
	Status         string `gorm:"type:varchar(16);not null;default:'active';index" json:"status"`
}

func (Indicator) TableName() string { return "indicators" }

// Product 结账视角下的统一商品
type Product struct {
	Type           ProductType `json:"type"`
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Price          int64       `json:"price"`
	DiscountAmount int64       `json:"discountAmount"`
	PeriodDays     int         `json:"periodDays,omitempty"`
}

// BasePrice 价格扣除商品自带折扣，不低于 0
func (p Product) BasePrice() int64 {
	base := p.Price - p.DiscountAmount
	if base < 0 {
		return 0
	}
	return base
}
