package model

import (
	"time"

	"course_commerce/pkg/model"
)

// 角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 用户模型
// 结账时按邮箱自动开户，首次登录须修改临时密码
type User struct {
	model.BaseModel
	Email              string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName           string          `gorm:"type:varchar(255)" json:"fullName"`
	Phone              string          `gorm:"type:varchar(32)" json:"phone"`
	PasswordHash       string          `gorm:"type:varchar(255);not null" json:"-"` // 密码不返回给前端
	MustChangePassword bool            `gorm:"not null;default:false" json:"mustChangePassword"`
	Role               string          `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Lifecycle          model.Lifecycle `gorm:"type:varchar(16);not null;default:'active'" json:"-"`
	LastLoginAt        *time.Time      `json:"lastLoginAt,omitempty"`
}

func (User) TableName() string { return "users" }

// BuyerContact 结账时提交的买家信息
type BuyerContact struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone"`
}
