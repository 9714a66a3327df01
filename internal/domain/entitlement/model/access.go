package model

import (
	"time"

	"course_commerce/pkg/model"
)

// UserBookAccess 电子书访问权，(user_id, book_id) 唯一
// 撤销只改 Lifecycle，重新购买时恢复同一行
type UserBookAccess struct {
	model.BaseModel
	UserID    string          `gorm:"type:uuid;not null;uniqueIndex:uq_user_book_access,priority:1" json:"userId"`
	BookID    string          `gorm:"type:uuid;not null;uniqueIndex:uq_user_book_access,priority:2" json:"bookId"`
	OrderID   *string         `gorm:"type:uuid" json:"orderId,omitempty"`
	GrantedAt time.Time       `gorm:"not null" json:"grantedAt"`
	Lifecycle model.Lifecycle `gorm:"type:varchar(16);not null;default:'active'" json:"-"`
}

func (UserBookAccess) TableName() string { return "user_book_accesses" }

// OwnedBook 书架条目
type OwnedBook struct {
	BookID    string    `json:"bookId"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CoverURL  string    `json:"coverUrl"`
	GrantedAt time.Time `json:"grantedAt"`
}
