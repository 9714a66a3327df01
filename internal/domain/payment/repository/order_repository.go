package repository

import (
	"context"
	"time"

	catalogModel "course_commerce/internal/domain/catalog/model"
	"course_commerce/internal/domain/payment/model"
	"course_commerce/pkg/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaidUpdate pending → paid 时写入的字段
type PaidUpdate struct {
	PaidAt        time.Time
	ExternalTxnID string
	StartAt       *time.Time
	EndAt         *time.Time
}

// OrderRepository 订单存储；tx 为 nil 时使用默认连接
type OrderRepository interface {
	// FindPendingForUpdate 锁定 (user, product) 的 pending 订单
	FindPendingForUpdate(ctx context.Context, tx *gorm.DB, userID string, productType catalogModel.ProductType, productID string) (*model.Order, error)
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	// UpdatePending 覆盖复用订单的金额、明细与二维码，只作用于 pending 订单
	UpdatePending(ctx context.Context, tx *gorm.DB, order *model.Order) (bool, error)
	FindPendingByTransferCodeForUpdate(ctx context.Context, tx *gorm.DB, transferCode string) (*model.Order, error)
	FindByTransferCode(ctx context.Context, transferCode string) (*model.Order, error)
	// MarkPaid 条件更新 pending → paid，返回是否由本次调用完成转换
	MarkPaid(ctx context.Context, tx *gorm.DB, orderID string, u PaidUpdate) (bool, error)
	// DeletePending 只删除调用者自己的 pending 订单
	DeletePending(ctx context.Context, userID, orderID string) (bool, error)
	ListPaid(ctx context.Context, userID string, productType catalogModel.ProductType) ([]model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) FindPendingForUpdate(ctx context.Context, tx *gorm.DB, userID string, productType catalogModel.ProductType, productID string) (*model.Order, error) {
	var o model.Order
	err := database.Conn(ctx, r.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND product_type = ? AND product_id = ? AND status = ?",
			userID, productType, productID, model.OrderStatusPending).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return database.Conn(ctx, r.db, tx).Create(order).Error
}

func (r *orderRepository) UpdatePending(ctx context.Context, tx *gorm.DB, order *model.Order) (bool, error) {
	res := database.Conn(ctx, r.db, tx).Model(&model.Order{}).
		Where("id = ? AND status = ?", order.ID, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"product_name": order.ProductName,
			"total_amount": order.TotalAmount,
			"channel":      order.Channel,
			"qr_code_url":  order.QRCodeURL,
			"metadata":     order.Metadata,
			"saler_id":     order.SalerID,
			"updated_at":   time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepository) FindPendingByTransferCodeForUpdate(ctx context.Context, tx *gorm.DB, transferCode string) (*model.Order, error) {
	var o model.Order
	err := database.Conn(ctx, r.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("transfer_code = ? AND status = ?", transferCode, model.OrderStatusPending).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) FindByTransferCode(ctx context.Context, transferCode string) (*model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).Where("transfer_code = ?", transferCode).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, tx *gorm.DB, orderID string, u PaidUpdate) (bool, error) {
	updates := map[string]interface{}{
		"status":          model.OrderStatusPaid,
		"paid_at":         u.PaidAt,
		"external_txn_id": u.ExternalTxnID,
		"updated_at":      u.PaidAt,
	}
	if u.StartAt != nil {
		updates["start_at"] = *u.StartAt
	}
	if u.EndAt != nil {
		updates["end_at"] = *u.EndAt
	}
	res := database.Conn(ctx, r.db, tx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusPending).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepository) DeletePending(ctx context.Context, userID, orderID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status = ?", orderID, userID, model.OrderStatusPending).
		Delete(&model.Order{})
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepository) ListPaid(ctx context.Context, userID string, productType catalogModel.ProductType) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_type = ? AND status = ?", userID, productType, model.OrderStatusPaid).
		Order("paid_at DESC").
		Find(&orders).Error
	return orders, err
}
