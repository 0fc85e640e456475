package model

import "time"

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
)

type PaymentStatus string

const (
	PaymentStatusCreated PaymentStatus = "CREATED"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// grand_total = sub_total - discount_total
// CREATEDの注文は1ユーザー1件（部分ユニークインデックスで保証）。
// gateway_order_idはゲートウェイ注文作成時に一度だけ設定される。
type Order struct {
	ID             int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64         `gorm:"not null;index" json:"user_id"`
	SubTotal       float64       `gorm:"not null" json:"sub_total"`
	DiscountTotal  float64       `gorm:"not null" json:"discount_total"`
	GrandTotal     float64       `gorm:"not null" json:"grand_total"`
	Status         OrderStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);not null" json:"payment_status"`
	GatewayOrderID string        `gorm:"type:varchar(64);index" json:"gateway_order_id"`
	CreatedAt      time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
