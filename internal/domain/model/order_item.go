package model

import "time"

// 確定時点のスナップショット。後からカタログが変わっても注文内容は変わらない。
type OrderItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64     `gorm:"not null;index" json:"order_id"`
	ProductID   int64     `gorm:"not null;index" json:"product_id"`
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`
	Price       float64   `gorm:"not null" json:"price"`
	Quantity    int64     `gorm:"not null" json:"quantity"`
	ItemTotal   float64   `gorm:"not null" json:"item_total"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
