package model

import "time"

// ローカル注文とゲートウェイ注文を対応づける支払いレコード。
// amountはゲートウェイの最小通貨単位（パイサ等）の整数。
// gateway_payment_idとraw_payloadは検証成功時にのみ入る。
type Payment struct {
	ID               int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID          int64         `gorm:"not null;index" json:"order_id"`
	GatewayOrderID   string        `gorm:"type:varchar(64);not null;uniqueIndex" json:"gateway_order_id"`
	GatewayPaymentID string        `gorm:"type:varchar(64)" json:"gateway_payment_id"`
	Amount           int64         `gorm:"not null" json:"amount"`
	Status           PaymentStatus `gorm:"type:varchar(20);not null" json:"status"`
	RawPayload       string        `gorm:"type:text" json:"-"`
	CreatedAt        time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
