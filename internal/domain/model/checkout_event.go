package model

import "time"

type CheckoutEventKind string

const (
	CheckoutEventInitiated CheckoutEventKind = "CHECKOUT_INITIATED"
	CheckoutEventVerified  CheckoutEventKind = "PAYMENT_VERIFIED"
	CheckoutEventOrphaned  CheckoutEventKind = "ORPHANED_GATEWAY_ORDER"
)

// チェックアウトの追記専用の監査ログ。
// ORPHANED_GATEWAY_ORDERはゲートウェイ側に注文が残ったままローカル書き込みが
// 失敗したケースで、運用側の照合対象になる。
type CheckoutEvent struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64             `gorm:"not null;index" json:"order_id"`
	Kind      CheckoutEventKind `gorm:"type:varchar(40);not null" json:"kind"`
	Detail    string            `gorm:"type:text" json:"detail"`
	CreatedAt time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
}
