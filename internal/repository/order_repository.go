package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	// リトライで同じ注文を返すための検索（CREATEDは1ユーザー1件）
	FindCreatedByUserID(ctx context.Context, userID int64) (model.Order, bool, error)
	// ゲートウェイ注文作成後の一度きりの紐付け
	SetGatewayOrderID(ctx context.Context, orderID int64, gatewayOrderID string) error
	// 検証成功時の終端遷移（status=CONFIRMED, payment_status=PAID）
	MarkConfirmedPaid(ctx context.Context, orderID int64) error
}
