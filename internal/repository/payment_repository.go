package repository

import (
	"context"

	"app/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, p model.Payment) (int64, error)
	// 検証トランザクション内で行ロックを取って読む
	FindByGatewayOrderIDForUpdate(ctx context.Context, gatewayOrderID string) (model.Payment, error)
	MarkPaid(ctx context.Context, paymentID int64, gatewayPaymentID string, rawPayload string) error
}
