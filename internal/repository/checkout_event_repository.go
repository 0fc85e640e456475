package repository

import (
	"context"

	"app/internal/domain/model"
)

type CheckoutEventRepository interface {
	Create(ctx context.Context, ev model.CheckoutEvent) error
}
