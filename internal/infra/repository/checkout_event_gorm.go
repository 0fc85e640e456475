package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type CheckoutEventGormRepository struct {
	db *gorm.DB
}

func NewCheckoutEventGormRepository(db *gorm.DB) *CheckoutEventGormRepository {
	return &CheckoutEventGormRepository{db: db}
}

func (r *CheckoutEventGormRepository) Create(ctx context.Context, ev model.CheckoutEvent) error {
	return r.db.WithContext(ctx).Create(&ev).Error
}
