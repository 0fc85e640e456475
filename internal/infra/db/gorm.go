package db

import (
	"fmt"

	"app/internal/config"
	"app/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser,
		cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
	)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// Migrate はテーブルと、query-then-act競合を塞ぐ部分ユニークインデックスを作る。
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.CheckoutEvent{},
	); err != nil {
		return err
	}

	// ACTIVEカートとCREATED注文は1ユーザー1件
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_one_active_per_user
		   ON carts (user_id) WHERE status = 'ACTIVE'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_one_created_per_user
		   ON orders (user_id) WHERE status = 'CREATED'`,
	}
	for _, s := range stmts {
		if err := gormDB.Exec(s).Error; err != nil {
			return err
		}
	}

	return nil
}
