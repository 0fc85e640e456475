package usecase

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/labstack/gommon/log"
)

// GatewayOrder は外部ゲートウェイに作られた支払いインテント。
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// PaymentGateway はチェックアウトが必要とする二つのうちの作成側の呼び出し。
// amountは最小通貨単位の整数で渡す。
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinorUnits int64, currency string, receipt string) (GatewayOrder, error)
}

// CheckoutUsecase はカート→注文→ゲートウェイ注文→支払いレコードまでの
// 「チェックアウト開始」フローを受け持つ。
type CheckoutUsecase struct {
	tx       repo.TransactionManager
	gateway  PaymentGateway
	currency string
	keyID    string
}

func NewCheckoutUsecase(tx repo.TransactionManager, gateway PaymentGateway, currency string, keyID string) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:       tx,
		gateway:  gateway,
		currency: currency,
		keyID:    keyID,
	}
}

type CheckoutOutput struct {
	OrderID        int64  `json:"order_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Key            string `json:"key"`
}

type OrderItemOutput struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	ItemTotal float64 `json:"item_total"`
}

type OrderOutput struct {
	ID             int64             `json:"id"`
	Status         string            `json:"status"`
	PaymentStatus  string            `json:"payment_status"`
	SubTotal       float64           `json:"sub_total"`
	DiscountTotal  float64           `json:"discount_total"`
	GrandTotal     float64           `json:"grand_total"`
	GatewayOrderID string            `json:"gateway_order_id"`
	CreatedAt      time.Time         `json:"created_at"`
	Items          []OrderItemOutput `json:"items"`
}

// CreateOrder はチェックアウトを開始する。リトライに対して冪等で、
// CREATEDの注文が既にあればそれをそのまま返す（再スナップショットしない）。
func (u *CheckoutUsecase) CreateOrder(ctx context.Context, userID int64) (CheckoutOutput, error) {
	if userID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var order model.Order

	//フェーズ1: ローカル注文の組み立て（1トランザクション）
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		existing, found, err := r.Orders().FindCreatedByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			//既存注文を返す。カートも価格も触らない
			order = existing
			return nil
		}

		//ACTIVEカートを行ロック付きで取得
		cart, err := r.Carts().FindActiveByUserIDForUpdate(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		//スナップショットと小計
		now := time.Now()
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		var subTotal float64 = 0

		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "invalid")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsActive {
				return NewHTTPError(http.StatusBadRequest, "invalid")
			}

			itemTotal := p.Price * float64(ci.Quantity)
			orderItems = append(orderItems, model.OrderItem{
				ProductID:   ci.ProductID,
				ProductName: p.Name,
				Price:       p.Price,
				Quantity:    ci.Quantity,
				ItemTotal:   itemTotal,
				CreatedAt:   now,
			})
			subTotal += itemTotal
		}

		var discountTotal float64 = 0
		newOrder := model.Order{
			UserID:        userID,
			SubTotal:      subTotal,
			DiscountTotal: discountTotal,
			GrandTotal:    subTotal - discountTotal,
			Status:        model.OrderStatusCreated,
			PaymentStatus: model.PaymentStatusCreated,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		orderID, err := r.Orders().Create(ctx, newOrder)
		if err != nil {
			//同時リクエストで先に作られていたら同じ結果を返す
			ex2, found2, err2 := r.Orders().FindCreatedByUserID(ctx, userID)
			if err2 == nil && found2 {
				order = ex2
				return nil
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートをCONVERTEDにして確定（以後は不変）
		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusConverted); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Events().Create(ctx, model.CheckoutEvent{
			OrderID:   orderID,
			Kind:      model.CheckoutEventInitiated,
			Detail:    fmt.Sprintf("cart %d converted, sub_total=%.2f", cart.ID, subTotal),
			CreatedAt: now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		newOrder.ID = orderID
		order = newOrder
		return nil
	})
	if err != nil {
		return CheckoutOutput{}, err
	}

	//最小通貨単位への換算はここで一度だけ。端数は持ち越さない
	amount := int64(math.Round(order.GrandTotal * 100))

	//リトライで既にゲートウェイ注文が紐付いていればそれを返す
	if order.GatewayOrderID != "" {
		return CheckoutOutput{
			OrderID:        order.ID,
			GatewayOrderID: order.GatewayOrderID,
			Amount:         amount,
			Currency:       u.currency,
			Key:            u.keyID,
		}, nil
	}

	//フェーズ2: ゲートウェイ注文作成（単発、リトライなし）
	gw, err := u.gateway.CreateOrder(ctx, amount, u.currency, fmt.Sprintf("order_%d", order.ID))
	if err != nil {
		log.Errorf("create gateway order failed for order %d: %v", order.ID, err)
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "payment gateway error")
	}

	//フェーズ3: 支払いレコード作成と注文への紐付け（1トランザクション）
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		now := time.Now()
		if _, err := r.Payments().Create(ctx, model.Payment{
			OrderID:        order.ID,
			GatewayOrderID: gw.ID,
			Amount:         amount,
			Status:         model.PaymentStatusCreated,
			CreatedAt:      now,
			UpdatedAt:      now,
		}); err != nil {
			return err
		}
		return r.Orders().SetGatewayOrderID(ctx, order.ID, gw.ID)
	})
	if err != nil {
		//ゲートウェイ側には注文が残っている。握りつぶさず記録して照合に回す
		log.Errorf("orphaned gateway order %s for local order %d: %v", gw.ID, order.ID, err)
		u.recordOrphan(ctx, order.ID, gw.ID, err)
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CheckoutOutput{
		OrderID:        order.ID,
		GatewayOrderID: gw.ID,
		Amount:         amount,
		Currency:       u.currency,
		Key:            u.keyID,
	}, nil
}

// 迷子になったゲートウェイ注文をベストエフォートで監査ログに残す。
func (u *CheckoutUsecase) recordOrphan(ctx context.Context, orderID int64, gatewayOrderID string, cause error) {
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		return r.Events().Create(ctx, model.CheckoutEvent{
			OrderID:   orderID,
			Kind:      model.CheckoutEventOrphaned,
			Detail:    fmt.Sprintf("gateway_order_id=%s: %v", gatewayOrderID, cause),
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		log.Errorf("record orphaned gateway order %s failed: %v", gatewayOrderID, err)
	}
}

func (u *CheckoutUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *CheckoutUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Price:     it.Price,
			Quantity:  it.Quantity,
			ItemTotal: it.ItemTotal,
		})
	}

	return OrderOutput{
		ID:             o.ID,
		Status:         string(o.Status),
		PaymentStatus:  string(o.PaymentStatus),
		SubTotal:       o.SubTotal,
		DiscountTotal:  o.DiscountTotal,
		GrandTotal:     o.GrandTotal,
		GatewayOrderID: o.GatewayOrderID,
		CreatedAt:      o.CreatedAt,
		Items:          outItems,
	}
}
