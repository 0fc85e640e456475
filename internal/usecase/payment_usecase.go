package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 署名不一致と注文不明は同じメッセージにする（注文の存在を漏らさない）
const verifyFailedMessage = "payment verification failed"

// PaymentUsecase はゲートウェイのコールバックを検証して
// 支払いと注文を終端状態（PAID/CONFIRMED）へ進める。
type PaymentUsecase struct {
	tx     repo.TransactionManager
	secret string
}

func NewPaymentUsecase(tx repo.TransactionManager, secret string) *PaymentUsecase {
	return &PaymentUsecase{tx: tx, secret: secret}
}

type VerifyPaymentInput struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Signature        string `json:"signature"`
}

type VerifyPaymentOutput struct {
	Success bool  `json:"success"`
	OrderID int64 `json:"order_id"`
}

// VerifyPayment はコールバックの署名を検証して状態を確定させる。
// 少なくとも1回配送の前提なので、PAID済みの支払いへの再送は成功として扱い
// 何も書き換えない。検証と状態遷移は支払い行のロック下で1トランザクション。
func (u *PaymentUsecase) VerifyPayment(ctx context.Context, in VerifyPaymentInput) (VerifyPaymentOutput, error) {
	if in.GatewayOrderID == "" || in.GatewayPaymentID == "" || in.Signature == "" {
		return VerifyPaymentOutput{}, NewHTTPError(http.StatusBadRequest, "invalid input")
	}

	var out VerifyPaymentOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Payments().FindByGatewayOrderIDForUpdate(ctx, in.GatewayOrderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, verifyFailedMessage)
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if p.Status == model.PaymentStatusPaid {
			//再送コールバック。状態は触らない
			out = VerifyPaymentOutput{Success: true, OrderID: p.OrderID}
			return nil
		}

		if !validSignature(u.secret, in.GatewayOrderID, in.GatewayPaymentID, in.Signature) {
			return NewHTTPError(http.StatusBadRequest, verifyFailedMessage)
		}

		raw, err := json.Marshal(in)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "internal error")
		}

		if err := r.Payments().MarkPaid(ctx, p.ID, in.GatewayPaymentID, string(raw)); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().MarkConfirmedPaid(ctx, p.OrderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Events().Create(ctx, model.CheckoutEvent{
			OrderID:   p.OrderID,
			Kind:      model.CheckoutEventVerified,
			Detail:    fmt.Sprintf("gateway_payment_id=%s", in.GatewayPaymentID),
			CreatedAt: time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = VerifyPaymentOutput{Success: true, OrderID: p.OrderID}
		return nil
	})

	if err != nil {
		return VerifyPaymentOutput{}, err
	}
	return out, nil
}

// 期待値は "{gateway_order_id}|{gateway_payment_id}" のHMAC-SHA256（小文字hex）。
// 比較は必ず固定時間で行う。
func validSignature(secret string, gatewayOrderID string, gatewayPaymentID string, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
