package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"app/internal/usecase"
)

// APIError はゲートウェイの非成功レスポンス。生のボディを診断用に持つ。
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway error (%d): %s", e.StatusCode, e.Body)
}

// RazorpayClient は支払いゲートウェイのREST APIを叩くだけのクライアント。
// ローカル状態は持たず、リトライもしない（リトライは呼び出し側の責務）。
type RazorpayClient struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewRazorpayClient(baseURL string, keyID string, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrder はゲートウェイ注文（支払いインテント）を作る。
// amountMinorUnitsは最小通貨単位の整数で渡すこと。ここでは換算しない。
func (c *RazorpayClient) CreateOrder(ctx context.Context, amountMinorUnits int64, currency string, receipt string) (usecase.GatewayOrder, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   amountMinorUnits,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return usecase.GatewayOrder{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return usecase.GatewayOrder{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return usecase.GatewayOrder{}, fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return usecase.GatewayOrder{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return usecase.GatewayOrder{}, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var out createOrderResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return usecase.GatewayOrder{}, fmt.Errorf("malformed gateway response: %w", err)
	}
	if out.ID == "" {
		return usecase.GatewayOrder{}, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return usecase.GatewayOrder{
		ID:       out.ID,
		Amount:   out.Amount,
		Currency: out.Currency,
		Receipt:  out.Receipt,
		Status:   out.Status,
	}, nil
}
