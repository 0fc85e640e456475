package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"app/internal/infra/gateway"

	"github.com/stretchr/testify/assert"
)

func TestRazorpayClient_CreateOrder_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)

		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(19950), req["amount"])
		assert.Equal(t, "INR", req["currency"])
		assert.Equal(t, "order_21", req["receipt"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_gw_abc",
			"amount":   19950,
			"currency": "INR",
			"receipt":  "order_21",
			"status":   "created",
		})
	}))
	defer srv.Close()

	c := gateway.NewRazorpayClient(srv.URL, "rzp_test_key", "rzp_test_secret")

	out, err := c.CreateOrder(context.Background(), 19950, "INR", "order_21")
	assert.NoError(t, err)
	assert.Equal(t, "order_gw_abc", out.ID)
	assert.Equal(t, int64(19950), out.Amount)
	assert.Equal(t, "INR", out.Currency)
	assert.Equal(t, "created", out.Status)
}

func TestRazorpayClient_CreateOrder_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR"}}`))
	}))
	defer srv.Close()

	c := gateway.NewRazorpayClient(srv.URL, "bad_key", "bad_secret")

	_, err := c.CreateOrder(context.Background(), 100, "INR", "order_1")
	assert.Error(t, err)

	//生のボディがエラーに残ること
	var apiErr *gateway.APIError
	if assert.True(t, errors.As(err, &apiErr)) {
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Contains(t, apiErr.Body, "BAD_REQUEST_ERROR")
	}
}

func TestRazorpayClient_CreateOrder_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not-json`))
	}))
	defer srv.Close()

	c := gateway.NewRazorpayClient(srv.URL, "rzp_test_key", "rzp_test_secret")

	_, err := c.CreateOrder(context.Background(), 100, "INR", "order_1")
	assert.Error(t, err)
}

func TestRazorpayClient_CreateOrder_EmptyIDRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"amount":100,"currency":"INR"}`))
	}))
	defer srv.Close()

	c := gateway.NewRazorpayClient(srv.URL, "rzp_test_key", "rzp_test_secret")

	_, err := c.CreateOrder(context.Background(), 100, "INR", "order_1")
	assert.Error(t, err)
}
