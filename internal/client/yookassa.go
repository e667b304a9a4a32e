package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"yookassa-es-bridge/internal/config"
	"yookassa-es-bridge/internal/model"
)

type YookassaClient interface {
	// CreatePayment submits one payment-creation call. The idempotence
	// key is supplied by the caller and must be fresh per attempt.
	CreatePayment(ctx context.Context, req *model.CreatePaymentRequest, idempotenceKey string) (*model.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*model.Payment, error)
}

type yookassaClientImpl struct {
	httpClient *http.Client
	baseURL    string
	shopID     string
	secretKey  string
}

func NewYookassaClient(ykCfg *config.Yookassa) YookassaClient {
	return &yookassaClientImpl{
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		baseURL:   ykCfg.BaseURL,
		shopID:    ykCfg.ShopID,
		secretKey: ykCfg.SecretKey,
	}
}

func (c *yookassaClientImpl) CreatePayment(ctx context.Context, payReq *model.CreatePaymentRequest, idempotenceKey string) (*model.Payment, error) {
	body, err := json.Marshal(payReq)
	if err != nil {
		return nil, fmt.Errorf("marshal payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v3/payments",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.SetBasicAuth(c.shopID, c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotence-Key", idempotenceKey)

	return c.do(req)
}

func (c *yookassaClientImpl) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v3/payments/"+url.PathEscape(paymentID), nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.SetBasicAuth(c.shopID, c.secretKey)

	return c.do(req)
}

func (c *yookassaClientImpl) do(req *http.Request) (*model.Payment, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// the upstream body is kept verbatim for operator diagnosis
		return nil, fmt.Errorf("yookassa error %d: %s", resp.StatusCode, string(body))
	}

	var payment model.Payment
	if err := json.Unmarshal(body, &payment); err != nil {
		return nil, fmt.Errorf("decode yookassa response: %w", err)
	}
	return &payment, nil
}
