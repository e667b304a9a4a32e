package client

import (
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

type InsalesClient interface {
	FetchOrder(ctx context.Context, orderID string) (*model.Order, error)
	// FetchVariantInfo resolves the SKU/barcode of one variant from the
	// product card. A variant that is not on the card is a normal
	// outcome (found=false), not an error.
	FetchVariantInfo(ctx context.Context, productID, variantID string) (VariantInfo, bool, error)
}

type VariantInfo struct {
	SKU     string
	Barcode string
}

type insalesClientImpl struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	apiPassword string
}

func NewInsalesClient(insalesCfg *config.Insales) InsalesClient {
	return &insalesClientImpl{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:     insalesCfg.ResolveBaseURL(),
		apiKey:      insalesCfg.APIKey,
		apiPassword: insalesCfg.APIPassword,
	}
}

func (c *insalesClientImpl) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, c.apiPassword)
	req.Header.Set("Accept", "application/json")

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
		return nil, fmt.Errorf("insales error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *insalesClientImpl) FetchOrder(ctx context.Context, orderID string) (*model.Order, error) {
	body, err := c.get(ctx, "/admin/orders/"+url.PathEscape(orderID)+".json")
	if err != nil {
		return nil, fmt.Errorf("fetch order %s: %w", orderID, err)
	}

	// some API versions wrap the document in {"order": {...}}
	var wrapper struct {
		Order json.RawMessage `json:"order"`
	}
	raw := body
	if err := json.Unmarshal(body, &wrapper); err == nil && len(wrapper.Order) > 0 {
		raw = wrapper.Order
	}

	order, err := model.ParseOrder(raw)
	if err != nil {
		return nil, fmt.Errorf("fetch order %s: %w", orderID, err)
	}
	return order, nil
}

func (c *insalesClientImpl) FetchVariantInfo(ctx context.Context, productID, variantID string) (VariantInfo, bool, error) {
	body, err := c.get(ctx, "/admin/products/"+url.PathEscape(productID)+".json")
	if err != nil {
		return VariantInfo{}, false, fmt.Errorf("fetch product %s: %w", productID, err)
	}

	var wrapper struct {
		Product json.RawMessage `json:"product"`
	}
	raw := body
	if err := json.Unmarshal(body, &wrapper); err == nil && len(wrapper.Product) > 0 {
		raw = wrapper.Product
	}

	product, err := model.ParseProduct(raw)
	if err != nil {
		return VariantInfo{}, false, fmt.Errorf("fetch product %s: %w", productID, err)
	}

	variant, found := product.FindVariant(variantID)
	if !found {
		return VariantInfo{}, false, nil
	}
	return VariantInfo{SKU: variant.SKU, Barcode: variant.Barcode}, true, nil
}
