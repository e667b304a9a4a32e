package dto

import "yookassa-es-bridge/internal/model"

// CreatePaymentRequest is the standalone /create-payment entry point that
// bypasses the order platform: the caller supplies everything directly.
type CreatePaymentRequest struct {
	Amount      string            `json:"amount" validate:"required"`
	Currency    string            `json:"currency"`
	Articles    []model.Article   `json:"articles"`
	Receipt     *model.Receipt    `json:"receipt"`
	ReturnURL   string            `json:"return_url" validate:"required,url"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

type PaymentResponse struct {
	PaymentID       string `json:"payment_id"`
	Status          string `json:"status"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

// LineDiagnostics mirrors the fields TRU resolution looks at, so a shop
// operator can see why a line would or would not make it into a payment.
type LineDiagnostics struct {
	Title          string  `json:"title"`
	Quantity       float64 `json:"quantity"`
	Price          string  `json:"price"`
	SKUInLine      string  `json:"sku_in_line"`
	VariantSKU     string  `json:"variant_sku"`
	BarcodeInLine  string  `json:"barcode_in_line"`
	VariantBarcode string  `json:"variant_barcode"`
	ProductID      string  `json:"product_id"`
	VariantID      string  `json:"variant_id"`
}

type OrderDiagnostics struct {
	OrderID       string            `json:"order_id"`
	Number        string            `json:"number"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	ResolvedEmail string            `json:"resolved_email"`
	ResolvedPhone string            `json:"resolved_phone"`
	Lines         []LineDiagnostics `json:"lines"`
}
