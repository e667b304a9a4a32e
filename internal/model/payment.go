package model

// Wire types for the YooKassa payments API (v3), electronic_certificate
// payment method. Field names follow the API schema.

const (
	CurrencyRUB = "RUB"

	PaymentMethodElectronicCertificate = "electronic_certificate"

	ConfirmationTypeRedirect = "redirect"
)

type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Article is one payment line of an electronic-certificate payment.
// TRUCode is mandatory upstream; lines without one are never built.
type Article struct {
	ArticleNumber int     `json:"article_number"`
	TRUCode       string  `json:"tru_code"`
	ArticleCode   string  `json:"article_code,omitempty"`
	ArticleName   string  `json:"article_name"`
	Quantity      float64 `json:"quantity"`
	Price         Amount  `json:"price"`
}

type ReceiptCustomer struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ReceiptItem is a 54-FZ receipt position. Amount.Value is the per-unit
// price, not the line total.
type ReceiptItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Amount      Amount  `json:"amount"`
	VATCode     int     `json:"vat_code"`
}

type Receipt struct {
	Customer      ReceiptCustomer `json:"customer"`
	Items         []ReceiptItem   `json:"items"`
	TaxSystemCode int             `json:"tax_system_code,omitempty"`
}

type PaymentMethodData struct {
	Type string `json:"type"`
}

type Confirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type CreatePaymentRequest struct {
	Amount            Amount            `json:"amount"`
	PaymentMethodData PaymentMethodData `json:"payment_method_data"`
	Articles          []Article         `json:"articles,omitempty"`
	Receipt           *Receipt          `json:"receipt,omitempty"`
	Confirmation      Confirmation      `json:"confirmation"`
	Capture           bool              `json:"capture"`
	Description       string            `json:"description,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

type Payment struct {
	ID           string        `json:"id"`
	Status       string        `json:"status"`
	Paid         bool          `json:"paid"`
	Amount       Amount        `json:"amount"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}
