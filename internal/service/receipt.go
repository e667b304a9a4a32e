package service

import (
	"strings"

	"yookassa-es-bridge/internal/model"
)

// maxReceiptDescription is the field-length limit the fiscal operator
// enforces on item descriptions.
const maxReceiptDescription = 128

// buildReceipt builds the 54-FZ receipt: one item per order line (TRU-less
// lines included — the fiscal receipt covers the whole order) plus the
// customer contact block.
func (s *paymentServiceImpl) buildReceipt(order *model.Order) (*model.Receipt, error) {
	items := make([]model.ReceiptItem, 0, len(order.Lines))
	for _, li := range order.Lines {
		items = append(items, model.ReceiptItem{
			Description: truncate(articleName(li), maxReceiptDescription),
			Quantity:    li.Quantity.InexactFloat64(),
			Amount: model.Amount{
				Value:    li.UnitPrice.StringFixed(2),
				Currency: model.CurrencyRUB,
			},
			VATCode: s.cfg.Receipt.VATCode,
		})
	}

	email := resolveEmail(order)
	phone := resolvePhone(order)
	if email == "" && phone == "" && s.cfg.Receipt.RequireContact {
		return nil, ErrNoReceiptContact
	}

	receipt := &model.Receipt{
		Customer: model.ReceiptCustomer{Email: email, Phone: phone},
		Items:    items,
	}
	if ts := s.cfg.Receipt.TaxSystem; ts >= 1 && ts <= 6 {
		receipt.TaxSystemCode = ts
	}
	return receipt, nil
}

// resolveEmail scans the known email locations in priority order and picks
// the first value that looks like an address.
func resolveEmail(order *model.Order) string {
	candidates := []string{
		order.Email,
		order.NotificationEmail,
		order.Client.Email,
		order.ContactEmail,
		order.ShippingAddress.Email,
		order.BillingAddress.Email,
		order.DeliveryAddress.Email,
	}
	for _, c := range candidates {
		if strings.Contains(c, "@") {
			return c
		}
	}
	return ""
}

// resolvePhone scans the known phone locations in priority order; the
// first candidate that normalizes wins.
func resolvePhone(order *model.Order) string {
	candidates := []string{
		order.Phone,
		order.Client.Phone,
		order.ShippingAddress.Phone,
		order.BillingAddress.Phone,
		order.DeliveryAddress.Phone,
	}
	for _, c := range candidates {
		if p := normalizePhone(c); p != "" {
			return p
		}
	}
	return ""
}

// normalizePhone brings a free-form Russian phone to +7XXXXXXXXXX form.
// Returns "" when the input cannot be a valid number.
func normalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && b.Len() == 0 {
			b.WriteRune(r)
		}
	}
	stripped := b.String()
	digits := strings.TrimPrefix(stripped, "+")

	if strings.HasPrefix(stripped, "+") && len(digits) >= 11 {
		return stripped
	}
	switch {
	case len(digits) == 11 && digits[0] == '8':
		return "+7" + digits[1:]
	case len(digits) == 11 && digits[0] == '7':
		return "+" + digits
	case len(digits) == 10:
		return "+7" + digits
	}
	return ""
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
