package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Order is the canonical form of an InSales order. The platform is loose
// about shapes (line_items vs order_lines, numbers sent as strings, contact
// fields scattered over nested objects), so everything is normalized here
// once, at the boundary, and business logic only ever sees this struct.
type Order struct {
	ID     string
	Number string

	Email             string
	Phone             string
	NotificationEmail string
	ContactEmail      string
	Client            Contact
	ShippingAddress   Address
	BillingAddress    Address
	DeliveryAddress   Address

	Lines []LineItem
}

type Contact struct {
	Name  string
	Email string
	Phone string
}

type Address struct {
	Email string
	Phone string
}

// LineItem carries already-defaulted values: Quantity falls back to 1 and
// UnitPrice to sale_price, then price, then zero.
type LineItem struct {
	Title          string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	SKU            string
	Barcode        string
	ProductID      string
	VariantID      string
	VariantSKU     string
	VariantBarcode string
}

// ProductVariant is the slice of an InSales product card the bridge cares
// about: the identifiers a variant can contribute to TRU resolution.
type ProductVariant struct {
	ID      string
	SKU     string
	Barcode string
}

type Product struct {
	ID       string
	Variants []ProductVariant
}

// FindVariant scans the variants list for a matching ID. IDs are compared
// as strings because the platform mixes numeric and string representations.
func (p *Product) FindVariant(variantID string) (ProductVariant, bool) {
	for _, v := range p.Variants {
		if v.ID == variantID {
			return v, true
		}
	}
	return ProductVariant{}, false
}

// flexID decodes an identifier that may arrive as a JSON number or string.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		s = ""
	}
	*id = flexID(s)
	return nil
}

// flexNumber decodes a JSON number or a numeric string. Values that cannot
// be coerced are left unset so callers fall back to their defaults.
type flexNumber struct {
	value decimal.Decimal
	ok    bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	n.value = d
	n.ok = true
	return nil
}

type contactDocument struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type addressDocument struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type variantDocument struct {
	ID      flexID `json:"id"`
	SKU     string `json:"sku"`
	Barcode string `json:"barcode"`
}

type lineDocument struct {
	Title     string           `json:"title"`
	Quantity  flexNumber       `json:"quantity"`
	SalePrice *flexNumber      `json:"sale_price"`
	Price     *flexNumber      `json:"price"`
	SKU       string           `json:"sku"`
	Barcode   string           `json:"barcode"`
	ProductID flexID           `json:"product_id"`
	VariantID flexID           `json:"variant_id"`
	Variant   *variantDocument `json:"variant"`
}

type orderDocument struct {
	ID                flexID           `json:"id"`
	Number            flexID           `json:"number"`
	Email             string           `json:"email"`
	Phone             string           `json:"phone"`
	NotificationEmail string           `json:"notification_email"`
	ContactEmail      string           `json:"contact_email"`
	Client            *contactDocument `json:"client"`
	Customer          *contactDocument `json:"customer"`
	User              *contactDocument `json:"user"`
	ShippingAddress   *addressDocument `json:"shipping_address"`
	BillingAddress    *addressDocument `json:"billing_address"`
	DeliveryAddress   *addressDocument `json:"address"`
	LineItems         []lineDocument   `json:"line_items"`
	OrderLines        []lineDocument   `json:"order_lines"`
}

// ParseOrder normalizes a raw InSales order document (already unwrapped
// from any top-level "order" key) into the canonical Order.
func ParseOrder(data []byte) (*Order, error) {
	var doc orderDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode order document: %w", err)
	}
	return doc.normalize(), nil
}

func (doc *orderDocument) normalize() *Order {
	o := &Order{
		ID:                string(doc.ID),
		Number:            string(doc.Number),
		Email:             doc.Email,
		Phone:             doc.Phone,
		NotificationEmail: doc.NotificationEmail,
		ContactEmail:      doc.ContactEmail,
	}

	// InSales exposes the buyer under client, customer or user depending
	// on the API version; the first present one wins.
	for _, c := range []*contactDocument{doc.Client, doc.Customer, doc.User} {
		if c != nil {
			o.Client = Contact{Name: c.Name, Email: c.Email, Phone: c.Phone}
			break
		}
	}
	if a := doc.ShippingAddress; a != nil {
		o.ShippingAddress = Address{Email: a.Email, Phone: a.Phone}
	}
	if a := doc.BillingAddress; a != nil {
		o.BillingAddress = Address{Email: a.Email, Phone: a.Phone}
	}
	if a := doc.DeliveryAddress; a != nil {
		o.DeliveryAddress = Address{Email: a.Email, Phone: a.Phone}
	}

	lines := doc.LineItems
	if len(lines) == 0 {
		lines = doc.OrderLines
	}
	o.Lines = make([]LineItem, 0, len(lines))
	for _, ld := range lines {
		o.Lines = append(o.Lines, ld.normalize())
	}
	return o
}

func (ld *lineDocument) normalize() LineItem {
	li := LineItem{
		Title:     ld.Title,
		Quantity:  decimal.NewFromInt(1),
		SKU:       ld.SKU,
		Barcode:   ld.Barcode,
		ProductID: string(ld.ProductID),
		VariantID: string(ld.VariantID),
	}
	if ld.Quantity.ok {
		li.Quantity = ld.Quantity.value
	}
	// sale_price wins over price even when it is zero; only absence
	// moves the fallback along.
	switch {
	case ld.SalePrice != nil && ld.SalePrice.ok:
		li.UnitPrice = ld.SalePrice.value
	case ld.Price != nil && ld.Price.ok:
		li.UnitPrice = ld.Price.value
	default:
		li.UnitPrice = decimal.Zero
	}
	if v := ld.Variant; v != nil {
		li.VariantSKU = v.SKU
		li.VariantBarcode = v.Barcode
		if li.VariantID == "" {
			li.VariantID = string(v.ID)
		}
	}
	return li
}

// ParseProduct normalizes a raw InSales product document (already
// unwrapped from any top-level "product" key).
func ParseProduct(data []byte) (*Product, error) {
	var doc struct {
		ID       flexID            `json:"id"`
		Variants []variantDocument `json:"variants"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode product document: %w", err)
	}
	p := &Product{ID: string(doc.ID)}
	p.Variants = make([]ProductVariant, 0, len(doc.Variants))
	for _, v := range doc.Variants {
		p.Variants = append(p.Variants, ProductVariant{
			ID:      string(v.ID),
			SKU:     v.SKU,
			Barcode: v.Barcode,
		})
	}
	return p, nil
}
