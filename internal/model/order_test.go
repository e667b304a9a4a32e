package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrder_LineItems(t *testing.T) {
	raw := `{
		"id": 1,
		"number": "A1",
		"email": "x@y.com",
		"line_items": [
			{"title": "Cap", "sku": "SKU1", "price": 100, "quantity": 2}
		]
	}`

	order, err := ParseOrder([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "1", order.ID)
	assert.Equal(t, "A1", order.Number)
	assert.Equal(t, "x@y.com", order.Email)
	require.Len(t, order.Lines, 1)

	li := order.Lines[0]
	assert.Equal(t, "Cap", li.Title)
	assert.Equal(t, "SKU1", li.SKU)
	assert.Equal(t, "2", li.Quantity.String())
	assert.Equal(t, "100.00", li.UnitPrice.StringFixed(2))
}

func TestParseOrder_OrderLinesFallback(t *testing.T) {
	raw := `{"id": "42", "order_lines": [{"title": "Hat", "price": "5.50"}]}`

	order, err := ParseOrder([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "42", order.ID)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "5.50", order.Lines[0].UnitPrice.StringFixed(2))
}

func TestParseOrder_QuantityDefaultsToOne(t *testing.T) {
	for name, raw := range map[string]string{
		"missing":     `{"id": 1, "line_items": [{"title": "T", "price": 1}]}`,
		"null":        `{"id": 1, "line_items": [{"title": "T", "price": 1, "quantity": null}]}`,
		"non-numeric": `{"id": 1, "line_items": [{"title": "T", "price": 1, "quantity": "many"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			order, err := ParseOrder([]byte(raw))
			require.NoError(t, err)
			require.Len(t, order.Lines, 1)
			assert.Equal(t, "1", order.Lines[0].Quantity.String())
		})
	}
}

func TestParseOrder_SalePriceWinsEvenWhenZero(t *testing.T) {
	raw := `{"id": 1, "line_items": [{"title": "T", "sale_price": 0, "price": 99}]}`

	order, err := ParseOrder([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "0.00", order.Lines[0].UnitPrice.StringFixed(2))
}

func TestParseOrder_MissingPricesDefaultToZero(t *testing.T) {
	raw := `{"id": 1, "line_items": [{"title": "T"}]}`

	order, err := ParseOrder([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "0.00", order.Lines[0].UnitPrice.StringFixed(2))
}

func TestParseOrder_NestedVariant(t *testing.T) {
	raw := `{
		"id": 7,
		"line_items": [
			{"title": "T", "variant": {"id": 333, "sku": "VSKU", "barcode": "4600000000001"}}
		]
	}`

	order, err := ParseOrder([]byte(raw))
	require.NoError(t, err)

	li := order.Lines[0]
	assert.Equal(t, "VSKU", li.VariantSKU)
	assert.Equal(t, "4600000000001", li.VariantBarcode)
	assert.Equal(t, "333", li.VariantID, "variant id picked up from nested object when absent on the line")
}

func TestParseOrder_NumericIDsBecomeStrings(t *testing.T) {
	raw := `{"id": 1, "line_items": [{"title": "T", "product_id": 10, "variant_id": "20"}]}`

	order, err := ParseOrder([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "10", order.Lines[0].ProductID)
	assert.Equal(t, "20", order.Lines[0].VariantID)
}

func TestParseOrder_BuyerUnderClientOrCustomer(t *testing.T) {
	withClient := `{"id": 1, "client": {"email": "c@x.ru", "phone": "89991234567"}}`
	withCustomer := `{"id": 1, "customer": {"email": "cu@x.ru"}}`
	both := `{"id": 1, "client": {"email": "c@x.ru"}, "customer": {"email": "cu@x.ru"}}`

	order, err := ParseOrder([]byte(withClient))
	require.NoError(t, err)
	assert.Equal(t, "c@x.ru", order.Client.Email)
	assert.Equal(t, "89991234567", order.Client.Phone)

	order, err = ParseOrder([]byte(withCustomer))
	require.NoError(t, err)
	assert.Equal(t, "cu@x.ru", order.Client.Email)

	order, err = ParseOrder([]byte(both))
	require.NoError(t, err)
	assert.Equal(t, "c@x.ru", order.Client.Email, "client takes precedence over customer")
}

func TestParseOrder_Addresses(t *testing.T) {
	raw := `{
		"id": 1,
		"shipping_address": {"email": "s@x.ru", "phone": "111"},
		"billing_address": {"email": "b@x.ru"},
		"address": {"phone": "222"}
	}`

	order, err := ParseOrder([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "s@x.ru", order.ShippingAddress.Email)
	assert.Equal(t, "b@x.ru", order.BillingAddress.Email)
	assert.Equal(t, "222", order.DeliveryAddress.Phone)
}

func TestParseOrder_MissingID(t *testing.T) {
	order, err := ParseOrder([]byte(`{"number": "A1"}`))
	require.NoError(t, err)
	assert.Empty(t, order.ID)
}

func TestParseProduct_FindVariant(t *testing.T) {
	raw := `{
		"id": 10,
		"variants": [
			{"id": 500, "sku": "S-500", "barcode": ""},
			{"id": "501", "sku": "", "barcode": "4600000000002"}
		]
	}`

	product, err := ParseProduct([]byte(raw))
	require.NoError(t, err)

	v, ok := product.FindVariant("500")
	require.True(t, ok, "numeric variant id matches string lookup")
	assert.Equal(t, "S-500", v.SKU)

	v, ok = product.FindVariant("501")
	require.True(t, ok)
	assert.Equal(t, "4600000000002", v.Barcode)

	_, ok = product.FindVariant("999")
	assert.False(t, ok)
}
