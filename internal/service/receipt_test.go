package service

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yookassa-es-bridge/internal/model"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"89991234567", "+79991234567"},
		{"+7 (999) 123-45-67", "+79991234567"},
		{"79991234567", "+79991234567"},
		{"9991234567", "+79991234567"},
		{"8 (999) 123-45-67", "+79991234567"},
		{"+375 29 123-45-67", "+375291234567"}, // non-RU with enough digits passes as-is
		{"12345", ""},
		{"", ""},
		{"phone", ""},
		{"+7999", ""},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizePhone(tc.in))
		})
	}
}

func TestResolveEmail_FirstWithAtWins(t *testing.T) {
	order := &model.Order{
		Email:  "not-an-email",
		Client: model.Contact{Email: "a@b.com"},
	}
	assert.Equal(t, "a@b.com", resolveEmail(order), "a malformed higher-priority candidate is skipped")

	order = &model.Order{
		NotificationEmail: "n@x.ru",
		Client:            model.Contact{Email: "a@b.com"},
	}
	assert.Equal(t, "n@x.ru", resolveEmail(order))

	order = &model.Order{BillingAddress: model.Address{Email: "bill@x.ru"}}
	assert.Equal(t, "bill@x.ru", resolveEmail(order))

	assert.Empty(t, resolveEmail(&model.Order{Email: "nope"}))
}

func TestResolvePhone_FirstNormalizableWins(t *testing.T) {
	order := &model.Order{
		Phone:  "12345", // too short, skipped
		Client: model.Contact{Phone: "89991234567"},
	}
	assert.Equal(t, "+79991234567", resolvePhone(order))

	assert.Empty(t, resolvePhone(&model.Order{Phone: "12345"}))
}

func TestBuildReceipt_IncludesAllLines(t *testing.T) {
	svc := newTestService(t, testConfig(), &stubInsales{}, &stubYookassa{})

	order := &model.Order{
		ID:    "1",
		Email: "x@y.com",
		Lines: []model.LineItem{
			line(func(li *model.LineItem) {
				li.Title = "Cap"
				li.SKU = "SKU1"
				li.UnitPrice = decimal.NewFromInt(100)
				li.Quantity = decimal.NewFromInt(2)
			}),
			// no TRU anywhere: excluded from articles but present in the receipt
			line(func(li *model.LineItem) {
				li.Title = "Gift wrap"
				li.UnitPrice = decimal.RequireFromString("49.50")
			}),
		},
	}

	receipt, err := svc.buildReceipt(order)
	require.NoError(t, err)

	require.Len(t, receipt.Items, 2)
	assert.Equal(t, "Cap", receipt.Items[0].Description)
	assert.Equal(t, 2.0, receipt.Items[0].Quantity)
	assert.Equal(t, "100.00", receipt.Items[0].Amount.Value)
	assert.Equal(t, 4, receipt.Items[0].VATCode)
	assert.Equal(t, "Gift wrap", receipt.Items[1].Description)
	assert.Equal(t, "49.50", receipt.Items[1].Amount.Value)
	assert.Equal(t, "x@y.com", receipt.Customer.Email)
	assert.Zero(t, receipt.TaxSystemCode, "tax system omitted when configured as 0")
}

func TestBuildReceipt_TruncatesDescription(t *testing.T) {
	svc := newTestService(t, testConfig(), &stubInsales{}, &stubYookassa{})

	longTitle := strings.Repeat("о", 200)
	order := &model.Order{
		ID:    "1",
		Email: "x@y.com",
		Lines: []model.LineItem{
			line(func(li *model.LineItem) { li.Title = longTitle }),
		},
	}

	receipt, err := svc.buildReceipt(order)
	require.NoError(t, err)
	assert.Equal(t, 128, len([]rune(receipt.Items[0].Description)))
}

func TestBuildReceipt_TaxSystemCode(t *testing.T) {
	cfg := testConfig()
	cfg.Receipt.TaxSystem = 2
	svc := newTestService(t, cfg, &stubInsales{}, &stubYookassa{})

	receipt, err := svc.buildReceipt(&model.Order{ID: "1", Email: "x@y.com"})
	require.NoError(t, err)
	assert.Equal(t, 2, receipt.TaxSystemCode)
}

func TestBuildReceipt_NoContact(t *testing.T) {
	svc := newTestService(t, testConfig(), &stubInsales{}, &stubYookassa{})

	_, err := svc.buildReceipt(&model.Order{ID: "1"})
	assert.ErrorIs(t, err, ErrNoReceiptContact)
}

func TestBuildReceipt_PhoneOnlyIsEnough(t *testing.T) {
	svc := newTestService(t, testConfig(), &stubInsales{}, &stubYookassa{})

	receipt, err := svc.buildReceipt(&model.Order{ID: "1", Phone: "89991234567"})
	require.NoError(t, err)
	assert.Equal(t, "+79991234567", receipt.Customer.Phone)
	assert.Empty(t, receipt.Customer.Email)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "абв", truncate("абвгд", 3), "truncation counts runes, not bytes")
}
