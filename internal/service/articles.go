package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"yookassa-es-bridge/internal/client"
	"yookassa-es-bridge/internal/model"
)

// TRUPolicy selects which fields of a line item may supply the TRU code.
// Shops that keep GTINs in barcodes only run barcode-only; the default
// prefers the SKU.
type TRUPolicy string

const (
	TRUPolicySKUFirst    TRUPolicy = "sku-first"
	TRUPolicyBarcodeOnly TRUPolicy = "barcode-only"
)

func ParseTRUPolicy(s string) (TRUPolicy, error) {
	switch TRUPolicy(s) {
	case TRUPolicySKUFirst, TRUPolicyBarcodeOnly:
		return TRUPolicy(s), nil
	case "":
		return TRUPolicySKUFirst, nil
	}
	return "", fmt.Errorf("unknown TRU policy %q", s)
}

const fallbackArticleName = "Товар"

// buildArticles maps order lines to payment articles. Lines without a
// resolvable TRU code are dropped; article numbers stay dense (1..N) over
// the lines that survive.
func (s *paymentServiceImpl) buildArticles(ctx context.Context, order *model.Order) []model.Article {
	articles := make([]model.Article, 0, len(order.Lines))
	number := 1

	for _, li := range order.Lines {
		tru := s.resolveTRU(ctx, li)
		if tru == "" {
			continue
		}

		articles = append(articles, model.Article{
			ArticleNumber: number,
			TRUCode:       tru,
			ArticleCode:   articleCode(li),
			ArticleName:   articleName(li),
			Quantity:      li.Quantity.InexactFloat64(),
			Price: model.Amount{
				Value:    li.UnitPrice.StringFixed(2),
				Currency: model.CurrencyRUB,
			},
		})
		number++
	}

	return articles
}

// resolveTRU walks the policy's fallback chain and stops at the first
// non-empty identifier. The product-card lookup is best-effort: a failed
// or empty lookup just means this link of the chain found nothing.
func (s *paymentServiceImpl) resolveTRU(ctx context.Context, li model.LineItem) string {
	if s.truPolicy == TRUPolicyBarcodeOnly {
		if li.Barcode != "" {
			return li.Barcode
		}
		if li.VariantBarcode != "" {
			return li.VariantBarcode
		}
		if info, ok := s.lookupVariant(ctx, li); ok {
			return info.Barcode
		}
		return ""
	}

	if li.SKU != "" {
		return li.SKU
	}
	if li.VariantSKU != "" {
		return li.VariantSKU
	}
	if info, ok := s.lookupVariant(ctx, li); ok {
		if info.SKU != "" {
			return info.SKU
		}
		if info.Barcode != "" {
			return info.Barcode
		}
	}
	if li.Barcode != "" {
		return li.Barcode
	}
	return li.VariantBarcode
}

func (s *paymentServiceImpl) lookupVariant(ctx context.Context, li model.LineItem) (client.VariantInfo, bool) {
	if li.ProductID == "" || li.VariantID == "" {
		return client.VariantInfo{}, false
	}
	info, found, err := s.insales.FetchVariantInfo(ctx, li.ProductID, li.VariantID)
	if err != nil {
		s.logger.Warnf("variant lookup product=%s variant=%s: %v", li.ProductID, li.VariantID, err)
		return client.VariantInfo{}, false
	}
	if !found || (info.SKU == "" && info.Barcode == "") {
		return client.VariantInfo{}, false
	}
	return info, true
}

func articleCode(li model.LineItem) string {
	switch {
	case li.VariantID != "":
		return li.VariantID
	case li.ProductID != "":
		return li.ProductID
	}
	return li.SKU
}

func articleName(li model.LineItem) string {
	if li.Title != "" {
		return li.Title
	}
	return fallbackArticleName
}

// amountFromArticles sums unit price × quantity over the articles list.
// The charged amount is anchored to the articles actually submitted, not
// to receipt items, which also cover TRU-less lines.
func amountFromArticles(articles []model.Article) (string, error) {
	sum := decimal.Zero
	for _, a := range articles {
		price, err := decimal.NewFromString(a.Price.Value)
		if err != nil {
			return "", fmt.Errorf("article %d price %q: %w", a.ArticleNumber, a.Price.Value, err)
		}
		sum = sum.Add(price.Mul(decimal.NewFromFloat(a.Quantity)))
	}
	return sum.StringFixed(2), nil
}
