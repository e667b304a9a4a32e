package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"yookassa-es-bridge/internal/client"
	"yookassa-es-bridge/internal/config"
	"yookassa-es-bridge/internal/dto"
	"yookassa-es-bridge/internal/model"
)

// Failure classes the handlers map to HTTP statuses. Everything else is an
// unexpected upstream/transport failure.
var (
	ErrOrderMissing      = errors.New("no order data: need POST with order_json or GET with order_id")
	ErrNoArticles        = errors.New("order has no lines with a TRU code (check variant SKUs/barcodes)")
	ErrNoReceiptContact  = errors.New("order has neither a valid email nor a phone for the receipt")
	ErrNoConfirmationURL = errors.New("yookassa returned no confirmation_url")
)

type PaymentService interface {
	// PayOrder runs the full flow for an already-normalized order and
	// returns the confirmation URL to redirect the customer to.
	PayOrder(ctx context.Context, order *model.Order, returnURL string) (string, error)
	// PayOrderByID fetches the order from the platform first.
	PayOrderByID(ctx context.Context, orderID, returnURL string) (string, error)
	// CreateDirectPayment bypasses the order platform entirely.
	CreateDirectPayment(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error)
	CheckPayment(ctx context.Context, paymentID string) (*model.Payment, error)
	OrderDiagnostics(ctx context.Context, orderID string) (*dto.OrderDiagnostics, error)
}

type paymentServiceImpl struct {
	cfg       *config.Config
	insales   client.InsalesClient
	yookassa  client.YookassaClient
	truPolicy TRUPolicy
	logger    *log.Logger
}

func NewPaymentService(
	cfg *config.Config,
	insalesClient client.InsalesClient,
	yookassaClient client.YookassaClient,
) (PaymentService, error) {
	policy, err := ParseTRUPolicy(cfg.TRUPolicy)
	if err != nil {
		return nil, fmt.Errorf("parse TRU policy: %w", err)
	}

	return &paymentServiceImpl{
		cfg:       cfg,
		insales:   insalesClient,
		yookassa:  yookassaClient,
		truPolicy: policy,
		logger:    log.New("payment"),
	}, nil
}

func (s *paymentServiceImpl) PayOrder(ctx context.Context, order *model.Order, returnURL string) (string, error) {
	if order == nil || order.ID == "" {
		return "", ErrOrderMissing
	}

	articles := s.buildArticles(ctx, order)
	if len(articles) == 0 {
		return "", ErrNoArticles
	}

	amount, err := amountFromArticles(articles)
	if err != nil {
		return "", fmt.Errorf("aggregate amount: %w", err)
	}

	receipt, err := s.buildReceipt(order)
	if err != nil {
		return "", err
	}

	if returnURL == "" {
		returnURL = "https://" + s.cfg.Insales.Domain + "/account/orders"
	}

	payReq := &model.CreatePaymentRequest{
		Amount: model.Amount{Value: amount, Currency: model.CurrencyRUB},
		PaymentMethodData: model.PaymentMethodData{
			Type: model.PaymentMethodElectronicCertificate,
		},
		Articles: articles,
		Receipt:  receipt,
		Confirmation: model.Confirmation{
			Type:      model.ConfirmationTypeRedirect,
			ReturnURL: returnURL,
		},
		Capture:     true,
		Description: fmt.Sprintf("Заказ №%s (ЭС)", orderLabel(order)),
		Metadata:    map[string]string{"order_id": order.ID},
	}

	// fresh key per attempt: a caller-side retry is a new logical payment
	payment, err := s.yookassa.CreatePayment(ctx, payReq, uuid.NewString())
	if err != nil {
		return "", fmt.Errorf("create payment: %w", err)
	}

	if payment.Confirmation == nil || payment.Confirmation.ConfirmationURL == "" {
		return "", ErrNoConfirmationURL
	}

	s.logger.Infof("order %s: payment %s created, amount %s, %d articles",
		order.ID, payment.ID, amount, len(articles))
	return payment.Confirmation.ConfirmationURL, nil
}

func (s *paymentServiceImpl) PayOrderByID(ctx context.Context, orderID, returnURL string) (string, error) {
	if orderID == "" {
		return "", ErrOrderMissing
	}
	order, err := s.insales.FetchOrder(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("fetch order: %w", err)
	}
	return s.PayOrder(ctx, order, returnURL)
}

func (s *paymentServiceImpl) CreateDirectPayment(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	currency := req.Currency
	if currency == "" {
		currency = model.CurrencyRUB
	}

	payReq := &model.CreatePaymentRequest{
		Amount: model.Amount{Value: req.Amount, Currency: currency},
		PaymentMethodData: model.PaymentMethodData{
			Type: model.PaymentMethodElectronicCertificate,
		},
		Articles: req.Articles,
		Receipt:  req.Receipt,
		Confirmation: model.Confirmation{
			Type:      model.ConfirmationTypeRedirect,
			ReturnURL: req.ReturnURL,
		},
		Capture:     true,
		Description: req.Description,
		Metadata:    req.Metadata,
	}

	payment, err := s.yookassa.CreatePayment(ctx, payReq, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	resp := &dto.PaymentResponse{
		PaymentID: payment.ID,
		Status:    payment.Status,
	}
	if payment.Confirmation != nil {
		resp.ConfirmationURL = payment.Confirmation.ConfirmationURL
	}
	return resp, nil
}

func (s *paymentServiceImpl) CheckPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	payment, err := s.yookassa.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return payment, nil
}

func (s *paymentServiceImpl) OrderDiagnostics(ctx context.Context, orderID string) (*dto.OrderDiagnostics, error) {
	order, err := s.insales.FetchOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}

	diag := &dto.OrderDiagnostics{
		OrderID:       order.ID,
		Number:        order.Number,
		Email:         order.Email,
		Phone:         order.Phone,
		ResolvedEmail: resolveEmail(order),
		ResolvedPhone: resolvePhone(order),
		Lines:         make([]dto.LineDiagnostics, 0, len(order.Lines)),
	}
	for _, li := range order.Lines {
		diag.Lines = append(diag.Lines, dto.LineDiagnostics{
			Title:          li.Title,
			Quantity:       li.Quantity.InexactFloat64(),
			Price:          li.UnitPrice.StringFixed(2),
			SKUInLine:      li.SKU,
			VariantSKU:     li.VariantSKU,
			BarcodeInLine:  li.Barcode,
			VariantBarcode: li.VariantBarcode,
			ProductID:      li.ProductID,
			VariantID:      li.VariantID,
		})
	}
	return diag, nil
}

func orderLabel(order *model.Order) string {
	if order.Number != "" {
		return order.Number
	}
	return order.ID
}
