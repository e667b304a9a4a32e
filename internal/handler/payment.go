package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"yookassa-es-bridge/internal/config"
	"yookassa-es-bridge/internal/dto"
	"yookassa-es-bridge/internal/model"
	"yookassa-es-bridge/internal/service"
)

type PaymentHandler struct {
	cfg            *config.Config
	paymentService service.PaymentService
}

func NewPaymentHandler(cfg *config.Config, paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		cfg:            cfg,
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) Root(c echo.Context) error {
	return c.String(http.StatusOK,
		"YooKassa ES bridge: POST /insales/start | GET /pay-by-es?order_id=...&return_url=... | GET /test-order/:id | GET /env-check")
}

// EnvCheck reports which configuration values are present. Secrets are
// reported as booleans only.
func (h *PaymentHandler) EnvCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"SHOP_ID":            h.cfg.Yookassa.ShopID != "",
		"SECRET_KEY":         h.cfg.Yookassa.SecretKey != "",
		"INS_DOMAIN":         h.cfg.Insales.Domain,
		"INS_API_KEY":        h.cfg.Insales.APIKey != "",
		"INS_API_PASSWORD":   h.cfg.Insales.APIPassword != "",
		"PORT":               h.cfg.HTTP.Port,
		"RECEIPT_VAT_CODE":   h.cfg.Receipt.VATCode,
		"RECEIPT_TAX_SYSTEM": h.cfg.Receipt.TaxSystem,
		"TRU_POLICY":         h.cfg.TRUPolicy,
	})
}

func (h *PaymentHandler) TestOrder(c echo.Context) error {
	ctx := c.Request().Context()

	diag, err := h.paymentService.OrderDiagnostics(ctx, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError,
			"could not fetch order, check the ID and API access: "+err.Error())
	}
	return c.JSON(http.StatusOK, diag)
}

// InsalesStart serves both entry modes: the platform POSTs the serialized
// order as the order_json form field; manual invocations GET with
// ?order_id= (and optional &return_url=).
func (h *PaymentHandler) InsalesStart(c echo.Context) error {
	ctx := c.Request().Context()
	returnURL := c.QueryParam("return_url")

	var (
		confirmationURL string
		err             error
	)
	if orderJSON := c.FormValue("order_json"); c.Request().Method == http.MethodPost && orderJSON != "" {
		var order *model.Order
		order, err = model.ParseOrder([]byte(orderJSON))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid order_json: "+err.Error())
		}
		confirmationURL, err = h.paymentService.PayOrder(ctx, order, returnURL)
	} else {
		confirmationURL, err = h.paymentService.PayOrderByID(ctx, c.QueryParam("order_id"), returnURL)
	}
	if err != nil {
		return paymentError(err)
	}

	return c.Redirect(http.StatusFound, confirmationURL)
}

// PayByES is the manual flow: both query params are mandatory.
func (h *PaymentHandler) PayByES(c echo.Context) error {
	ctx := c.Request().Context()

	orderID := c.QueryParam("order_id")
	returnURL := c.QueryParam("return_url")
	if orderID == "" || returnURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query params order_id and return_url are required")
	}

	confirmationURL, err := h.paymentService.PayOrderByID(ctx, orderID, returnURL)
	if err != nil {
		return paymentError(err)
	}

	return c.Redirect(http.StatusFound, confirmationURL)
}

func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, err := h.paymentService.CreateDirectPayment(ctx, &req)
	if err != nil {
		return paymentError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) CheckPayment(c echo.Context) error {
	ctx := c.Request().Context()

	payment, err := h.paymentService.CheckPayment(ctx, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, payment)
}

// paymentError maps service failure classes onto HTTP statuses: bad input
// → 400, processor answered without a redirect → 502, the rest → 500 with
// the upstream error text preserved for diagnosis.
func paymentError(err error) error {
	switch {
	case errors.Is(err, service.ErrOrderMissing),
		errors.Is(err, service.ErrNoArticles),
		errors.Is(err, service.ErrNoReceiptContact):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoConfirmationURL):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "create payment failed: "+err.Error())
}
