package server

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"yookassa-es-bridge/internal/config"
	"yookassa-es-bridge/internal/handler"
	"yookassa-es-bridge/internal/service"
)

type Server struct {
	echo           *echo.Echo
	paymentHandler *handler.PaymentHandler
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func NewServer(cfg *config.Config, paymentService service.PaymentService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	paymentHandler := handler.NewPaymentHandler(cfg, paymentService)

	s := &Server{
		echo:           e,
		paymentHandler: paymentHandler,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/", s.paymentHandler.Root)
	s.echo.GET("/env-check", s.paymentHandler.EnvCheck)
	s.echo.GET("/test-order/:id", s.paymentHandler.TestOrder)

	// the platform POSTs form-urlencoded; GET is the manual test mode
	s.echo.Match([]string{http.MethodGet, http.MethodPost}, "/insales/start", s.paymentHandler.InsalesStart)
	s.echo.GET("/pay-by-es", s.paymentHandler.PayByES)

	s.echo.POST("/create-payment", s.paymentHandler.CreatePayment)
	s.echo.GET("/check-payment/:id", s.paymentHandler.CheckPayment)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
