package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

func registerRoutes(
	e *echo.Echo,
	cfg config.Config,
	cartH *handler.CartHandler,
	orderH *handler.OrderHandler,
	paymentH *handler.PaymentHandler,
) {
	cartH.RegisterRoutes(e, cfg)
	orderH.RegisterRoutes(e, cfg)
	paymentH.RegisterRoutes(e)
}
