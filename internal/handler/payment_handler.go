package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/playmena/stadium-booking/internal/dto"
	"github.com/playmena/stadium-booking/internal/gateway"
	"github.com/playmena/stadium-booking/internal/middleware"
	"github.com/playmena/stadium-booking/internal/service"
)

type PaymentHandler struct {
	svc service.SettlementService
}

func NewPaymentHandler(svc service.SettlementService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/payments/checkout", h.Checkout, middleware.CurrentUser)
	// The webhook authenticates through its HMAC, not a user session.
	e.POST("/api/v1/payments/webhook", h.Webhook)
}

func (h *PaymentHandler) Checkout(c echo.Context) error {
	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.BookingID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "booking_id is required")
	}

	result, err := h.svc.Checkout(c.Request().Context(), req.BookingID, middleware.UserID(c), gateway.BillingInfo{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// Webhook consumes the gateway's payment-result callbacks. The gateway
// redelivers on any non-2xx response, so transient failures return 500 and
// rely on the settlement service being idempotent.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	var cb gateway.Callback
	if err := json.NewDecoder(c.Request().Body).Decode(&cb); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed payload")
	}

	if err := h.svc.HandleCallback(c.Request().Context(), cb); err != nil {
		if errors.Is(err, service.ErrSignatureInvalid) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
