package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/playmena/stadium-booking/internal/dto"
	"github.com/playmena/stadium-booking/internal/middleware"
	"github.com/playmena/stadium-booking/internal/models"
	"github.com/playmena/stadium-booking/internal/service"
)

type BookingHandler struct {
	svc   service.BookingService
	slots service.SlotLedger
}

func NewBookingHandler(svc service.BookingService, slots service.SlotLedger) *BookingHandler {
	return &BookingHandler{svc: svc, slots: slots}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/slots/:id", h.GetSlot)

	bookings := e.Group("/api/v1/bookings", middleware.CurrentUser)
	bookings.POST("", h.CreateBooking)
	bookings.GET("", h.ListMyBookings)
	bookings.GET("/:id", h.GetBooking)
	bookings.DELETE("/:id", h.CancelBooking)
	bookings.POST("/:id/confirm-cash", h.ConfirmByCash)
}

// toHTTPError maps typed service errors onto status codes. Expected business
// outcomes keep their message; anything unknown is a 500.
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrSlotNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSlotUnavailable),
		errors.Is(err, service.ErrVoucherExhausted),
		errors.Is(err, service.ErrBookingNotPending),
		errors.Is(err, service.ErrRefundNotEligible):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidVoucher),
		errors.Is(err, service.ErrVoucherInactive),
		errors.Is(err, service.ErrVoucherExpired),
		errors.Is(err, service.ErrVoucherMinAmount),
		errors.Is(err, service.ErrVoucherWrongUser),
		errors.Is(err, service.ErrNothingToPay):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotBookingOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrGatewayUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.SlotID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "slot_id is required")
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), middleware.UserID(c), req.SlotID, req.VoucherCode)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), uint(id))
	if err != nil {
		return toHTTPError(err)
	}
	if booking.UserID != middleware.UserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "booking belongs to another user")
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	bookings, err := h.svc.ListUserBookings(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return toHTTPError(err)
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = dto.ToBookingResponse(&b)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	var req dto.CancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	refundType := models.RefundFull
	switch req.RefundType {
	case "", string(models.RefundFull):
	case string(models.RefundPartial):
		refundType = models.RefundPartial
		if req.PartialAmount <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "partial_amount is required for partial refunds")
		}
	case string(models.RefundDepositOnly):
		refundType = models.RefundDepositOnly
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid refund_type")
	}

	refund, err := h.svc.Cancel(c.Request().Context(), uint(id), middleware.UserID(c), req.Reason, refundType, req.PartialAmount)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRefundResponse(refund))
}

func (h *BookingHandler) ConfirmByCash(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.ConfirmByCash(c.Request().Context(), uint(id), middleware.UserID(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// GetSlot lets a client re-check availability after losing a reservation
// race.
func (h *BookingHandler) GetSlot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid slot id")
	}

	slot, err := h.slots.Get(c.Request().Context(), uint(id))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToSlotResponse(slot))
}
