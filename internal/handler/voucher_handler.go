package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/playmena/stadium-booking/internal/dto"
	"github.com/playmena/stadium-booking/internal/middleware"
	"github.com/playmena/stadium-booking/internal/service"
)

type VoucherHandler struct {
	svc service.VoucherService
}

func NewVoucherHandler(svc service.VoucherService) *VoucherHandler {
	return &VoucherHandler{svc: svc}
}

func (h *VoucherHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/vouchers/validate", h.Validate, middleware.CurrentUser)
}

// Validate previews the discount a code would grant, without redeeming it.
// Eligibility failures come back as a structured "invalid" response rather
// than an error status: they are an answer, not a failure.
func (h *VoucherHandler) Validate(c echo.Context) error {
	var req dto.ValidateVoucherRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Code == "" || req.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "code and amount are required")
	}

	_, discount, err := h.svc.Validate(c.Request().Context(), nil, req.Code, req.Amount, middleware.UserID(c))
	if err != nil {
		he := toHTTPError(err)
		if he.Code >= http.StatusInternalServerError {
			return he
		}
		return c.JSON(http.StatusOK, dto.VoucherValidationResponse{Valid: false, Reason: err.Error()})
	}

	return c.JSON(http.StatusOK, dto.VoucherValidationResponse{Valid: true, DiscountAmount: discount})
}
