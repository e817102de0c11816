package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"moneytrack/internal/auth"
	"moneytrack/internal/service"
)

// UserHandler handles profile endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateInfoRequest represents a profile update; absent fields are
// left unchanged. Bill binds as raw JSON so a malformed value reaches
// the validation chain instead of failing the bind.
type UpdateInfoRequest struct {
	Name   *string         `json:"name"`
	Bill   json.RawMessage `json:"bill" swaggertype:"number"`
	Locale *string         `json:"locale"`
}

// GetInfo godoc
// @Summary Get profile info
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.UserInfo
// @Failure 401 {object} errors.MessageResponse
// @Failure 500 {object} errors.MessageResponse
// @Router /user/info [get]
func (h *UserHandler) GetInfo(c echo.Context) error {
	info, err := h.userService.GetInfo(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, info)
}

// UpdateInfo godoc
// @Summary Update profile info
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateInfoRequest true "Fields to update"
// @Success 200 {object} service.UserInfo
// @Failure 401 {object} errors.MessageResponse
// @Failure 422 {object} errors.ValidationResponse
// @Failure 500 {object} errors.MessageResponse
// @Router /user/info [patch]
func (h *UserHandler) UpdateInfo(c echo.Context) error {
	var req UpdateInfoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	info, err := h.userService.UpdateInfo(c.Request().Context(), auth.UserID(c), service.UpdateInfoInput{
		Name:   req.Name,
		Bill:   req.Bill,
		Locale: req.Locale,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, info)
}
