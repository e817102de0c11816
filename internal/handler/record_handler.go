package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"moneytrack/internal/auth"
	"moneytrack/internal/model"
	"moneytrack/internal/service"
)

// RecordHandler handles record endpoints.
type RecordHandler struct {
	recordService service.RecordService
}

// NewRecordHandler creates a new record handler.
func NewRecordHandler(recordService service.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// RecordRequest represents a record create/update request. Numeric
// fields bind as raw JSON so a malformed value reaches the validation
// chain instead of failing the bind.
type RecordRequest struct {
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount" swaggertype:"number"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	CategoryID  json.RawMessage `json:"categoryId" swaggertype:"integer"`
}

// RecordResponse is a record without its id (single fetch/update).
type RecordResponse struct {
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Date        time.Time        `json:"date"`
	Type        model.RecordType `json:"type"`
	CategoryID  uint             `json:"categoryId"`
}

// RecordIDResponse is a record including its id (create/list/delete).
type RecordIDResponse struct {
	RecordResponse
	ID uint `json:"id"`
}

func recordResponse(rec *model.Record) RecordResponse {
	return RecordResponse{
		Description: rec.Description,
		Amount:      rec.Amount,
		Date:        rec.Date,
		Type:        rec.Type,
		CategoryID:  rec.CategoryID,
	}
}

func recordIDResponse(rec *model.Record) RecordIDResponse {
	return RecordIDResponse{RecordResponse: recordResponse(rec), ID: rec.ID}
}

func recordInput(req RecordRequest) service.RecordInput {
	return service.RecordInput{
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
	}
}

// List godoc
// @Summary List own records
// @Tags record
// @Produce json
// @Security BearerAuth
// @Success 200 {array} RecordIDResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 500 {object} errors.MessageResponse
// @Router /record/list [get]
func (h *RecordHandler) List(c echo.Context) error {
	records, err := h.recordService.List(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, recordListResponse(records))
}

// ListByCategory godoc
// @Summary List own records under a category
// @Tags record
// @Produce json
// @Security BearerAuth
// @Param categoryId path int true "Category ID"
// @Success 200 {array} RecordIDResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 404 {object} errors.MessageResponse
// @Router /record/list/{categoryId} [get]
func (h *RecordHandler) ListByCategory(c echo.Context) error {
	records, err := h.recordService.ListByCategory(c.Request().Context(), auth.UserID(c), c.Param("categoryId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, recordListResponse(records))
}

// Get godoc
// @Summary Get a record by id
// @Tags record
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} RecordResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 404 {object} errors.MessageResponse
// @Router /record/{id} [get]
func (h *RecordHandler) Get(c echo.Context) error {
	record, err := h.recordService.Get(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, recordResponse(record))
}

// Create godoc
// @Summary Create a record
// @Tags record
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecordRequest true "Record data"
// @Success 201 {object} RecordIDResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 422 {object} errors.ValidationResponse
// @Failure 500 {object} errors.MessageResponse
// @Router /record [post]
func (h *RecordHandler) Create(c echo.Context) error {
	var req RecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	record, err := h.recordService.Create(c.Request().Context(), auth.UserID(c), recordInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, recordIDResponse(record))
}

// Update godoc
// @Summary Update a record
// @Tags record
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param request body RecordRequest true "Record data"
// @Success 200 {object} RecordResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 404 {object} errors.MessageResponse
// @Failure 422 {object} errors.ValidationResponse
// @Router /record/{id} [patch]
func (h *RecordHandler) Update(c echo.Context) error {
	var req RecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	record, err := h.recordService.Update(c.Request().Context(), auth.UserID(c), c.Param("id"), recordInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, recordResponse(record))
}

// Delete godoc
// @Summary Delete a record
// @Tags record
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} RecordIDResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 404 {object} errors.MessageResponse
// @Router /record/{id} [delete]
func (h *RecordHandler) Delete(c echo.Context) error {
	record, err := h.recordService.Delete(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, recordIDResponse(record))
}

func recordListResponse(records []model.Record) []RecordIDResponse {
	resp := make([]RecordIDResponse, len(records))
	for i := range records {
		resp[i] = recordIDResponse(&records[i])
	}
	return resp
}
