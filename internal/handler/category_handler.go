package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"moneytrack/internal/auth"
	"moneytrack/internal/model"
	"moneytrack/internal/service"
)

// CategoryHandler handles category endpoints.
type CategoryHandler struct {
	categoryService service.CategoryService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents a category create/update request. Limit
// binds as raw JSON so a malformed value reaches the validation chain
// instead of failing the bind.
type CategoryRequest struct {
	Title string          `json:"title"`
	Limit json.RawMessage `json:"limit" swaggertype:"number"`
}

// CategoryResponse is a category without its id (single fetch/update).
type CategoryResponse struct {
	Title string          `json:"title"`
	Limit decimal.Decimal `json:"limit"`
}

// CategoryIDResponse is a category including its id (create/list/delete).
type CategoryIDResponse struct {
	CategoryResponse
	ID uint `json:"id"`
}

func categoryResponse(cat *model.Category) CategoryResponse {
	return CategoryResponse{Title: cat.Title, Limit: cat.Limit}
}

func categoryIDResponse(cat *model.Category) CategoryIDResponse {
	return CategoryIDResponse{CategoryResponse: categoryResponse(cat), ID: cat.ID}
}

// List godoc
// @Summary List own categories
// @Tags category
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CategoryIDResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 500 {object} errors.MessageResponse
// @Router /category/list [get]
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.categoryService.List(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	resp := make([]CategoryIDResponse, len(categories))
	for i := range categories {
		resp[i] = categoryIDResponse(&categories[i])
	}
	return c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get a category by id
// @Tags category
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} CategoryResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 404 {object} errors.MessageResponse
// @Router /category/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	category, err := h.categoryService.Get(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, categoryResponse(category))
}

// Create godoc
// @Summary Create a category
// @Tags category
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "Category data"
// @Success 201 {object} CategoryIDResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 422 {object} errors.ValidationResponse
// @Failure 500 {object} errors.MessageResponse
// @Router /category [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	category, err := h.categoryService.Create(c.Request().Context(), auth.UserID(c), service.CategoryInput{
		Title: req.Title,
		Limit: req.Limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, categoryIDResponse(category))
}

// Update godoc
// @Summary Update a category
// @Tags category
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body CategoryRequest true "Category data"
// @Success 200 {object} CategoryResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 404 {object} errors.MessageResponse
// @Failure 422 {object} errors.ValidationResponse
// @Router /category/{id} [patch]
func (h *CategoryHandler) Update(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	category, err := h.categoryService.Update(c.Request().Context(), auth.UserID(c), c.Param("id"), service.CategoryInput{
		Title: req.Title,
		Limit: req.Limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, categoryResponse(category))
}

// Delete godoc
// @Summary Delete a category
// @Description Records under the category are kept and keep their categoryId.
// @Tags category
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} CategoryIDResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 404 {object} errors.MessageResponse
// @Router /category/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	category, err := h.categoryService.Delete(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, categoryIDResponse(category))
}
