package handler

import (
	"github.com/labstack/echo/v4"

	apperrors "moneytrack/internal/errors"
)

// respondError converts a service error into its HTTP status and body.
func respondError(c echo.Context, err error) error {
	status, body := apperrors.MapErrorToHTTP(err)
	return c.JSON(status, body)
}
