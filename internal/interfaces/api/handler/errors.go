package handler

import (
	"errors"
	"net/http"
	"strconv"

	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// toHTTPError maps application errors to echo HTTP errors; echo renders them as {"message": ...}.
func toHTTPError(log logger.Logger, err error) error {
	switch {
	case errors.Is(err, appErrors.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, appErrors.ErrAppointmentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Appointment not found")
	case errors.Is(err, appErrors.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
	case errors.Is(err, appErrors.ErrInvalidInput), errors.Is(err, appErrors.ErrInvalidDateTime):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		log.Error("Request failed", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
}

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return c.Validate(req)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	return uint(id), nil
}
