package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"medreminder/internal/application/dto"
	"medreminder/internal/application/service"
	"medreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// UserHandler serves the /users endpoints.
type UserHandler struct {
	userService service.UserService
	log         logger.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, log logger.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

// Create registers a user.
func (h *UserHandler) Create(c echo.Context) error {
	var req dto.CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.userService.CreateUser(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// List returns users, optionally only doctors or only patients.
func (h *UserHandler) List(c echo.Context) error {
	var q dto.ListUsersQuery
	if err := echo.QueryParamsBinder(c).
		Int("skip", &q.Skip).
		Int("limit", &q.Limit).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	if raw := c.QueryParam("is_doctor"); raw != "" {
		isDoctor, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid is_doctor value %q", raw))
		}
		q.IsDoctor = &isDoctor
	}

	users, err := h.userService.ListUsers(c.Request().Context(), q)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns one user.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, user)
}
