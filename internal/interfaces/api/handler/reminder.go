package handler

import (
	"net/http"

	"medreminder/internal/application/service"

	"github.com/labstack/echo/v4"
)

// ReminderHandler exposes the in-memory reminder schedule.
type ReminderHandler struct {
	schedulerService service.SchedulerService
}

func NewReminderHandler(schedulerService service.SchedulerService) *ReminderHandler {
	return &ReminderHandler{schedulerService: schedulerService}
}

// Pending lists reminders armed in this process.
func (h *ReminderHandler) Pending(c echo.Context) error {
	return c.JSON(http.StatusOK, h.schedulerService.PendingReminders())
}
