package handler

import (
	"net/http"

	"medreminder/internal/application/dto"
	"medreminder/internal/application/service"
	"medreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AppointmentHandler serves the /appointments endpoints.
type AppointmentHandler struct {
	appointmentService service.AppointmentService
	reminderService    service.ReminderService
	log                logger.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(
	appointmentService service.AppointmentService,
	reminderService service.ReminderService,
	log logger.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
		reminderService:    reminderService,
		log:                log,
	}
}

// Create books an appointment. The reminder outcome never fails the request.
func (h *AppointmentHandler) Create(c echo.Context) error {
	var req dto.CreateAppointmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	appointment, err := h.appointmentService.CreateAppointment(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusCreated, appointment)
}

// List returns appointments filtered by patient or doctor.
func (h *AppointmentHandler) List(c echo.Context) error {
	var q dto.ListAppointmentsQuery
	if err := echo.QueryParamsBinder(c).
		Int("skip", &q.Skip).
		Int("limit", &q.Limit).
		Uint("patient_id", &q.PatientID).
		Uint("doctor_id", &q.DoctorID).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	appointments, err := h.appointmentService.ListAppointments(c.Request().Context(), q)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, appointments)
}

func (h *AppointmentHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	appointment, err := h.appointmentService.GetAppointment(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, appointment)
}

// Update applies a partial update; the pending reminder follows the new date, time and status.
func (h *AppointmentHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAppointmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	appointment, err := h.appointmentService.UpdateAppointment(c.Request().Context(), id, req)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, appointment)
}

func (h *AppointmentHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.appointmentService.DeleteAppointment(c.Request().Context(), id); err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Appointment deleted successfully"})
}

// Deliveries returns the recorded reminder delivery attempts of an appointment.
func (h *AppointmentHandler) Deliveries(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	deliveries, err := h.reminderService.ListDeliveries(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, deliveries)
}
