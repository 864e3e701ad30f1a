package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medreminder/internal/application/dto"
	"medreminder/internal/application/service"
	"medreminder/internal/infrastructure/database/gormdb"
	"medreminder/internal/infrastructure/database/gormdb/gormtest"
	"medreminder/internal/infrastructure/notifier"
	"medreminder/internal/infrastructure/scheduler"
	"medreminder/internal/interfaces/api/handler"
	"medreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, rps float64) *echo.Echo {
	t.Helper()
	log := logger.NewNop()
	db := gormtest.NewDB(t)
	users := gormdb.NewUserRepository(db)
	appointments := gormdb.NewAppointmentRepository(db)

	reminderSvc := service.NewReminderService(gormdb.NewSessionFactory(db), notifier.NewLogSender(log), nil, service.SenderAddresses{}, log)
	schedulerSvc := service.NewSchedulerService(scheduler.NewScheduler(log, time.Local), appointments, reminderSvc.HandleReminder,
		service.SchedulerOptions{Location: time.Local}, log)
	t.Cleanup(schedulerSvc.Stop)

	return NewRouter(&Config{
		UserHandler:        handler.NewUserHandler(service.NewUserService(users, log), log),
		AppointmentHandler: handler.NewAppointmentHandler(service.NewAppointmentService(appointments, users, schedulerSvc, log), reminderSvc, log),
		ReminderHandler:    handler.NewReminderHandler(schedulerSvc),
		Logger:             log,
		RateLimitRPS:       rps,
	})
}

func do(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func createUser(t *testing.T, e *echo.Echo, email string, doctor bool) dto.UserResponse {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"password123","name":"N","phone":"+15550001111","is_doctor":%t}`, email, doctor)
	rec := do(t, e, http.MethodPost, "/users", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var u dto.UserResponse
	decode(t, rec, &u)
	return u
}

func TestHealth(t *testing.T) {
	e := newTestRouter(t, 0)
	rec := do(t, e, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Reminder API")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestUserEndpoints(t *testing.T) {
	e := newTestRouter(t, 0)
	patient := createUser(t, e, "pat@example.com", false)
	doctor := createUser(t, e, "doc@example.com", true)

	rec := do(t, e, http.MethodPost, "/users/", `{"email":"pat@example.com","password":"password123","name":"Again"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Email already registered"}`, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/users", `{"email":"not-an-email","password":"password123","name":"X"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, "/users?is_doctor=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var doctors []dto.UserResponse
	decode(t, rec, &doctors)
	require.Len(t, doctors, 1)
	assert.Equal(t, doctor.ID, doctors[0].ID)

	rec = do(t, e, http.MethodGet, fmt.Sprintf("/users/%d", patient.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	assert.Equal(t, http.StatusNotFound, do(t, e, http.MethodGet, "/users/999", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodGet, "/users/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodGet, "/users?is_doctor=maybe", "").Code)
}

func TestAppointmentLifecycle(t *testing.T) {
	e := newTestRouter(t, 0)
	patient := createUser(t, e, "pat@example.com", false)
	doctor := createUser(t, e, "doc@example.com", true)
	date := time.Now().AddDate(0, 0, 5).Format("2006-01-02")

	body := fmt.Sprintf(`{"patient_id":%d,"doctor_id":%d,"date":%q,"time":"10:30","notes":"checkup"}`, patient.ID, doctor.ID, date)
	rec := do(t, e, http.MethodPost, "/appointments", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created dto.AppointmentResponse
	decode(t, rec, &created)
	assert.Equal(t, "10:30:00", created.Time)
	assert.Equal(t, "scheduled", created.Status.String())

	rec = do(t, e, http.MethodGet, "/reminders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []dto.PendingReminder
	decode(t, rec, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, created.ID, pending[0].AppointmentID)

	rec = do(t, e, http.MethodGet, fmt.Sprintf("/appointments?patient_id=%d", patient.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []dto.AppointmentResponse
	decode(t, rec, &list)
	assert.Len(t, list, 1)

	rec = do(t, e, http.MethodPut, fmt.Sprintf("/appointments/%d", created.ID), `{"status":"cancelled"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, do(t, e, http.MethodGet, "/reminders", ""), &pending)
	assert.Empty(t, pending)

	rec = do(t, e, http.MethodPut, fmt.Sprintf("/appointments/%d", created.ID), `{"status":"lost"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, fmt.Sprintf("/appointments/%d/deliveries", created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, e, http.MethodDelete, fmt.Sprintf("/appointments/%d", created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Appointment deleted successfully"}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, fmt.Sprintf("/appointments/%d", created.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Appointment not found"}`, rec.Body.String())
}

func TestCreateAppointmentBadInput(t *testing.T) {
	e := newTestRouter(t, 0)
	patient := createUser(t, e, "pat@example.com", false)

	rec := do(t, e, http.MethodPost, "/appointments", fmt.Sprintf(`{"patient_id":%d,"doctor_id":999,"date":"2030-01-01","time":"10:00"}`, patient.ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPost, "/appointments", fmt.Sprintf(`{"patient_id":%d,"doctor_id":%d,"date":"01/01/2030","time":"10:00"}`, patient.ID, patient.ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPost, "/appointments", `{"patient_id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserRegistrationIsRateLimited(t *testing.T) {
	e := newTestRouter(t, 0.001)

	first := do(t, e, http.MethodPost, "/users", `{"email":"a@example.com","password":"password123","name":"A"}`)
	assert.Equal(t, http.StatusCreated, first.Code)
	second := do(t, e, http.MethodPost, "/users", `{"email":"b@example.com","password":"password123","name":"B"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Reads are not limited.
	assert.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/users", "").Code)
}

func TestFractionalRateLimitAllowsFirstRegistration(t *testing.T) {
	for _, rps := range []float64{0.5, 0.001} {
		t.Run(fmt.Sprintf("rps=%v", rps), func(t *testing.T) {
			e := newTestRouter(t, rps)
			rec := do(t, e, http.MethodPost, "/users", `{"email":"a@example.com","password":"password123","name":"A"}`)
			assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		})
	}
}

func TestRegistrationBurstFollowsRate(t *testing.T) {
	e := newTestRouter(t, 2)
	// Invalid bodies fail validation fast, so the limiter sees the requests back to back.
	for i, want := range []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests} {
		assert.Equal(t, want, do(t, e, http.MethodPost, "/users", `{}`).Code, "request %d", i)
	}
}
