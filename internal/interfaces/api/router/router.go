package router

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"medreminder/internal/interfaces/api/handler"
	"medreminder/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// Config holds the dependencies for the router.
type Config struct {
	UserHandler        *handler.UserHandler
	AppointmentHandler *handler.AppointmentHandler
	ReminderHandler    *handler.ReminderHandler
	Logger             logger.Logger
	// RateLimitRPS bounds user registrations per client IP; zero disables the limit.
	RateLimitRPS float64
}

// NewRouter creates and configures a new Echo router.
func NewRouter(cfg *Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()

	// Middleware
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogHost:      true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			cfg.Logger.Info(fmt.Sprintf("REQUEST: method=%s, uri=%s, status=%d, latency=%s, req_id=%s",
				v.Method, v.URI, v.Status, v.Latency, v.RequestID,
			))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		MaxAge:       300,
	}))

	// Routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Medical Appointment Reminder API"})
	})

	var registration []echo.MiddlewareFunc
	if cfg.RateLimitRPS > 0 {
		registration = append(registration, middleware.RateLimiter(registrationStore(cfg.RateLimitRPS)))
	}

	users := e.Group("/users")
	users.POST("", cfg.UserHandler.Create, registration...)
	users.GET("", cfg.UserHandler.List)
	users.GET("/:id", cfg.UserHandler.Get)

	appointments := e.Group("/appointments")
	appointments.POST("", cfg.AppointmentHandler.Create)
	appointments.GET("", cfg.AppointmentHandler.List)
	appointments.GET("/:id", cfg.AppointmentHandler.Get)
	appointments.PUT("/:id", cfg.AppointmentHandler.Update)
	appointments.DELETE("/:id", cfg.AppointmentHandler.Delete)
	appointments.GET("/:id/deliveries", cfg.AppointmentHandler.Deliveries)

	e.GET("/reminders", cfg.ReminderHandler.Pending)

	cfg.Logger.Info("Router initialized with routes.")
	return e
}

// registrationStore keeps a burst of at least one request; echo's default burst truncates
// the rate, which rejects every request when the rate is below one per second.
func registrationStore(rps float64) middleware.RateLimiterStore {
	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     int(math.Max(1, math.Ceil(rps))),
		ExpiresIn: 3 * time.Minute,
	})
}
