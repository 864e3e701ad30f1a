package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Application Layer
	appService "medreminder/internal/application/service"

	// Infrastructure Layer
	"medreminder/internal/infrastructure/database/gormdb"
	lineClient "medreminder/internal/infrastructure/line"
	"medreminder/internal/infrastructure/notifier"
	"medreminder/internal/infrastructure/scheduler"

	// Interfaces Layer
	"medreminder/internal/interfaces/api/handler"
	"medreminder/internal/interfaces/api/router"

	// Packages
	"medreminder/internal/pkg/config"
	appLogger "medreminder/internal/pkg/logger"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
	"gorm.io/gorm"
)

func gracefulShutdown(apiServer *http.Server, schedulerService appService.SchedulerService, db *gorm.DB, grace time.Duration, appLog appLogger.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	appLog.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	// Stop the scheduler first so no reminder job starts against a closing database.
	appLog.Info("Stopping scheduler...")
	schedulerService.Stop()
	appLog.Info("Scheduler stopped.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", err)
	}

	appLog.Info("Closing database connection...")
	if err := gormdb.CloseDB(db); err != nil {
		appLog.Error("Error closing database", err)
	} else {
		appLog.Info("Database connection closed.")
	}

	appLog.Info("Server exiting")
	done <- true
}

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	appLog := appLogger.New(cfg.Log.Level, cfg.Log.Format)
	appLog.Info("Logger initialized.")

	loc, err := cfg.Reminder.Location()
	if err != nil {
		appLog.Error("Invalid APP_TIMEZONE", err)
		os.Exit(1)
	}

	// --- Infrastructure ---
	db, err := gormdb.NewDB(cfg.Database, appLog)
	if err != nil {
		appLog.Error("Failed to initialize database", err)
		os.Exit(1)
	}
	userRepo := gormdb.NewUserRepository(db)
	appointmentRepo := gormdb.NewAppointmentRepository(db)
	sessions := gormdb.NewSessionFactory(db)
	appLog.Info("Database and repositories initialized.")

	var sender appService.NotificationSender
	if cfg.Twilio.Enabled() {
		sender = notifier.NewTwilioSender(cfg.Twilio, appLog)
	} else {
		appLog.Warn("Twilio credentials not set, reminders will only be logged")
		sender = notifier.NewLogSender(appLog)
	}

	var alerter appService.AdminAlerter
	if cfg.Line.Enabled() {
		line, err := lineClient.NewClient(cfg.Line, appLog)
		if err != nil {
			appLog.Error("Failed to create LINE client, admin alerts disabled", err)
		} else {
			alerter = line
		}
	}

	cronScheduler := scheduler.NewScheduler(appLog, loc)

	// --- Application Services ---
	// The reminder job is built first; the scheduler only needs its handler.
	reminderSvc := appService.NewReminderService(sessions, sender, alerter, appService.SenderAddresses{
		SMS:      cfg.Twilio.PhoneNumber,
		WhatsApp: cfg.Twilio.WhatsAppNumber,
	}, appLog)
	schedulerSvc := appService.NewSchedulerService(cronScheduler, appointmentRepo, reminderSvc.HandleReminder, appService.SchedulerOptions{
		LeadTime: cfg.Reminder.LeadTime,
		Location: loc,
	}, appLog)
	userSvc := appService.NewUserService(userRepo, appLog)
	appointmentSvc := appService.NewAppointmentService(appointmentRepo, userRepo, schedulerSvc, appLog)
	appLog.Info("Application services initialized.")

	// --- Initialize Schedules ---
	if cfg.Reminder.RearmOnStart {
		if err := schedulerSvc.InitializeSchedules(context.Background()); err != nil {
			// Log the error but continue starting the server
			appLog.Error("Failed to initialize schedules on startup", err)
		}
	}

	// --- Router ---
	echoRouter := router.NewRouter(&router.Config{
		UserHandler:        handler.NewUserHandler(userSvc, appLog),
		AppointmentHandler: handler.NewAppointmentHandler(appointmentSvc, reminderSvc, appLog),
		ReminderHandler:    handler.NewReminderHandler(schedulerSvc),
		Logger:             appLog,
		RateLimitRPS:       cfg.Server.RateLimitRPS,
	})

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// --- Start Server & Shutdown Handling ---
	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, schedulerSvc, db, cfg.Server.ShutdownGrace, appLog, done)

	appLog.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))
	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		appLog.Error("HTTP server ListenAndServe error", err)
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for graceful shutdown signal
	<-done
	appLog.Info("Graceful shutdown complete.")
}
