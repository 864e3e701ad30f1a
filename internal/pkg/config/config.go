// Package config loads the application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Reminder ReminderConfig
	Twilio   TwilioConfig
	Line     LineConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port          int
	RateLimitRPS  float64
	ShutdownGrace time.Duration
}

type DatabaseConfig struct {
	Driver string // sqlite | postgres
	URL    string
}

type ReminderConfig struct {
	LeadTime     time.Duration
	Timezone     string
	RearmOnStart bool
}

// Location resolves the configured timezone; appointment wall times are read in it.
func (c ReminderConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
}

// Enabled reports whether real SMS/WhatsApp delivery is configured.
func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.PhoneNumber != ""
}

type LineConfig struct {
	ChannelSecret string
	ChannelToken  string
	AdminUserID   string
}

// Enabled reports whether failure alerts can be pushed to an admin over LINE.
func (c LineConfig) Enabled() bool {
	return c.ChannelSecret != "" && c.ChannelToken != "" && c.AdminUserID != ""
}

type LogConfig struct {
	Level  string
	Format string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("SHUTDOWN_GRACE", 5*time.Second)

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_URL", "medreminder.db")

	v.SetDefault("REMINDER_LEAD_TIME", 24*time.Hour)
	v.SetDefault("APP_TIMEZONE", "Local")
	v.SetDefault("REMINDER_REARM_ON_START", true)

	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")
	v.SetDefault("TWILIO_PHONE_NUMBER", "")
	v.SetDefault("TWILIO_WHATSAPP_NUMBER", "")

	v.SetDefault("LINE_CHANNEL_SECRET", "")
	v.SetDefault("LINE_CHANNEL_ACCESS_TOKEN", "")
	v.SetDefault("LINE_ADMIN_USER_ID", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads the configuration from environment variables (a .env file is loaded by main).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:          v.GetInt("PORT"),
			RateLimitRPS:  v.GetFloat64("RATE_LIMIT_RPS"),
			ShutdownGrace: v.GetDuration("SHUTDOWN_GRACE"),
		},
		Database: DatabaseConfig{
			Driver: v.GetString("DB_DRIVER"),
			URL:    v.GetString("DB_URL"),
		},
		Reminder: ReminderConfig{
			LeadTime:     v.GetDuration("REMINDER_LEAD_TIME"),
			Timezone:     v.GetString("APP_TIMEZONE"),
			RearmOnStart: v.GetBool("REMINDER_REARM_ON_START"),
		},
		Twilio: TwilioConfig{
			AccountSID:     v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:      v.GetString("TWILIO_AUTH_TOKEN"),
			PhoneNumber:    v.GetString("TWILIO_PHONE_NUMBER"),
			WhatsAppNumber: v.GetString("TWILIO_WHATSAPP_NUMBER"),
		},
		Line: LineConfig{
			ChannelSecret: v.GetString("LINE_CHANNEL_SECRET"),
			ChannelToken:  v.GetString("LINE_CHANNEL_ACCESS_TOKEN"),
			AdminUserID:   v.GetString("LINE_ADMIN_USER_ID"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
	if cfg.Twilio.WhatsAppNumber == "" {
		cfg.Twilio.WhatsAppNumber = cfg.Twilio.PhoneNumber
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT %d", cfg.Server.Port)
	}
	if cfg.Server.RateLimitRPS < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %v", cfg.Server.RateLimitRPS)
	}
	if cfg.Database.Driver != "sqlite" && cfg.Database.Driver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.Reminder.LeadTime <= 0 {
		return nil, fmt.Errorf("REMINDER_LEAD_TIME must be positive, got %s", cfg.Reminder.LeadTime)
	}
	if _, err := cfg.Reminder.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}
