package notifier

import (
	"context"
	"fmt"

	"medreminder/internal/domain/constant"
	"medreminder/internal/pkg/logger"
)

// LogSender writes messages to the log instead of delivering them.
// It stands in when no Twilio credentials are configured.
type LogSender struct {
	log logger.Logger
}

// NewLogSender creates a dry-run sender writing to log.
func NewLogSender(log logger.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send logs the message it would have delivered and always succeeds.
func (s *LogSender) Send(_ context.Context, channel constant.Channel, from, to, body string) error {
	s.log.Info(fmt.Sprintf("[dry-run] %s from=%s to=%s body=%q", channel, from, to, body))
	return nil
}
