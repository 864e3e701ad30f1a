// Package notifier delivers reminder messages over SMS and WhatsApp.
package notifier

import (
	"context"
	"fmt"
	"strings"

	"medreminder/internal/domain/constant"
	"medreminder/internal/pkg/config"
	"medreminder/internal/pkg/logger"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const whatsAppPrefix = "whatsapp:"

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSender sends SMS and WhatsApp messages through the Twilio Messages API.
// The underlying HTTP client carries its own request timeout.
type TwilioSender struct {
	api messageCreator
	log logger.Logger
}

// NewTwilioSender creates a sender from account credentials.
func NewTwilioSender(cfg config.TwilioConfig, log logger.Logger) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	log.Info("Twilio client created.")
	return &TwilioSender{api: client.Api, log: log}
}

// Send delivers body from one address to another on the given channel.
func (s *TwilioSender) Send(ctx context.Context, channel constant.Channel, from, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	from, to, err := addresses(channel, from, to)
	if err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(from)
	params.SetTo(to)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio %s message to %s: %w", channel, to, err)
	}
	if resp != nil && resp.Sid != nil {
		s.log.Debug(fmt.Sprintf("Twilio accepted %s message %s", channel, *resp.Sid))
	}
	return nil
}

// addresses applies the channel's addressing scheme to both ends.
func addresses(channel constant.Channel, from, to string) (string, string, error) {
	switch channel {
	case constant.ChannelSMS:
		return from, to, nil
	case constant.ChannelWhatsApp:
		return withWhatsAppPrefix(from), withWhatsAppPrefix(to), nil
	default:
		return "", "", fmt.Errorf("unsupported channel %q", channel)
	}
}

func withWhatsAppPrefix(addr string) string {
	if strings.HasPrefix(addr, whatsAppPrefix) {
		return addr
	}
	return whatsAppPrefix + addr
}
