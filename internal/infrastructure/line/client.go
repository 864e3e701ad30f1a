package line

import (
	"context"
	"errors"
	"fmt"
	"medreminder/internal/pkg/config"
	"medreminder/internal/pkg/logger"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Client wraps the linebot.Client and pushes operational alerts to a clinic admin.
type Client struct {
	bot         *linebot.Client
	adminUserID string
	log         logger.Logger
}

// NewClient creates a LINE Bot client from the channel credentials.
func NewClient(cfg config.LineConfig, log logger.Logger) (*Client, error) {
	if !cfg.Enabled() {
		return nil, errors.New("LINE_CHANNEL_SECRET, LINE_CHANNEL_ACCESS_TOKEN and LINE_ADMIN_USER_ID must be set")
	}
	bot, err := linebot.New(cfg.ChannelSecret, cfg.ChannelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE Bot client: %w", err)
	}
	log.Info("Successfully created LINE Bot client.")
	return &Client{
		bot:         bot,
		adminUserID: cfg.AdminUserID,
		log:         log,
	}, nil
}

// Alert pushes a text message to the configured admin user.
func (c *Client) Alert(ctx context.Context, message string) error {
	_, err := c.bot.PushMessage(c.adminUserID, linebot.NewTextMessage(message)).WithContext(ctx).Do()
	if err != nil {
		return fmt.Errorf("LINE push to admin: %w", err)
	}
	c.log.Debug("Successfully pushed admin alert.")
	return nil
}
