// Package telegram wraps the Bot API client behind the channel-action and
// admin-notification interfaces the services depend on.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gatekeeper-bot/internal/config"
	"gatekeeper-bot/internal/logger"
)

type Client struct {
	bot       *tgbotapi.BotAPI
	poller    *tgbotapi.BotAPI
	channelID int64
	adminID   int64
}

// NewClient authorizes the bot. Channel actions and messages share one HTTP
// client with a bounded timeout, so no action can block indefinitely. Long
// polling gets its own client whose timeout exceeds the poll window.
func NewClient(cfg config.TelegramConfig) (*Client, error) {
	actionClient := &http.Client{Timeout: time.Duration(cfg.ActionTimeout) * time.Second}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, tgbotapi.APIEndpoint, actionClient)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot: %w", err)
	}

	pollClient := &http.Client{Timeout: time.Duration(cfg.PollTimeout+cfg.ActionTimeout) * time.Second}
	poller, err := tgbotapi.NewBotAPIWithClient(cfg.Token, tgbotapi.APIEndpoint, pollClient)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot poller: %w", err)
	}

	logger.Info("Telegram bot authorized", "username", bot.Self.UserName)
	return &Client{
		bot:       bot,
		poller:    poller,
		channelID: cfg.ChannelID,
		adminID:   cfg.AdminID,
	}, nil
}

// Bot exposes the action client for sends and edits.
func (c *Client) Bot() *tgbotapi.BotAPI {
	return c.bot
}

// Poller exposes the long-poll client for GetUpdates.
func (c *Client) Poller() *tgbotapi.BotAPI {
	return c.poller
}

func (c *Client) ApproveJoinRequest(ctx context.Context, userID int64) error {
	logger.ExternalServiceCall("telegram", "approveChatJoinRequest", "user_id", userID)
	_, err := c.bot.Request(tgbotapi.ApproveChatJoinRequestConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: c.channelID},
		UserID:     userID,
	})
	logger.ExternalServiceResult("telegram", "approveChatJoinRequest", err, "user_id", userID)
	if err != nil {
		return fmt.Errorf("approve join request for %d: %w", userID, err)
	}
	return nil
}

func (c *Client) DeclineJoinRequest(ctx context.Context, userID int64) error {
	logger.ExternalServiceCall("telegram", "declineChatJoinRequest", "user_id", userID)
	_, err := c.bot.Request(tgbotapi.DeclineChatJoinRequest{
		ChatConfig: tgbotapi.ChatConfig{ChatID: c.channelID},
		UserID:     userID,
	})
	logger.ExternalServiceResult("telegram", "declineChatJoinRequest", err, "user_id", userID)
	if err != nil {
		return fmt.Errorf("decline join request for %d: %w", userID, err)
	}
	return nil
}

func (c *Client) BanMember(ctx context.Context, userID int64) error {
	logger.ExternalServiceCall("telegram", "banChatMember", "user_id", userID)
	_, err := c.bot.Request(tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: c.channelID, UserID: userID},
	})
	logger.ExternalServiceResult("telegram", "banChatMember", err, "user_id", userID)
	if err != nil {
		return fmt.Errorf("ban member %d: %w", userID, err)
	}
	return nil
}

func (c *Client) UnbanMember(ctx context.Context, userID int64) error {
	logger.ExternalServiceCall("telegram", "unbanChatMember", "user_id", userID)
	_, err := c.bot.Request(tgbotapi.UnbanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: c.channelID, UserID: userID},
	})
	logger.ExternalServiceResult("telegram", "unbanChatMember", err, "user_id", userID)
	if err != nil {
		return fmt.Errorf("unban member %d: %w", userID, err)
	}
	return nil
}

func (c *Client) IsMember(ctx context.Context, userID int64) (bool, error) {
	member, err := c.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: c.channelID, UserID: userID},
	})
	if err != nil {
		return false, fmt.Errorf("get chat member %d: %w", userID, err)
	}
	switch member.Status {
	case "member", "administrator", "creator":
		return true, nil
	}
	return false, nil
}

func (c *Client) NotifyAdmin(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(c.adminID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("send admin message: %w", err)
	}
	return nil
}
