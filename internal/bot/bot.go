// Package bot dispatches Telegram updates to the gatekeeper and renders the
// admin-facing messages and keyboards.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gatekeeper-bot/internal/config"
	"gatekeeper-bot/internal/keyboard"
	"gatekeeper-bot/internal/logger"
	"gatekeeper-bot/internal/service"
	"gatekeeper-bot/internal/telegram"
)

type commandHandler func(ctx context.Context, msg *tgbotapi.Message)
type callbackHandler func(ctx context.Context, cb *tgbotapi.CallbackQuery, data keyboard.Callback)

type Bot struct {
	api        *tgbotapi.BotAPI
	poller     *tgbotapi.BotAPI
	cfg        *config.Config
	gatekeeper *service.Gatekeeper
	commands   map[string]commandHandler
	callbacks  map[string]callbackHandler
}

func New(client *telegram.Client, cfg *config.Config, gatekeeper *service.Gatekeeper) *Bot {
	b := &Bot{
		api:        client.Bot(),
		poller:     client.Poller(),
		cfg:        cfg,
		gatekeeper: gatekeeper,
	}

	// Updates are tagged variants; both tables route on the discriminant.
	b.commands = map[string]commandHandler{
		"start":      b.handleStart,
		"help":       b.handleHelp,
		"ban":        b.handleBan,
		"unban":      b.handleUnban,
		"extend":     b.handleExtend,
		"active":     b.handleActive,
		"expiring":   b.handleExpiring,
		"all":        b.handleAll,
		"check_subs": b.handleCheckSubs,
	}
	b.callbacks = map[string]callbackHandler{
		keyboard.KindApprove:         b.onApprove,
		keyboard.KindDecline:         b.onDecline,
		keyboard.KindBan:             b.onBan,
		keyboard.KindSetSubscription: b.onSetSubscription,
		keyboard.KindList:            b.onList,
		keyboard.KindNoop:            b.onNoop,
	}
	return b
}

// Run consumes updates over long polling until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.Telegram.PollTimeout
	u.AllowedUpdates = []string{"message", "callback_query", "chat_join_request"}
	updates := b.poller.GetUpdatesChan(u)
	logger.Info("Update polling started", "timeout", b.cfg.Telegram.PollTimeout)

	for {
		select {
		case <-ctx.Done():
			b.poller.StopReceivingUpdates()
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, upd)
		}
	}
}

// HandleUpdate routes one update. Shared by the polling loop and the
// webhook receiver.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.ChatJoinRequest != nil:
		b.handleJoinRequest(ctx, upd.ChatJoinRequest)
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.IsCommand():
		b.handleCommand(ctx, upd.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	// Only the configured administrator may drive the bot.
	if msg.From == nil || msg.From.ID != b.cfg.Telegram.AdminID {
		return
	}
	handler, ok := b.commands[msg.Command()]
	if !ok {
		return
	}
	handler(ctx, msg)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.From == nil || cb.From.ID != b.cfg.Telegram.AdminID {
		return
	}
	data, err := keyboard.ParseCallback(cb.Data)
	if err != nil {
		logger.Warn("Unparseable callback data", "data", cb.Data, "error", err)
		b.answer(cb.ID, "")
		return
	}
	handler, ok := b.callbacks[data.Kind]
	if !ok {
		b.answer(cb.ID, "")
		return
	}
	handler(ctx, cb, data)
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		logger.Error("Failed to send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	if _, err := b.api.Send(msg); err != nil {
		logger.Error("Failed to send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		logger.Warn("Failed to edit message", "chat_id", chatID, "message_id", messageID, "error", err)
	}
}

func (b *Bot) editWithKeyboard(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = &markup
	if _, err := b.api.Send(edit); err != nil {
		logger.Warn("Failed to edit message", "chat_id", chatID, "message_id", messageID, "error", err)
	}
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		logger.Warn("Failed to answer callback", "error", err)
	}
}

func (b *Bot) alert(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(callbackID, text)); err != nil {
		logger.Warn("Failed to answer callback", "error", err)
	}
}
