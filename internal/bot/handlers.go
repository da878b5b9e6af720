package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/keyboard"
	"gatekeeper-bot/internal/logger"
	"gatekeeper-bot/internal/repository"
	"gatekeeper-bot/internal/service"
)

const (
	msgNotFound = "❌ No member with that ID or handle was found."
	msgFailure  = "⚠️ Something went wrong. See the logs for details."
)

func (b *Bot) handleJoinRequest(ctx context.Context, req *tgbotapi.ChatJoinRequest) {
	if req.Chat.ID != b.cfg.Telegram.ChannelID {
		return
	}
	ev := domain.JoinEvent{
		ChannelID: req.Chat.ID,
		UserID:    req.From.ID,
		Username:  req.From.UserName,
		FullName:  strings.TrimSpace(req.From.FirstName + " " + req.From.LastName),
	}
	logger.Info("Join request received", "user_id", ev.UserID, "username", ev.Username)

	decision, member, err := b.gatekeeper.OnJoinRequest(ctx, ev)
	if err != nil {
		logger.Error("Failed to process join request", "user_id", ev.UserID, "error", err)
		return
	}
	if decision != domain.DecisionHeld {
		return
	}

	text := fmt.Sprintf("New join request.\nMember: <b>%s</b>", member.Mention())
	if member.Status == domain.MemberStatusExpired {
		if _, ok := member.EndDate(); ok {
			text += fmt.Sprintf("\n<i>(Previous subscription expired %s)</i>", displayDate(member.SubscriptionEndDate))
		} else if member.SubscriptionEndDate != nil {
			logger.Warn("Malformed end date on expired member", "user_id", member.UserID, "end_date", *member.SubscriptionEndDate)
		}
	}
	b.sendWithKeyboard(b.cfg.Telegram.AdminID, text, keyboard.Approval(member.UserID))
	logger.Info("Join request forwarded to administrator", "user_id", ev.UserID)
}

// Commands

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	b.send(msg.Chat.ID,
		"👋 <b>Welcome to the channel gatekeeper!</b>\n\n"+
			"🤖 I manage member subscriptions for your channel:\n"+
			"- join requests are routed to you for approval\n"+
			"- subscriptions are time-boxed and tracked\n"+
			"- expired members are removed daily\n\n"+
			"Use /help for the full command list.")
}

func (b *Bot) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	b.send(msg.Chat.ID,
		"🤖 <b>Administrator commands</b>\n\n"+
			"👥 Member management:\n"+
			"- <code>/ban @handle</code> — ban a member\n"+
			"- <code>/unban @handle</code> — lift a ban\n"+
			"- <code>/extend @handle</code> — re-grant a subscription\n\n"+
			"📊 Lists:\n"+
			"- <code>/active</code> — active members\n"+
			fmt.Sprintf("- <code>/expiring</code> — subscriptions ending within %d days\n", b.cfg.Subscription.ExpiringWindowDays)+
			"- <code>/all</code> — every member on record\n\n"+
			"🔍 Maintenance:\n"+
			"- <code>/check_subs</code> — run the expiry check now\n\n"+
			"💡 Commands taking a member accept a numeric ID or an @handle:\n"+
			"<code>/ban 123456</code>, <code>/extend @john_doe</code>")
}

func (b *Bot) handleBan(ctx context.Context, msg *tgbotapi.Message) {
	identifier, ok := b.identifierArg(msg, "/ban")
	if !ok {
		return
	}
	member, err := b.gatekeeper.Ban(ctx, identifier)
	if err != nil {
		b.replyLookupError(msg.Chat.ID, identifier, err)
		return
	}
	b.send(msg.Chat.ID, fmt.Sprintf("🚫 Member <b>%s</b> has been banned.", member.Mention()))
}

func (b *Bot) handleUnban(ctx context.Context, msg *tgbotapi.Message) {
	identifier, ok := b.identifierArg(msg, "/unban")
	if !ok {
		return
	}
	member, err := b.gatekeeper.Unban(ctx, identifier)
	if errors.Is(err, service.ErrNotBanned) {
		b.send(msg.Chat.ID, "ℹ️ This member is not banned.")
		return
	}
	if err != nil {
		b.replyLookupError(msg.Chat.ID, identifier, err)
		return
	}
	b.send(msg.Chat.ID, fmt.Sprintf("✅ Member <b>%s</b> has been unbanned. They may now apply again.", member.Mention()))
}

func (b *Bot) handleExtend(ctx context.Context, msg *tgbotapi.Message) {
	identifier, ok := b.identifierArg(msg, "/extend")
	if !ok {
		return
	}
	member, err := b.gatekeeper.Extend(ctx, identifier)
	if err != nil {
		b.replyLookupError(msg.Chat.ID, identifier, err)
		return
	}
	text := fmt.Sprintf("Pick a new subscription length for <b>%s</b>.\n<i>The current subscription will be replaced.</i>", member.Mention())
	b.sendWithKeyboard(msg.Chat.ID, text, keyboard.SubscriptionPicker(member.UserID, b.cfg.Subscription.PlanDays))
}

func (b *Bot) handleActive(ctx context.Context, msg *tgbotapi.Message) {
	members, err := b.gatekeeper.ListActive(ctx)
	b.replyList(msg.Chat.ID, members, err, listTypeActive)
}

func (b *Bot) handleExpiring(ctx context.Context, msg *tgbotapi.Message) {
	members, err := b.gatekeeper.ListExpiringSoon(ctx, b.cfg.Subscription.ExpiringWindowDays)
	b.replyList(msg.Chat.ID, members, err, listTypeExpiring)
}

func (b *Bot) handleAll(ctx context.Context, msg *tgbotapi.Message) {
	members, err := b.gatekeeper.ListAll(ctx)
	b.replyList(msg.Chat.ID, members, err, listTypeAll)
}

func (b *Bot) handleCheckSubs(ctx context.Context, msg *tgbotapi.Message) {
	b.send(msg.Chat.ID, "🔄 Running the subscription check...")
	result := b.gatekeeper.RunSweepNow(ctx)
	if !result.Success {
		// The sweep already notified the admin with the failure message.
		logger.Error("Manual subscription check failed", "run_id", result.RunID, "error", result.Err)
		return
	}
	logger.Info("Manual subscription check finished",
		"run_id", result.RunID, "before", result.Before, "after", result.After, "expired", result.ExpiredCount)
}

func (b *Bot) identifierArg(msg *tgbotapi.Message, command string) (string, bool) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 1 {
		b.send(msg.Chat.ID, fmt.Sprintf("⚠️ Give a member ID or @handle.\nExample: <code>%s 123456</code> or <code>%s @nickname</code>", command, command))
		return "", false
	}
	return args[0], true
}

func (b *Bot) replyLookupError(chatID int64, identifier string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		b.send(chatID, msgNotFound)
		return
	}
	logger.Error("Admin command failed", "identifier", identifier, "error", err)
	b.send(chatID, msgFailure)
}

func (b *Bot) replyList(chatID int64, members []domain.Member, err error, listType string) {
	if err != nil {
		logger.Error("Failed to list members", "list_type", listType, "error", err)
		b.send(chatID, msgFailure)
		return
	}
	text, markup := b.formatMembersPage(members, 1, listType)
	if markup == nil {
		b.send(chatID, text)
		return
	}
	b.sendWithKeyboard(chatID, text, *markup)
}

// Callbacks

func (b *Bot) onApprove(ctx context.Context, cb *tgbotapi.CallbackQuery, data keyboard.Callback) {
	member, err := b.gatekeeper.Find(ctx, strconv.FormatInt(data.UserID, 10))
	if errors.Is(err, repository.ErrNotFound) {
		b.alert(cb.ID, "Member not found in the database.")
		return
	}
	if err != nil {
		logger.Error("Failed to load member for approval", "user_id", data.UserID, "error", err)
		b.alert(cb.ID, msgFailure)
		return
	}
	if cb.Message != nil {
		text := fmt.Sprintf("Pick a subscription length for <b>%s</b>:", member.Mention())
		b.editWithKeyboard(cb.Message.Chat.ID, cb.Message.MessageID, text, keyboard.SubscriptionPicker(data.UserID, b.cfg.Subscription.PlanDays))
	}
	b.answer(cb.ID, "")
}

func (b *Bot) onSetSubscription(ctx context.Context, cb *tgbotapi.CallbackQuery, data keyboard.Callback) {
	member, endDate, err := b.gatekeeper.Grant(ctx, data.UserID, data.Days)
	if errors.Is(err, repository.ErrNotFound) {
		b.alert(cb.ID, "Member not found in the database.")
		return
	}
	if err != nil {
		logger.Error("Failed to grant subscription", "user_id", data.UserID, "days", data.Days, "error", err)
		if cb.Message != nil {
			b.edit(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("⚠️ Failed to process the subscription for %d. See the logs for details.", data.UserID))
		}
		b.answer(cb.ID, "")
		return
	}
	if cb.Message != nil {
		b.edit(cb.Message.Chat.ID, cb.Message.MessageID,
			fmt.Sprintf("✅ Done! Member <b>%s</b> is in the channel until %s.", member.Mention(), displayDate(&endDate)))
	}
	b.answer(cb.ID, "")
}

func (b *Bot) onDecline(ctx context.Context, cb *tgbotapi.CallbackQuery, data keyboard.Callback) {
	member, err := b.gatekeeper.Decline(ctx, data.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		b.alert(cb.ID, "Member not found in the database.")
		return
	}
	if err != nil {
		logger.Error("Failed to decline join request", "user_id", data.UserID, "error", err)
		if cb.Message != nil {
			b.edit(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("⚠️ Failed to decline the request from %d.", data.UserID))
		}
		b.answer(cb.ID, "")
		return
	}
	if cb.Message != nil {
		b.edit(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("❌ Join request from <b>%s</b> declined.", member.Mention()))
	}
	b.answer(cb.ID, "")
}

func (b *Bot) onBan(ctx context.Context, cb *tgbotapi.CallbackQuery, data keyboard.Callback) {
	member, err := b.gatekeeper.Ban(ctx, strconv.FormatInt(data.UserID, 10))
	if errors.Is(err, repository.ErrNotFound) {
		b.alert(cb.ID, "Member not found in the database.")
		return
	}
	if err != nil {
		logger.Error("Failed to ban member", "user_id", data.UserID, "error", err)
		b.alert(cb.ID, msgFailure)
		return
	}
	if cb.Message != nil {
		b.edit(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("🚫 Member <b>%s</b> has been banned.", member.Mention()))
	}
	b.answer(cb.ID, "")
}

func (b *Bot) onList(ctx context.Context, cb *tgbotapi.CallbackQuery, data keyboard.Callback) {
	var members []domain.Member
	var err error
	switch data.ListType {
	case listTypeActive:
		members, err = b.gatekeeper.ListActive(ctx)
	case listTypeExpiring:
		members, err = b.gatekeeper.ListExpiringSoon(ctx, b.cfg.Subscription.ExpiringWindowDays)
	default:
		members, err = b.gatekeeper.ListAll(ctx)
	}
	if err != nil {
		logger.Error("Failed to paginate members", "list_type", data.ListType, "error", err)
		b.alert(cb.ID, msgFailure)
		return
	}
	text, markup := b.formatMembersPage(members, data.Page, data.ListType)
	if cb.Message != nil {
		if markup != nil {
			b.editWithKeyboard(cb.Message.Chat.ID, cb.Message.MessageID, text, *markup)
		} else {
			// The list emptied since the page was sent; drop the stale
			// buttons along with the rows.
			b.edit(cb.Message.Chat.ID, cb.Message.MessageID, text)
		}
	}
	b.answer(cb.ID, "")
}

func (b *Bot) onNoop(ctx context.Context, cb *tgbotapi.CallbackQuery, data keyboard.Callback) {
	b.answer(cb.ID, "")
}
