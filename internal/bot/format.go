package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/keyboard"
)

const (
	listTypeActive   = "active"
	listTypeExpiring = "expiring"
	listTypeAll      = "all"
)

const displayDateLayout = "02.01.2006"

// formatMembersPage renders one page of a member list. The markup is nil
// when the list is empty.
func (b *Bot) formatMembersPage(members []domain.Member, page int, listType string) (string, *tgbotapi.InlineKeyboardMarkup) {
	if len(members) == 0 {
		return "No members found.", nil
	}

	pageSize := b.cfg.Subscription.PageSize
	totalPages := (len(members) + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(members) {
		end = len(members)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>Members (%s) — page %d/%d</b>\n\n", listTypeTitle(listType), page, totalPages)
	for _, m := range members[start:end] {
		switch listType {
		case listTypeActive, listTypeExpiring:
			fmt.Fprintf(&sb, "ID: <code>%d</code> — %s — until %s\n", m.UserID, m.Mention(), displayDate(m.SubscriptionEndDate))
		default:
			fmt.Fprintf(&sb, "ID: <code>%d</code> — %s — %s — until %s\n", m.UserID, m.Mention(), m.Status, displayDate(m.SubscriptionEndDate))
		}
	}

	markup := keyboard.Pagination(listType, page, totalPages)
	return sb.String(), &markup
}

func listTypeTitle(listType string) string {
	switch listType {
	case listTypeActive:
		return "active"
	case listTypeExpiring:
		return "expiring soon"
	default:
		return "all"
	}
}

func displayDate(date *string) string {
	if date == nil {
		return "no date"
	}
	t, err := time.Parse(domain.DateLayout, *date)
	if err != nil {
		return "invalid date"
	}
	return t.Format(displayDateLayout)
}
