// Package keyboard builds the inline keyboards the admin interacts with and
// encodes/decodes their callback payloads.
package keyboard

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback kinds carried in the callback data.
const (
	KindApprove         = "approve"
	KindDecline         = "decline"
	KindBan             = "ban"
	KindSetSubscription = "set_sub"
	KindList            = "list"
	KindNoop            = "noop"
)

// Callback is a decoded button press.
type Callback struct {
	Kind     string
	UserID   int64
	Days     int
	ListType string
	Page     int
}

// Approval is the prompt shown to the admin for a held join request:
// approve and decline side by side, ban below.
func Approval(userID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", fmt.Sprintf("approve_%d", userID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Decline", fmt.Sprintf("decline_%d", userID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚫 Ban", fmt.Sprintf("ban_%d", userID)),
		),
	)
}

// SubscriptionPicker renders the fixed set of subscription lengths, three
// buttons per row.
func SubscriptionPicker(userID int64, planDays []int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, days := range planDays {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			planLabel(days),
			fmt.Sprintf("set_sub_%d_%d", userID, days),
		))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Pagination renders prev/next controls around a page indicator.
func Pagination(listType string, page, totalPages int) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	if page > 1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀️ Prev", fmt.Sprintf("list_%s_%d", listType, page-1)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Page %d/%d", page, totalPages), KindNoop))
	if page < totalPages {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Next ▶️", fmt.Sprintf("list_%s_%d", listType, page+1)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(row...))
}

func planLabel(days int) string {
	switch days {
	case 7:
		return "1 week"
	case 14:
		return "2 weeks"
	case 30:
		return "1 month"
	case 60:
		return "2 months"
	case 90:
		return "3 months"
	}
	return fmt.Sprintf("%d days", days)
}

// ParseCallback decodes callback data produced by the builders above.
func ParseCallback(data string) (Callback, error) {
	if data == KindNoop {
		return Callback{Kind: KindNoop}, nil
	}
	parts := strings.Split(data, "_")
	switch {
	case len(parts) == 2 && (parts[0] == KindApprove || parts[0] == KindDecline || parts[0] == KindBan):
		userID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return Callback{}, fmt.Errorf("bad user id in callback %q: %w", data, err)
		}
		return Callback{Kind: parts[0], UserID: userID}, nil
	case len(parts) == 4 && parts[0] == "set" && parts[1] == "sub":
		userID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return Callback{}, fmt.Errorf("bad user id in callback %q: %w", data, err)
		}
		days, err := strconv.Atoi(parts[3])
		if err != nil {
			return Callback{}, fmt.Errorf("bad day count in callback %q: %w", data, err)
		}
		return Callback{Kind: KindSetSubscription, UserID: userID, Days: days}, nil
	case len(parts) == 3 && parts[0] == KindList:
		page, err := strconv.Atoi(parts[2])
		if err != nil {
			return Callback{}, fmt.Errorf("bad page in callback %q: %w", data, err)
		}
		return Callback{Kind: KindList, ListType: parts[1], Page: page}, nil
	}
	return Callback{}, fmt.Errorf("unrecognized callback data %q", data)
}
