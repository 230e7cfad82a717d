package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dispatch/internal/core/ports"
)

// inlineMarkup converts actions to an inline keyboard. An empty result still carries
// a non-nil row list, which Telegram reads as "no buttons".
func inlineMarkup(actions [][]ports.Action) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(actions))
	for _, row := range actions {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, a := range row {
			if a.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(a.Label, a.URL))
				continue
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(a.Label, a.Data))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func replyKeyboard(kb *ports.Keyboard) any {
	if kb.Remove {
		return tgbotapi.NewRemoveKeyboard(false)
	}
	rows := make([][]tgbotapi.KeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, b := range row {
			switch {
			case b.RequestContact:
				buttons = append(buttons, tgbotapi.NewKeyboardButtonContact(b.Text))
			case b.RequestLocation:
				buttons = append(buttons, tgbotapi.NewKeyboardButtonLocation(b.Text))
			default:
				buttons = append(buttons, tgbotapi.NewKeyboardButton(b.Text))
			}
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}

// replyMarkup picks the markup of an outgoing message. Inline actions win over a
// reply keyboard since a message carries only one.
func replyMarkup(msg ports.Message) any {
	switch {
	case len(msg.Actions) > 0:
		return inlineMarkup(msg.Actions)
	case msg.Keyboard != nil:
		return replyKeyboard(msg.Keyboard)
	default:
		return nil
	}
}

func parseMode(msg ports.Message) string {
	if msg.HTML {
		return tgbotapi.ModeHTML
	}
	return ""
}
