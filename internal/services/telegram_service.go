package services

import (
	"fmt"
	"html"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gestor/internal/models"
)

// TelegramService relays notifications to users who linked a chat. It is
// optional end to end: a nil service or an unlinked user is a silent skip.
type TelegramService struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramService returns nil when no bot token is configured.
func NewTelegramService(botToken string) *TelegramService {
	if botToken == "" {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[tg][warn] bot init failed, relay disabled: %v", err)
		return nil
	}
	log.Printf("[tg] relay enabled as @%s", bot.Self.UserName)
	return &TelegramService{bot: bot}
}

func (t *TelegramService) SendNotification(chatID int64, n *models.Notification) error {
	if t == nil || t.bot == nil || chatID == 0 {
		return nil
	}
	text := "🔔 <b>" + html.EscapeString(n.Title) + "</b>"
	if n.Description != nil && *n.Description != "" {
		text += "\n" + html.EscapeString(*n.Description)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
