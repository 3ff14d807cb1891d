package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/omarshaarawi/statbot/internal/service"
)

type TelegramBot struct {
	bot     *tgbotapi.BotAPI
	handler *Handler
	chatID  int64
	maxLen  int
}

func NewTelegramBot(token string, chatID int64, maxLen int, handler *Handler) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &TelegramBot{
		bot:     bot,
		handler: handler,
		chatID:  chatID,
		maxLen:  maxLen,
	}, nil
}

func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Authorized on account", "username", t.bot.Self.UserName)
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)

	for {
		select {
		case update := <-updates:
			if update.Message == nil {
				continue
			}

			if update.Message.IsCommand() {
				for _, text := range t.handler.HandleCommand(ctx, update) {
					if err := t.sendTo(update.Message.Chat.ID, text); err != nil {
						slog.Error("Error sending message", "error", err)
					}
				}
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// SendMessage delivers text to the configured chat, split into chunks no
// longer than the transport-safe maximum.
func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		slog.Error("Chat ID not set")
		return fmt.Errorf("chat ID not set")
	}
	return t.sendTo(t.chatID, text)
}

func (t *TelegramBot) sendTo(chatID int64, text string) error {
	for _, chunk := range service.Chunk(text, t.maxLen) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = "Markdown"
		if _, err := t.bot.Send(msg); err != nil {
			slog.Error("Error sending message", "error", err)
			return err
		}
	}
	return nil
}
