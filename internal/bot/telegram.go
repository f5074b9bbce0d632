package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of tgbotapi.BotAPI used to reply.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramBot struct {
	bot     *tgbotapi.BotAPI
	sender  sender
	handler *Handler
	chatID  int64
}

func NewTelegramBot(token string, chatID int64, handler *Handler) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &TelegramBot{
		bot:     bot,
		sender:  bot,
		handler: handler,
		chatID:  chatID,
	}, nil
}

// Start serves commands until ctx is cancelled.
func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Authorized on account", "username", t.bot.Self.UserName)
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)
	defer t.bot.StopReceivingUpdates()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.dispatch(update)
		case <-ctx.Done():
			return nil
		}
	}
}

// dispatch answers one update. Commands go to the handler, plain text gets
// a pointer to /help. Updates without a message are ignored.
func (t *TelegramBot) dispatch(update tgbotapi.Update) {
	if update.Message == nil || update.Message.Chat == nil {
		return
	}

	var reply tgbotapi.Chattable
	if update.Message.IsCommand() {
		slog.Debug("Handling command",
			"chat_id", update.Message.Chat.ID,
			"command", update.Message.Command())
		reply = t.handler.HandleCommand(update)
	} else {
		reply = tgbotapi.NewMessage(update.Message.Chat.ID, "Send a command, e.g. /players England | Premier League. Use /help to see them all.")
	}

	if _, err := t.sender.Send(reply); err != nil {
		slog.Error("Error sending reply", "chat_id", update.Message.Chat.ID, "error", err)
	}
}

// SendMessage posts a Markdown message to the configured chat. The scheduler
// uses it for refresh digests.
func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		return fmt.Errorf("chat ID not set")
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := t.sender.Send(msg); err != nil {
		slog.Error("Error sending message", "chat_id", t.chatID, "error", err)
		return fmt.Errorf("sending to chat %d: %w", t.chatID, err)
	}
	return nil
}
