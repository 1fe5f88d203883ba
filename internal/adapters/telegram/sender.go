package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"news-dashboard/internal/infra/metrics"
)

// BotAPI: часть клиента Telegram, нужная для отправки сообщений.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Sender доставляет текст в чат Telegram, разбивая его по лимиту длины.
type Sender struct {
	bot   BotAPI
	limit int
}

// NewSender создаёт отправителя поверх клиента бота.
func NewSender(bot BotAPI) *Sender {
	return &Sender{bot: bot, limit: MessageLimit}
}

// NewBotSender подключается к Bot API по токену.
func NewBotSender(token string) (*Sender, error) {
	if token == "" {
		return nil, errors.New("telegram token is empty")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot api: %w", err)
	}
	return NewSender(api), nil
}

// SendText отправляет текст в HTML-разметке.
func (s *Sender) SendText(ctx context.Context, chatID int64, text string) error {
	parts := SplitMessage(text, s.limit)
	if len(parts) == 0 {
		return errors.New("telegram: empty message")
	}
	target := strconv.FormatInt(chatID, 10)
	for _, part := range parts {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		start := time.Now()
		_, err := s.bot.Send(msg)
		metrics.ObserveNetworkRequest("telegram", "send_message", target, start, err)
		if err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}
