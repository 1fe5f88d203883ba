package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type recordingBot struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (b *recordingBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if b.err != nil {
		return tgbotapi.Message{}, b.err
	}
	b.sent = append(b.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestSenderSplitsLongText(t *testing.T) {
	bot := &recordingBot{}
	sender := NewSender(bot)
	text := strings.Repeat("a", 3000) + "\n\n" + strings.Repeat("b", 3000)

	if err := sender.SendText(context.Background(), 42, text); err != nil {
		t.Fatalf("SendText вернул ошибку: %v", err)
	}
	if len(bot.sent) != 2 {
		t.Fatalf("ожидали 2 сообщения, получили %d", len(bot.sent))
	}
	for _, msg := range bot.sent {
		if msg.ChatID != 42 {
			t.Fatalf("неожиданный chat id %d", msg.ChatID)
		}
		if msg.ParseMode != tgbotapi.ModeHTML {
			t.Fatalf("ожидался HTML, получено %q", msg.ParseMode)
		}
	}
}

func TestSenderErrors(t *testing.T) {
	sender := NewSender(&recordingBot{err: errors.New("forbidden")})
	if err := sender.SendText(context.Background(), 1, "hi"); err == nil {
		t.Fatalf("ожидали ошибку отправки")
	}
	if err := NewSender(&recordingBot{}).SendText(context.Background(), 1, "  "); err == nil {
		t.Fatalf("ожидали ошибку для пустого текста")
	}
	if _, err := NewBotSender(""); err == nil {
		t.Fatalf("ожидали ошибку для пустого токена")
	}
}
