package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/datatypes"

	weekModel "weekreport_backend/internals/features/weeks/model"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, f.err
}

func sampleWeek() weekModel.WeekModel {
	url := "https://files.example.com/tuan-19.pdf"
	return weekModel.WeekModel{
		WeekNumber:        19,
		WeekYear:          2024,
		WeekStartDate:     datatypes.Date(time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)),
		WeekEndDate:       datatypes.Date(time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)),
		WeekStatus:        weekModel.WeekStatusCompleted,
		WeekReportFileURL: &url,
	}
}

func TestCompletedMessage(t *testing.T) {
	msg := CompletedMessage(sampleWeek())
	for _, want := range []string{"19/2024", "2024-05-06", "2024-05-12", "tuan-19.pdf"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q lacks %q", msg, want)
		}
	}

	w := sampleWeek()
	w.WeekReportFileURL = nil
	if strings.Contains(CompletedMessage(w), "📎") {
		t.Fatalf("no attachment line without a report file")
	}
}

func TestDeliver_SendsToConfiguredChat(t *testing.T) {
	f := &fakeSender{}
	n := &TelegramNotifier{api: f, chatID: -100123}

	if err := n.deliver(sampleWeek()); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if len(f.sent) != 1 || f.sent[0].ChatID != -100123 {
		t.Fatalf("sent=%+v", f.sent)
	}

	f.err = errors.New("telegram down")
	if err := n.deliver(sampleWeek()); err == nil {
		t.Fatalf("send error must surface")
	}
}

func TestWeekCompleted_NilNotifierIsNoop(t *testing.T) {
	var n *TelegramNotifier
	n.WeekCompleted(context.Background(), sampleWeek())
}

func TestNewTelegramNotifierFromEnv_DisabledWithoutConfig(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	if n := NewTelegramNotifierFromEnv(); n != nil {
		t.Fatalf("want nil notifier, got %+v", n)
	}
}
