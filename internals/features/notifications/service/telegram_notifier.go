// file: internals/features/notifications/service/telegram_notifier.go
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"weekreport_backend/internals/configs"
	weekModel "weekreport_backend/internals/features/weeks/model"
	"weekreport_backend/internals/helpers/dbtime"
)

// sender is the part of *tgbotapi.BotAPI the notifier needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts a short message to one chat when a week report is completed.
type TelegramNotifier struct {
	api    sender
	chatID int64
}

// botLogger routes the bot library's own logging through lgr.
type botLogger struct{}

func (botLogger) Println(v ...interface{}) {
	lgr.Printf("[DEBUG] telegram: %s", strings.TrimSpace(fmt.Sprintln(v...)))
}

func (botLogger) Printf(format string, v ...interface{}) {
	lgr.Printf("[DEBUG] telegram: "+format, v...)
}

// NewTelegramNotifierFromEnv returns nil (notifications off) when TELEGRAM_BOT_TOKEN or
// TELEGRAM_CHAT_ID is missing or the bot cannot log in.
func NewTelegramNotifierFromEnv() *TelegramNotifier {
	token := strings.TrimSpace(configs.GetEnv("TELEGRAM_BOT_TOKEN"))
	rawChat := strings.TrimSpace(configs.GetEnv("TELEGRAM_CHAT_ID"))
	if token == "" || rawChat == "" {
		lgr.Printf("[INFO] telegram notifications disabled")
		return nil
	}
	chatID, err := strconv.ParseInt(rawChat, 10, 64)
	if err != nil {
		lgr.Printf("[WARN] TELEGRAM_CHAT_ID %q is not a number, notifications disabled", rawChat)
		return nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		lgr.Printf("[WARN] telegram login failed, notifications disabled: %v", err)
		return nil
	}
	if err := tgbotapi.SetLogger(botLogger{}); err != nil {
		lgr.Printf("[WARN] telegram logger: %v", err)
	}
	lgr.Printf("[INFO] telegram notifications as @%s", api.Self.UserName)
	return &TelegramNotifier{api: api, chatID: chatID}
}

// WeekCompleted sends in the background; the request that saved the week never waits on Telegram.
func (n *TelegramNotifier) WeekCompleted(_ context.Context, w weekModel.WeekModel) {
	if n == nil {
		return
	}
	go func() {
		if err := n.deliver(w); err != nil {
			lgr.Printf("[WARN] telegram notify week %d/%d: %v", w.WeekNumber, w.WeekYear, err)
		}
	}()
}

func (n *TelegramNotifier) deliver(w weekModel.WeekModel) error {
	msg := tgbotapi.NewMessage(n.chatID, CompletedMessage(w))
	msg.DisableWebPagePreview = true
	_, err := n.api.Send(msg)
	return err
}

// CompletedMessage is the chat text for a completed week.
func CompletedMessage(w weekModel.WeekModel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Báo cáo tuần %d/%d đã hoàn thành\n", w.WeekNumber, w.WeekYear)
	fmt.Fprintf(&b, "📅 %s → %s",
		dbtime.FormatDate(time.Time(w.WeekStartDate)),
		dbtime.FormatDate(time.Time(w.WeekEndDate)))
	if w.WeekReportFileURL != nil && *w.WeekReportFileURL != "" {
		fmt.Fprintf(&b, "\n📎 %s", *w.WeekReportFileURL)
	}
	return b.String()
}
