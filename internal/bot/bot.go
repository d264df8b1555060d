package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/averin/shiftbot/internal/domain"
	"github.com/averin/shiftbot/internal/punch"
	"github.com/averin/shiftbot/internal/report"
	"github.com/averin/shiftbot/internal/store"
	"github.com/averin/shiftbot/internal/timecalc"
)

// Bot dispatches Telegram updates to the punch, picker and report
// services. Each update is handled in its own goroutine; the only state
// shared between them is the picker's selection map and the store.
type Bot struct {
	api         *tgbotapi.BotAPI
	repo        store.Repository
	punch       *punch.Service
	picker      *report.Picker
	generator   *report.Generator
	pollTimeout int
	now         func() time.Time
}

// New creates a bot bound to an authorized Telegram API client.
func New(api *tgbotapi.BotAPI, repo store.Repository, punchSvc *punch.Service, picker *report.Picker, generator *report.Generator, pollTimeout int) *Bot {
	return &Bot{
		api:         api,
		repo:        repo,
		punch:       punchSvc,
		picker:      picker,
		generator:   generator,
		pollTimeout: pollTimeout,
		now:         time.Now,
	}
}

// Run consumes the long-polling update channel until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.pollTimeout

	updates := b.api.GetUpdatesChan(cfg)

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	slog.Info("Update loop started", "bot", b.api.Self.UserName)

	for update := range updates {
		go b.handleUpdate(ctx, update)
	}

	slog.Info("Update loop stopped")
}

// handleUpdate routes one inbound update. A panic while handling a
// single interaction must not take down the process.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while handling update", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Text == "" {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	switch msg.Text {
	case btnStartDay:
		b.handleStartDay(ctx, msg)
	case btnEndDay:
		b.handleEndDay(ctx, msg)
	case btnAddAction:
		b.reply(msg.Chat.ID, msgAddActionPrompt)
	case btnReport:
		b.handleBeginReport(msg)
	case btnToday:
		b.handleToday(ctx, msg)
	default:
		b.handleAddTask(ctx, msg)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		name := msg.From.FirstName
		out := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(msgWelcome, name))
		out.ReplyMarkup = mainKeyboard()
		b.send(out)
	case "today":
		b.handleToday(ctx, msg)
	case "report":
		b.handleBeginReport(msg)
	case "add_action":
		b.reply(msg.Chat.ID, msgAddActionPrompt)
	case "reset_today":
		b.handleResetToday(ctx, msg)
	}
}

func (b *Bot) handleStartDay(ctx context.Context, msg *tgbotapi.Message) {
	now := b.now()
	date := timecalc.Today(now)
	clock := timecalc.Clock(now)

	res, err := b.punch.Start(ctx, msg.From.ID, date, clock)
	if err != nil {
		slog.Error("Start punch failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, msgStorageFailure)
		return
	}

	if res.NeedsConfirm {
		out := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
			"⏰ Начало рабочего дня уже было установлено: %s\nХотите перезаписать на текущее время (%s)?",
			res.ExistingTime, res.PendingTime))
		out.ReplyMarkup = overwriteKeyboard(Callback{Kind: CallbackConfirmStart, Clock: res.PendingTime})
		b.send(out)
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"🟢 Начало рабочего дня установлено!\n📅 Дата: %s\n🕐 Время: %s\nХорошего рабочего дня! 💼",
		timecalc.FormatDate(date), clock))
}

func (b *Bot) handleEndDay(ctx context.Context, msg *tgbotapi.Message) {
	now := b.now()
	date := timecalc.Today(now)
	clock := timecalc.Clock(now)

	res, err := b.punch.End(ctx, msg.From.ID, date, clock)
	if errors.Is(err, punch.ErrNotStarted) {
		b.reply(msg.Chat.ID, msgNotStarted)
		return
	}
	if err != nil {
		slog.Error("End punch failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, msgStorageFailure)
		return
	}

	if res.NeedsConfirm {
		out := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
			"⏰ Конец рабочего дня уже был установлен: %s\nХотите перезаписать на текущее время (%s)?",
			res.ExistingTime, res.PendingTime))
		out.ReplyMarkup = overwriteKeyboard(Callback{Kind: CallbackConfirmEnd, Clock: res.PendingTime})
		b.send(out)
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"🔴 Конец рабочего дня установлен!\n📅 Дата: %s\n🕐 Начало: %s\n🕔 Конец: %s\n⏱ Фактически отработано: %.1f часов\n🍽 С учетом обеда: %.1f часов\nХорошего отдыха! 🌙",
		timecalc.FormatDate(date), res.Day.StartTime, res.Day.EndTime, res.ActualHours, res.AdjustedHours))
}

func (b *Bot) handleAddTask(ctx context.Context, msg *tgbotapi.Message) {
	now := b.now()
	date := timecalc.Today(now)
	description := strings.TrimSpace(msg.Text)
	if description == "" {
		return
	}

	task := &domain.WorkTask{
		UserID:      msg.From.ID,
		Date:        date,
		Description: description,
		CreatedAt:   now,
	}
	if err := b.repo.AddTask(ctx, task); err != nil {
		slog.Error("Add task failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, msgStorageFailure)
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"✅ Выполненное действие добавлено!\n\n📅 Дата: %s\n📝 Действие: %s",
		timecalc.FormatDate(date), description))
}

func (b *Bot) handleToday(ctx context.Context, msg *tgbotapi.Message) {
	now := b.now()
	date := timecalc.Today(now)
	userID := msg.From.ID

	day, err := b.repo.GetWorkDay(ctx, userID, date)
	if err != nil {
		slog.Error("Load today failed", "user_id", userID, "error", err)
		b.reply(msg.Chat.ID, msgStorageFailure)
		return
	}
	tasks, err := b.repo.TasksForDay(ctx, userID, date)
	if err != nil {
		slog.Error("Load today tasks failed", "user_id", userID, "error", err)
		b.reply(msg.Chat.ID, msgStorageFailure)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 Сегодня: %s\n", timecalc.FormatDate(date))

	switch {
	case day == nil:
		sb.WriteString("❌ Рабочий день не начат\n")
	default:
		if day.Started() {
			fmt.Fprintf(&sb, "🟢 Начало: %s\n", day.StartTime)
		} else {
			sb.WriteString("❌ Начало дня не установлено\n")
		}
		if day.Complete() {
			actual, adjusted := timecalc.WorkHours(day.StartTime, day.EndTime)
			fmt.Fprintf(&sb, "🔴 Конец: %s\n", day.EndTime)
			fmt.Fprintf(&sb, "⏱ Фактически: %.1f часов\n", actual)
			fmt.Fprintf(&sb, "🍽 С учетом обеда: %.1f часов\n", adjusted)
		} else {
			sb.WriteString("❌ Конец дня не установлен\n")
		}
	}

	if len(tasks) > 0 {
		sb.WriteString("\n✅ Выполненные действия:\n")
		for i, task := range tasks {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, task.Description)
		}
	} else {
		sb.WriteString("\n❌ Действия не добавлены")
	}

	b.reply(msg.Chat.ID, strings.TrimRight(sb.String(), "\n"))
}

func (b *Bot) handleResetToday(ctx context.Context, msg *tgbotapi.Message) {
	date := timecalc.Today(b.now())

	if err := b.punch.Reset(ctx, msg.From.ID, date); err != nil {
		slog.Error("Reset today failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, msgStorageFailure)
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"🔄 Данные за сегодня (%s) сброшены!\nТеперь можно заново установить начало и конец рабочего дня.",
		timecalc.FormatDate(date)))
}

func (b *Bot) handleBeginReport(msg *tgbotapi.Message) {
	years := b.picker.Begin(msg.From.ID)

	out := tgbotapi.NewMessage(msg.Chat.ID, msgPickYear)
	out.ReplyMarkup = yearKeyboard(years)
	b.send(out)
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	cb, err := ParseCallback(q.Data)
	if err != nil {
		slog.Warn("Unparseable callback payload", "error", err)
		if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(q.ID, msgUnknownButton)); err != nil {
			slog.Warn("Failed to answer callback query", "error", err)
		}
		return
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		slog.Warn("Failed to answer callback query", "error", err)
	}
	if q.Message == nil || q.From == nil {
		return
	}

	chatID := q.Message.Chat.ID
	messageID := q.Message.MessageID
	userID := q.From.ID

	switch cb.Kind {
	case CallbackBackToYears:
		years := b.picker.Begin(userID)
		b.edit(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, msgPickYear, yearKeyboard(years)))

	case CallbackCancelReport:
		b.picker.Cancel(userID)
		b.edit(tgbotapi.NewEditMessageText(chatID, messageID, "❌ Формирование отчета отменено."))

	case CallbackPickYear:
		if err := b.picker.ChooseYear(userID, cb.Year); err != nil {
			b.edit(tgbotapi.NewEditMessageText(chatID, messageID, msgSelectionExpired))
			return
		}
		text := fmt.Sprintf("📅 Выберите месяц для %d года:", cb.Year)
		b.edit(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, monthKeyboard(cb.Year)))

	case CallbackPickMonth:
		days, err := b.picker.ChooseMonth(userID, cb.Year, cb.Month)
		if err != nil {
			b.edit(tgbotapi.NewEditMessageText(chatID, messageID, msgSelectionExpired))
			return
		}
		text := fmt.Sprintf("📅 Выберите день (%s %d):", monthNames[cb.Month-1], cb.Year)
		b.edit(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, dayKeyboard(cb.Year, cb.Month, days)))

	case CallbackPickDay:
		rng, err := b.picker.ChooseDay(userID, cb.Year, cb.Month, cb.Day)
		if err != nil {
			b.edit(tgbotapi.NewEditMessageText(chatID, messageID, msgSelectionExpired))
			return
		}
		text, err := b.generator.Generate(ctx, userID, rng.StartDate, rng.EndDate)
		if err != nil {
			slog.Error("Report generation failed", "user_id", userID, "error", err)
			b.edit(tgbotapi.NewEditMessageText(chatID, messageID, msgStorageFailure))
			return
		}
		b.edit(tgbotapi.NewEditMessageText(chatID, messageID, text))

	case CallbackConfirmStart:
		b.handleConfirmStart(ctx, userID, chatID, messageID, cb.Clock)

	case CallbackConfirmEnd:
		b.handleConfirmEnd(ctx, userID, chatID, messageID, cb.Clock)

	case CallbackCancelOverwrite:
		b.edit(tgbotapi.NewEditMessageText(chatID, messageID, "❌ Операция отменена."))
	}
}

func (b *Bot) handleConfirmStart(ctx context.Context, userID, chatID int64, messageID int, clock string) {
	date := timecalc.Today(b.now())

	if !timecalc.ValidClock(clock) {
		slog.Warn("Rejecting overwrite with malformed time", "user_id", userID, "clock", clock)
		b.edit(tgbotapi.NewEditMessageText(chatID, messageID, msgStorageFailure))
		return
	}

	if _, err := b.punch.ConfirmStart(ctx, userID, date, clock); err != nil {
		slog.Error("Confirm start overwrite failed", "user_id", userID, "error", err)
		b.edit(tgbotapi.NewEditMessageText(chatID, messageID, msgStorageFailure))
		return
	}

	b.edit(tgbotapi.NewEditMessageText(chatID, messageID, fmt.Sprintf(
		"✅ Время начала перезаписано!\n📅 Дата: %s\n🕐 Новое время: %s",
		timecalc.FormatDate(date), clock)))
}

func (b *Bot) handleConfirmEnd(ctx context.Context, userID, chatID int64, messageID int, clock string) {
	date := timecalc.Today(b.now())

	if !timecalc.ValidClock(clock) {
		slog.Warn("Rejecting overwrite with malformed time", "user_id", userID, "clock", clock)
		b.edit(tgbotapi.NewEditMessageText(chatID, messageID, msgStorageFailure))
		return
	}

	res, err := b.punch.ConfirmEnd(ctx, userID, date, clock)
	if errors.Is(err, punch.ErrNotStarted) {
		b.edit(tgbotapi.NewEditMessageText(chatID, messageID, msgNotStarted))
		return
	}
	if err != nil {
		slog.Error("Confirm end overwrite failed", "user_id", userID, "error", err)
		b.edit(tgbotapi.NewEditMessageText(chatID, messageID, msgStorageFailure))
		return
	}

	b.edit(tgbotapi.NewEditMessageText(chatID, messageID, fmt.Sprintf(
		"✅ Время окончания перезаписано!\n📅 Дата: %s\n🕐 Начало: %s\n🕔 Конец: %s\n⏱ Фактически отработано: %.1f часов\n🍽 С учетом обеда: %.1f часов",
		timecalc.FormatDate(date), res.Day.StartTime, res.Day.EndTime, res.ActualHours, res.AdjustedHours)))
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("Failed to send message", "chat_id", msg.ChatID, "error", err)
	}
}

func (b *Bot) edit(edit tgbotapi.EditMessageTextConfig) {
	if _, err := b.api.Send(edit); err != nil {
		slog.Error("Failed to edit message", "chat_id", edit.ChatID, "error", err)
	}
}
