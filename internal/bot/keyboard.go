package bot

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Persistent reply-keyboard buttons. Incoming messages matching one of
// these are dispatched as actions, never logged as tasks.
const (
	btnStartDay  = "🟢 Начало рабочего дня"
	btnEndDay    = "🔴 Конец рабочего дня"
	btnAddAction = "📝 Добавить действие"
	btnReport    = "📊 Отчет"
	btnToday     = "📅 Сегодня"
)

var monthNames = [12]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnStartDay),
			tgbotapi.NewKeyboardButton(btnEndDay),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAddAction),
			tgbotapi.NewKeyboardButton(btnReport),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnToday),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func overwriteKeyboard(confirm Callback) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Перезаписать время", confirm.Encode()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", Callback{Kind: CallbackCancelOverwrite}.Encode()),
		),
	)
}

func yearKeyboard(years []int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, year := range years {
		cb := Callback{Kind: CallbackPickYear, Year: year}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(year), cb.Encode()))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, cancelReportRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func monthKeyboard(year int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, name := range monthNames {
		cb := Callback{Kind: CallbackPickMonth, Year: year, Month: i + 1}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(name, cb.Encode()))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Назад к выбору года", Callback{Kind: CallbackBackToYears}.Encode()),
		),
		cancelReportRow(),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func dayKeyboard(year, month, days int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for day := 1; day <= days; day++ {
		cb := Callback{Kind: CallbackPickDay, Year: year, Month: month, Day: day}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(day), cb.Encode()))
		if len(row) == 7 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	back := Callback{Kind: CallbackPickYear, Year: year}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Назад к выбору месяца", back.Encode()),
		),
		cancelReportRow(),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func cancelReportRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", Callback{Kind: CallbackCancelReport}.Encode()),
	)
}
