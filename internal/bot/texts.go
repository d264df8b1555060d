package bot

// User-facing texts. The bot's audience is Russian-speaking, matching
// the deployed keyboards and commands.
const (
	msgWelcome = `👋 Привет, %s!

Я бот для учета рабочего времени и выполненных действий.

📋 Доступные команды:
/start - Начало работы
/add_action - Добавить выполненное действие
/report - Выгрузить отчет за период
/today - Показать сегодняшний день
/reset_today - Сбросить сегодняшний день (для тестирования)

🎯 Используйте кнопки ниже для учета рабочего времени!`

	msgAddActionPrompt = `📝 Опишите выполненное действие:

Например:
• Монтаж электропроводки в квартире
• Установка розеток и выключателей
• Прокладка кабеля ВВГнг 3x2.5
• Подключение щитка освещения
• Замена электропроводки на кухне`

	msgNotStarted = "❌ Сначала нужно установить начало рабочего дня!\nНажмите кнопку '🟢 Начало рабочего дня'"

	msgPickYear = "📅 Выберите год для начальной даты отчета:"

	msgSelectionExpired = "❌ Выбор даты устарел. Нажмите «📊 Отчет», чтобы начать заново."

	msgStorageFailure = "⚠️ Произошла ошибка. Попробуйте еще раз позже."

	msgUnknownButton = "⚠️ Эта кнопка больше не работает."
)
