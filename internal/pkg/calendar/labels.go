package calendar

type Labels struct {
	NoEvents string
	Yearly   string
	Time     string
	Note     string
	Remind   string
	Done     string
	NotDone  string

	Edit     string
	Complete string
	Delete   string

	ConfirmComplete string
	ConfirmDelete   string
}

var russianLabels = Labels{
	NoEvents: "Нет событий",
	Yearly:   " (Ежегодное)",
	Time:     "Время:",
	Note:     "Заметка:",
	Remind:   "Напомнить:",
	Done:     "✅ Выполнено",
	NotDone:  "❌ Не выполнено",

	Edit:     "✏️ Редактировать",
	Complete: "✅ Завершить",
	Delete:   "🗑 Удалить",

	ConfirmComplete: "Отметить событие как выполненное?",
	ConfirmDelete:   "Удалить событие?",
}

var englishLabels = Labels{
	NoEvents: "No events",
	Yearly:   " (Yearly)",
	Time:     "Time:",
	Note:     "Note:",
	Remind:   "Remind:",
	Done:     "✅ Done",
	NotDone:  "❌ Not done",

	Edit:     "✏️ Edit",
	Complete: "✅ Complete",
	Delete:   "🗑 Delete",

	ConfirmComplete: "Mark the event as done?",
	ConfirmDelete:   "Delete the event?",
}

func LabelsFor(locale string) Labels {
	if locale == "en" {
		return englishLabels
	}

	return russianLabels
}
