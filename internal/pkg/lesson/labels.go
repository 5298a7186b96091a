package lesson

type Labels struct {
	Completed  string
	InProgress string
	NotStarted string

	Reopen   string
	Complete string
	Start    string

	NoAverage    string
	RatingsCount string
	YourRating   string
	Star         string

	ChooseRating        string
	RatingSaved         string
	RatingFailed        string
	StatusRefreshFailed string
	StatusChangeFailed  string
}

var russianLabels = Labels{
	Completed:  "✅ Завершено",
	InProgress: "⏳ В процессе",
	NotStarted: "❌ Не начат",

	Reopen:   "Вернуть в процесс",
	Complete: "Завершить",
	Start:    "Начать",

	NoAverage:    "—",
	RatingsCount: "(%d оценок)",
	YourRating:   "Ваша оценка:",
	Star:         "★",

	ChooseRating:        "Пожалуйста, выберите оценку",
	RatingSaved:         "Оценка сохранена",
	RatingFailed:        "Ошибка при сохранении оценки",
	StatusRefreshFailed: "Ошибка при обновлении статуса урока",
	StatusChangeFailed:  "Ошибка при изменении статуса урока",
}

var englishLabels = Labels{
	Completed:  "✅ Completed",
	InProgress: "⏳ In progress",
	NotStarted: "❌ Not started",

	Reopen:   "Back to in progress",
	Complete: "Complete",
	Start:    "Start",

	NoAverage:    "—",
	RatingsCount: "(%d ratings)",
	YourRating:   "Your rating:",
	Star:         "★",

	ChooseRating:        "Please choose a rating",
	RatingSaved:         "Rating saved",
	RatingFailed:        "Could not save the rating",
	StatusRefreshFailed: "Could not refresh the lesson status",
	StatusChangeFailed:  "Could not change the lesson status",
}

// LabelsFor returns the labels for a locale, Russian when the locale is
// unknown.
func LabelsFor(locale string) Labels {
	if locale == "en" {
		return englishLabels
	}

	return russianLabels
}
