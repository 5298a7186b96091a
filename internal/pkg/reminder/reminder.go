package reminder

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	DefaultWindow = 3 * time.Minute
)

// Setting is a reminder attached to a calendar event.
type Setting struct {
	EventID      string `json:"event_id"`
	PetName      string `json:"pet_name"`
	EventTitle   string `json:"event_title"`
	EventDate    string `json:"event_date"`
	IsYearly     bool   `json:"is_yearly"`
	IsDone       bool   `json:"is_done"`
	RemindAt     string `json:"remind_at"`
	Repeat       bool   `json:"repeat"`
	RepeatDays   []int  `json:"repeat_days"`
	RemindDate   string `json:"remind_date"`
	LastReminded string `json:"last_reminded"`
}

// Message is the notification text sent to the pet's owners.
func (s Setting) Message() string {
	return fmt.Sprintf("%s: %s — сегодня в %s", s.PetName, s.EventTitle, s.remindClock())
}

func (s Setting) remindClock() string {
	clock := strings.TrimSpace(s.RemindAt)
	if len(clock) > len(timeLayout) {
		clock = clock[:len(timeLayout)]
	}

	return clock
}

// Due reports whether the reminder should fire at now. When it should not,
// the reason names the first rule that excluded it.
func Due(s Setting, now time.Time, window time.Duration) (bool, string, error) {
	if s.IsDone {
		return false, "event is done", nil
	}

	if s.RemindAt == "" {
		return false, "no reminder time", nil
	}

	today := now.Format(dateLayout)

	switch {
	case s.IsYearly:
		date, err := time.Parse(dateLayout, s.EventDate)
		if err != nil {
			return false, "", fmt.Errorf("error parsing event date %q %w", s.EventDate, err)
		}

		if date.Month() != now.Month() || date.Day() != now.Day() {
			return false, "month and day do not match", nil
		}
	case !s.Repeat:
		if s.RemindDate == "" || s.RemindDate != today {
			return false, "reminder date does not match", nil
		}
	default:
		if !slices.Contains(s.RepeatDays, weekday(now)) {
			return false, "weekday does not match", nil
		}
	}

	at, err := time.Parse(timeLayout, s.remindClock())
	if err != nil {
		return false, "", fmt.Errorf("error parsing reminder time %q %w", s.RemindAt, err)
	}

	target := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())

	if diff := now.Sub(target); diff < -window || diff > window {
		return false, "outside the reminder window", nil
	}

	if s.LastReminded == today {
		return false, "already reminded today", nil
	}

	return true, "", nil
}

// weekday numbers days from Monday as 0.
func weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func filterSettings(settings []Setting, matchFunc func(Setting) bool) []Setting {
	matched := make([]Setting, 0)

	for _, setting := range settings {
		if matchFunc(setting) {
			matched = append(matched, setting)
		}
	}

	return matched
}
