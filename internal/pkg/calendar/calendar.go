package calendar

import (
	"encoding/json"
	"fmt"
	"io"
)

type Event struct {
	Title         string        `json:"title"`
	Start         string        `json:"start"`
	ExtendedProps ExtendedProps `json:"extendedProps"`
}

type ExtendedProps struct {
	ID        string `json:"id"`
	Time      string `json:"time"`
	Note      string `json:"note"`
	Remind    string `json:"remind"`
	IsDone    bool   `json:"is_done"`
	IsYearly  bool   `json:"is_yearly"`
	EditURL   string `json:"edit_url"`
	DoneURL   string `json:"done_url"`
	DeleteURL string `json:"delete_url"`
}

// LoadEvents decodes the event list embedded in the calendar page.
func LoadEvents(r io.Reader) ([]Event, error) {
	var events []Event
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("error decoding calendar events %w", err)
	}

	return events, nil
}

func filterEvents(events []Event, matchFunc func(Event) bool) []Event {
	matched := make([]Event, 0)

	for _, event := range events {
		if matchFunc(event) {
			matched = append(matched, event)
		}
	}

	return matched
}

func startsOn(date string) func(Event) bool {
	return func(event Event) bool {
		return event.Start == date
	}
}
