package calendar

import (
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	EventDialogID  = "eventModal"
	DeleteDialogID = "deleteEventModal"
)

var fragmentLayouts = []string{
	"2006-01-02",
	"2006-01",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

type Options struct {
	Labels   Labels
	Location *time.Location
	Now      func() time.Time
	Log      *logrus.Entry
}

// View is the month on display and the date the page should scroll to.
type View struct {
	Month          time.Time
	Focus          time.Time
	ScrollIntoView bool
}

type DayDetails struct {
	Date   string
	Events []Event
	HTML   template.HTML
}

// Widget holds the calendar page state. It is driven from a single
// goroutine.
type Widget struct {
	Log *logrus.Entry

	events   []Event
	labels   Labels
	location *time.Location
	now      func() time.Time

	view          View
	eventDialog   bool
	deleteDialog  bool
	pendingDelete string
}

func NewWidget(events []Event, opts Options) *Widget {
	w := &Widget{
		Log:      opts.Log,
		events:   events,
		labels:   opts.Labels,
		location: opts.Location,
		now:      opts.Now,
	}

	if w.Log == nil {
		w.Log = logrus.NewEntry(logrus.StandardLogger())
	}

	if w.labels == (Labels{}) {
		w.labels = russianLabels
	}

	if w.location == nil {
		w.location = time.UTC
	}

	if w.now == nil {
		w.now = time.Now
	}

	return w
}

// Initialize shows the current month, or the date named by the location
// fragment when there is a valid one.
func (w *Widget) Initialize(location string) View {
	today := w.now().In(w.location)
	w.view = View{Month: monthOf(today), Focus: today}

	fragment := locationFragment(location)
	if fragment == "" {
		return w.view
	}

	date, err := parseFragment(fragment, w.location)
	if err != nil {
		w.Log.WithError(err).WithField("fragment", fragment).Warn("invalid date in location fragment")
		return w.view
	}

	w.view = View{Month: monthOf(date), Focus: date, ScrollIntoView: true}

	return w.view
}

// DateClick lists the events starting on date and opens the details dialog.
func (w *Widget) DateClick(date string) (DayDetails, error) {
	matched := filterEvents(w.events, startsOn(date))

	html, err := renderCards(matched, w.labels)
	if err != nil {
		w.Log.WithError(err).WithField("date", date).Error("error rendering day details")
		return DayDetails{}, err
	}

	w.eventDialog = true

	return DayDetails{Date: date, Events: matched, HTML: html}, nil
}

func (w *Widget) ShowDeleteConfirmation(eventID string) {
	w.pendingDelete = eventID
	w.deleteDialog = true
}

func (w *Widget) CloseDeleteModal() {
	w.deleteDialog = false
	w.pendingDelete = ""
}

func (w *Widget) CloseEventModal() {
	w.eventDialog = false
}

// ClickOutside closes the dialog whose backdrop was clicked.
func (w *Widget) ClickOutside(dialogID string) {
	switch dialogID {
	case EventDialogID:
		w.CloseEventModal()
	case DeleteDialogID:
		w.CloseDeleteModal()
	}
}

func (w *Widget) View() View {
	return w.view
}

func (w *Widget) Events() []Event {
	return w.events
}

func (w *Widget) EventDialogOpen() bool {
	return w.eventDialog
}

func (w *Widget) DeleteDialogOpen() bool {
	return w.deleteDialog
}

func (w *Widget) PendingDelete() string {
	return w.pendingDelete
}

func locationFragment(location string) string {
	if strings.HasPrefix(location, "#") {
		return location[1:]
	}

	u, err := url.Parse(location)
	if err != nil {
		if i := strings.IndexByte(location, '#'); i >= 0 {
			return location[i+1:]
		}
		return ""
	}

	return u.Fragment
}

func parseFragment(fragment string, loc *time.Location) (time.Time, error) {
	var lastErr error

	for _, layout := range fragmentLayouts {
		date, err := time.ParseInLocation(layout, fragment, loc)
		if err == nil {
			return date, nil
		}
		lastErr = err
	}

	return time.Time{}, lastErr
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
