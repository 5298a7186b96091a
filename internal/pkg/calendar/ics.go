package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

const (
	defaultProductID = "-//Pet Training Client//Calendar//RU"

	PropDone = "X-PET-DONE"

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

type ICSOptions struct {
	ProductID string
	Location  *time.Location
	Now       time.Time
}

// WriteICS writes events as an iCalendar document, one VEVENT per event.
func WriteICS(w io.Writer, events []Event, opts ICSOptions) error {
	cal, err := toICal(events, opts)
	if err != nil {
		return err
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("error encoding calendar %w", err)
	}

	return nil
}

func toICal(events []Event, opts ICSOptions) (*ical.Calendar, error) {
	productID := opts.ProductID
	if productID == "" {
		productID = defaultProductID
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, event := range events {
		vevent, err := toVEvent(event, loc, now.UTC())
		if err != nil {
			return nil, err
		}

		cal.Children = append(cal.Children, vevent)
	}

	return cal, nil
}

func toVEvent(event Event, loc *time.Location, now time.Time) (*ical.Component, error) {
	props := event.ExtendedProps

	vevent := ical.NewComponent(ical.CompEvent)

	uid := props.ID
	if uid == "" {
		uid = uuid.NewString()
	}

	vevent.Props.SetText(ical.PropUID, uid)
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, now)
	vevent.Props.SetText(ical.PropSummary, event.Title)

	if err := setStart(vevent, event, loc); err != nil {
		return nil, err
	}

	if props.Note != "" {
		vevent.Props.SetText(ical.PropDescription, props.Note)
	}

	if props.EditURL != "" {
		link := ical.NewProp(ical.PropURL)
		link.Value = props.EditURL
		vevent.Props.Set(link)
	}

	if props.IsYearly {
		vevent.Props.SetRecurrenceRule(&rrule.ROption{Freq: rrule.YEARLY})
	}

	done := "FALSE"
	if props.IsDone {
		done = "TRUE"
	}

	vevent.Props.SetText(PropDone, done)

	return vevent, nil
}

// setStart writes DTSTART as a date for all-day events and as a UTC
// date-time when the event carries a time of day.
func setStart(vevent *ical.Component, event Event, loc *time.Location) error {
	if day, err := time.ParseInLocation(dateLayout, event.Start, loc); err == nil {
		clock := strings.TrimSpace(event.ExtendedProps.Time)
		if clock == "" {
			dtstart := ical.NewProp(ical.PropDateTimeStart)
			dtstart.SetDate(day)
			vevent.Props.Set(dtstart)

			return nil
		}

		at, err := time.ParseInLocation(timeLayout, clock[:min(len(clock), len(timeLayout))], loc)
		if err != nil {
			return fmt.Errorf("error parsing time of event %q %w", event.Title, err)
		}

		start := time.Date(day.Year(), day.Month(), day.Day(), at.Hour(), at.Minute(), 0, 0, loc)
		vevent.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())

		return nil
	}

	for _, layout := range dateTimeLayouts {
		if start, err := time.ParseInLocation(layout, event.Start, loc); err == nil {
			vevent.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
			return nil
		}
	}

	return fmt.Errorf("error parsing start %q of event %q", event.Start, event.Title)
}
