package calendar

import (
	"bytes"
	"fmt"
	"html/template"
)

const cardSeparator = "<br>"

const cardTemplate = `<div class="event-card {{if .Props.IsDone}}done{{else}}not-done{{end}}">
<b>{{.Event.Title}}{{if .Props.IsYearly}}{{.Labels.Yearly}}{{end}}</b><br>
{{if .Props.Time}}{{.Labels.Time}} {{.Props.Time}}<br>{{end -}}
{{if .Props.Note}}{{.Labels.Note}} {{.Props.Note}}<br>{{end -}}
{{if .Props.Remind}}<i>{{.Labels.Remind}} {{.Props.Remind}}</i><br>{{end -}}
{{if .Props.IsDone}}{{.Labels.Done}}{{else}}{{.Labels.NotDone}}{{end}}<br>
<div class="event-actions">
<a href="{{.Props.EditURL}}" class="btn">{{.Labels.Edit}}</a>
{{- if not .Props.IsDone}}
<a href="{{.Props.DoneURL}}" class="btn" onclick="return confirm({{.Labels.ConfirmComplete}})">{{.Labels.Complete}}</a>
{{- end}}
{{- if .Props.IsYearly}}
<a href="#" class="btn" onclick="calendarHandler.showDeleteConfirmation({{.Props.ID}}); return false;">{{.Labels.Delete}}</a>
{{- else}}
<a href="{{.Props.DeleteURL}}" class="btn" onclick="return confirm({{.Labels.ConfirmDelete}})">{{.Labels.Delete}}</a>
{{- end}}
</div>
</div>`

var cardTmpl = template.Must(template.New("card").Parse(cardTemplate))

type cardData struct {
	Event  Event
	Props  ExtendedProps
	Labels Labels
}

// renderCards renders one card per event, in order, or the empty-day
// placeholder.
func renderCards(events []Event, labels Labels) (template.HTML, error) {
	if len(events) == 0 {
		return template.HTML("<p>" + template.HTMLEscapeString(labels.NoEvents) + "</p>"), nil
	}

	buf := &bytes.Buffer{}

	for i, event := range events {
		if i > 0 {
			buf.WriteString(cardSeparator)
		}

		data := cardData{Event: event, Props: event.ExtendedProps, Labels: labels}
		if err := cardTmpl.Execute(buf, data); err != nil {
			return "", fmt.Errorf("error rendering event card %w", err)
		}
	}

	return template.HTML(buf.String()), nil
}
