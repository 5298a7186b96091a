package lesson

import (
	"bytes"
	"fmt"
	"html/template"
)

const ratingTemplate = `<div class="circle-average"><span class="circle-main{{if .View.AverageEmpty}} empty{{end}}">{{.View.Average}}</span> <span class="rating-count">{{.View.CountText}}</span></div>
<div id="user-rating-display"><p>{{.Labels.YourRating}} <b>{{.View.UserRating}}</b></p></div>
<div class="rating-stars">{{range .View.Stars}}<input type="radio" name="rating" id="star{{.Value}}" value="{{.Value}}"{{if .Checked}} checked{{end}}><label for="star{{.Value}}"{{if .Active}} class="active"{{end}}>{{$.Labels.Star}}</label>{{end}}</div>`

const statusTemplate = `{{if .Prerendered}}{{.Fragment}}{{else}}<span class="status-{{.Class}}">{{.Label}}</span>
<a href="#" onclick="handleLessonStatus({{.Action.PetID}}, {{.Action.LessonID}}, {{.Action.NextStatus}}); return false;" class="status-action-link">{{.Action.Label}}</a>{{end}}`

const noticeTemplate = `<div class="{{if eq .Kind "error"}}error-message{{else}}success-message{{end}}">{{.Text}}</div>`

// Renderer turns view-models into HTML fragments.
type Renderer struct {
	Labels Labels

	rating *template.Template
	status *template.Template
	notice *template.Template
}

func NewRenderer(labels Labels) *Renderer {
	return &Renderer{
		Labels: labels,
		rating: template.Must(template.New("rating").Parse(ratingTemplate)),
		status: template.Must(template.New("status").Parse(statusTemplate)),
		notice: template.Must(template.New("notice").Parse(noticeTemplate)),
	}
}

func (r *Renderer) Rating(view RatingView) (template.HTML, error) {
	return execute(r.rating, struct {
		View   RatingView
		Labels Labels
	}{View: view, Labels: r.Labels})
}

func (r *Renderer) Status(view StatusView) (template.HTML, error) {
	return execute(r.status, view)
}

func (r *Renderer) Notice(notice Notice) (template.HTML, error) {
	return execute(r.notice, notice)
}

type Fragments struct {
	Rating template.HTML
	Status template.HTML
	Notice template.HTML
}

// Update renders the parts of an update that are set.
func (r *Renderer) Update(update Update) (Fragments, error) {
	var (
		fragments Fragments
		err       error
	)

	if update.Rating != nil {
		if fragments.Rating, err = r.Rating(*update.Rating); err != nil {
			return Fragments{}, err
		}
	}

	if update.Status != nil {
		if fragments.Status, err = r.Status(*update.Status); err != nil {
			return Fragments{}, err
		}
	}

	if update.Notice != nil {
		if fragments.Notice, err = r.Notice(*update.Notice); err != nil {
			return Fragments{}, err
		}
	}

	return fragments, nil
}

func execute(tmpl *template.Template, data any) (template.HTML, error) {
	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, data); err != nil {
		return "", fmt.Errorf("error rendering %s template %w", tmpl.Name(), err)
	}

	return template.HTML(buf.String()), nil
}
