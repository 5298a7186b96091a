package lesson

import (
	"fmt"
	"html/template"
	"strconv"

	"github.com/adiazny/pet-training-client/internal/pkg/gateway"
)

const (
	StatusCompleted  = "completed"
	StatusInProgress = "in_progress"

	maxStars = 5
)

type Star struct {
	Value   string
	Checked bool
	Active  bool
}

type RatingView struct {
	Average      string
	AverageEmpty bool
	CountText    string
	UserRating   string
	Stars        []Star
}

type StatusAction struct {
	Label      string
	PetID      string
	LessonID   string
	NextStatus string
}

// StatusView is either a fragment rendered by the server or a badge with the
// action leading to the next status.
type StatusView struct {
	Fragment template.HTML
	Class    string
	Label    string
	Action   StatusAction
}

func (v StatusView) Prerendered() bool {
	return v.Fragment != ""
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

type Notice struct {
	Kind NoticeKind
	Text string
}

func PresentRating(result gateway.RatingResult, labels Labels) RatingView {
	view := RatingView{
		Average:      labels.NoAverage,
		AverageEmpty: true,
		CountText:    fmt.Sprintf(labels.RatingsCount, result.RatingsCount),
		UserRating:   result.UserRating.String(),
		Stars:        make([]Star, 0, maxStars),
	}

	if result.AverageRating != nil && *result.AverageRating != 0 {
		view.Average = strconv.FormatFloat(*result.AverageRating, 'f', 1, 64)
		view.AverageEmpty = false
	}

	for i := 1; i <= maxStars; i++ {
		value := strconv.Itoa(i)
		selected := value == view.UserRating

		view.Stars = append(view.Stars, Star{Value: value, Checked: selected, Active: selected})
	}

	return view
}

func PresentStatus(result gateway.StatusResult, labels Labels) StatusView {
	if result.StatusHTML != "" {
		return StatusView{Fragment: template.HTML(result.StatusHTML)}
	}

	action := StatusAction{
		PetID:    result.PetID.String(),
		LessonID: result.LessonID.String(),
	}

	switch result.NewStatus {
	case StatusCompleted:
		action.Label = labels.Reopen
		action.NextStatus = StatusInProgress

		return StatusView{Class: "completed", Label: labels.Completed, Action: action}
	case StatusInProgress:
		action.Label = labels.Complete
		action.NextStatus = StatusCompleted

		return StatusView{Class: "in-progress", Label: labels.InProgress, Action: action}
	default:
		action.Label = labels.Start
		action.NextStatus = StatusInProgress

		return StatusView{Class: "not-started", Label: labels.NotStarted, Action: action}
	}
}
