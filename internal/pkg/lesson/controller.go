package lesson

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/adiazny/pet-training-client/internal/pkg/gateway"
)

const ratingSuccess = "success"

var (
	ErrNoRating       = errors.New("no rating selected")
	ErrRatingRejected = errors.New("rating rejected by server")
)

type Gateway interface {
	RateLesson(ctx context.Context, lessonID, rating, petID string) (*gateway.Response, error)
	ToggleLessonStatus(ctx context.Context, petID, lessonID, newStatus string) (*gateway.Response, error)
	GetLessonStatus(ctx context.Context, lessonID, petID string) (*gateway.Response, error)
}

type RatingForm struct {
	LessonID string
	Rating   string
	PetID    string
}

// Update is what the page should change after an interaction. Nil parts are
// left as they are.
type Update struct {
	Rating *RatingView
	Status *StatusView
	Notice *Notice
}

type Controller struct {
	Gateway  Gateway
	Renderer *Renderer
	Log      *logrus.Entry
}

func (c *Controller) SubmitRating(ctx context.Context, form RatingForm) (Update, error) {
	labels := c.Renderer.Labels

	if form.Rating == "" {
		return errorUpdate(labels.ChooseRating), ErrNoRating
	}

	log := c.log().WithFields(logrus.Fields{"lesson_id": form.LessonID, "pet_id": form.PetID})

	resp, err := c.Gateway.RateLesson(ctx, form.LessonID, form.Rating, form.PetID)
	if err != nil {
		log.WithError(err).Error("error submitting rating")
		return errorUpdate(labels.RatingFailed), err
	}

	if !resp.Structured() {
		log.Debug("rating response carried no data")
		return Update{}, nil
	}

	result, err := gateway.DecodeRating(resp)
	if err != nil {
		log.WithError(err).Error("error decoding rating response")
		return errorUpdate(labels.RatingFailed), err
	}

	if result.Status != ratingSuccess {
		log.WithField("status", result.Status).Warn("rating rejected")

		message := result.Message
		if message == "" {
			message = labels.RatingFailed
		}

		return errorUpdate(message), fmt.Errorf("%w: %s", ErrRatingRejected, result.Message)
	}

	message := result.Message
	if message == "" {
		message = labels.RatingSaved
	}

	view := PresentRating(result, labels)

	return Update{Rating: &view, Notice: &Notice{Kind: NoticeSuccess, Text: message}}, nil
}

// ChangePet refreshes the lesson status for another pet.
func (c *Controller) ChangePet(ctx context.Context, lessonID, petID string) (Update, error) {
	if petID == "" {
		return Update{}, nil
	}

	log := c.log().WithFields(logrus.Fields{"lesson_id": lessonID, "pet_id": petID})

	resp, err := c.Gateway.GetLessonStatus(ctx, lessonID, petID)
	if err != nil {
		log.WithError(err).Error("error refreshing lesson status")
		return errorUpdate(c.Renderer.Labels.StatusRefreshFailed), err
	}

	result, err := gateway.DecodeStatus(resp)
	if err != nil {
		log.WithError(err).Error("error decoding lesson status")
		return errorUpdate(c.Renderer.Labels.StatusRefreshFailed), err
	}

	if result.StatusHTML == "" {
		return Update{}, nil
	}

	view := PresentStatus(result, c.Renderer.Labels)

	return Update{Status: &view}, nil
}

func (c *Controller) SetLessonStatus(ctx context.Context, petID, lessonID, newStatus string) (Update, error) {
	log := c.log().WithFields(logrus.Fields{"lesson_id": lessonID, "pet_id": petID, "new_status": newStatus})

	resp, err := c.Gateway.ToggleLessonStatus(ctx, petID, lessonID, newStatus)
	if err != nil {
		log.WithError(err).Error("error changing lesson status")
		return errorUpdate(c.Renderer.Labels.StatusChangeFailed), err
	}

	result, err := gateway.DecodeStatus(resp)
	if err != nil {
		log.WithError(err).Error("error decoding lesson status")
		return errorUpdate(c.Renderer.Labels.StatusChangeFailed), err
	}

	// the server may answer with the pet and lesson omitted
	if result.PetID == "" {
		result.PetID = gateway.Scalar(petID)
	}

	if result.LessonID == "" {
		result.LessonID = gateway.Scalar(lessonID)
	}

	view := PresentStatus(result, c.Renderer.Labels)

	return Update{Status: &view}, nil
}

func errorUpdate(text string) Update {
	return Update{Notice: &Notice{Kind: NoticeError, Text: text}}
}

func (c *Controller) log() *logrus.Entry {
	if c.Log == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}

	return c.Log
}
