package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

const (
	rateLessonEndpoint   = "/training/rate/%s/"
	lessonStatusEndpoint = "/training/status/%s/%s/%s/"
	lessonEndpoint       = "/training/lesson/%s/"

	ratingField = "rating"
	petIDField  = "pet_id"
	petQueryKey = "pet"
)

// Scalar accepts a JSON string or number and keeps its text.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = Scalar(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("error unmarshalling scalar %w", err)
	}

	*s = Scalar(number.String())

	return nil
}

func (s Scalar) String() string {
	return string(s)
}

// RatingResult is the server's answer to a rating submission.
type RatingResult struct {
	Status        string   `json:"status"`
	Message       string   `json:"message"`
	AverageRating *float64 `json:"average_rating"`
	RatingsCount  int      `json:"ratings_count"`
	UserRating    Scalar   `json:"user_rating"`
}

// StatusResult carries either a rendered fragment or the new status.
type StatusResult struct {
	StatusHTML string `json:"status_html"`
	NewStatus  string `json:"new_status"`
	PetID      Scalar `json:"pet_id"`
	LessonID   Scalar `json:"lesson_id"`
}

func (client *Client) RateLesson(ctx context.Context, lessonID, rating, petID string) (*Response, error) {
	form := NewForm().Append(ratingField, rating)
	if petID != "" {
		form.Append(petIDField, petID)
	}

	return client.Send(ctx, Request{
		Target:      fmt.Sprintf(rateLessonEndpoint, url.PathEscape(lessonID)),
		Method:      MethodPost,
		Payload:     form,
		ContentType: NoContentType,
	})
}

func (client *Client) ToggleLessonStatus(ctx context.Context, petID, lessonID, newStatus string) (*Response, error) {
	return client.Send(ctx, Request{
		Target: fmt.Sprintf(lessonStatusEndpoint,
			url.PathEscape(petID),
			url.PathEscape(lessonID),
			url.PathEscape(newStatus),
		),
		Method: MethodPost,
	})
}

func (client *Client) GetLessonStatus(ctx context.Context, lessonID, petID string) (*Response, error) {
	query := url.Values{}
	query.Set(petQueryKey, petID)

	return client.Send(ctx, Request{
		Target: fmt.Sprintf(lessonEndpoint, url.PathEscape(lessonID)) + "?" + query.Encode(),
		Method: MethodGet,
	})
}

// DecodeRating interprets a rating response. A non-structured body is
// returned as an error since there is nothing to present from it.
func DecodeRating(resp *Response) (RatingResult, error) {
	var result RatingResult
	if err := resp.Decode(&result); err != nil {
		return RatingResult{}, err
	}

	return result, nil
}

// DecodeStatus interprets a status response. Raw text bodies are treated
// as a rendered fragment.
func DecodeStatus(resp *Response) (StatusResult, error) {
	if !resp.Structured() {
		return StatusResult{StatusHTML: resp.Text}, nil
	}

	var result StatusResult
	if err := resp.Decode(&result); err != nil {
		return StatusResult{}, err
	}

	return result, nil
}
