package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errNotStructured = errors.New("error response is not structured data")

// Response holds either the decoded JSON value (Data) or the raw body (Text).
type Response struct {
	StatusCode  int
	ContentType string
	Data        any
	Text        string

	raw []byte
}

func (r *Response) Structured() bool {
	return isStructured(r.ContentType)
}

// Decode unmarshals a structured body into v.
func (r *Response) Decode(v any) error {
	if !r.Structured() {
		return fmt.Errorf("%w, content type %q", errNotStructured, r.ContentType)
	}

	if err := json.Unmarshal(r.raw, v); err != nil {
		return fmt.Errorf("error unmarshalling http response body %w", err)
	}

	return nil
}

// Field returns a top level field of a structured object body.
func (r *Response) Field(name string) (any, bool) {
	object, ok := r.Data.(map[string]any)
	if !ok {
		return nil, false
	}

	value, ok := object[name]
	return value, ok
}

func newResponse(statusCode int, contentType string, body []byte) (*Response, error) {
	resp := &Response{
		StatusCode:  statusCode,
		ContentType: contentType,
		raw:         body,
	}

	if !isStructured(contentType) {
		resp.Text = string(body)
		return resp, nil
	}

	if err := json.Unmarshal(body, &resp.Data); err != nil {
		return nil, fmt.Errorf("error unmarshalling http response body %w", err)
	}

	return resp, nil
}

func isStructured(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), ContentTypeJSON)
}
