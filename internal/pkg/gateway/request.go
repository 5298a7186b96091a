package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

type Method string

const (
	MethodGet  Method = http.MethodGet
	MethodPost Method = http.MethodPost
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"

	// NoContentType leaves the Content-Type header unset so the payload can
	// declare its own, e.g. a multipart boundary.
	NoContentType = "none"
)

var (
	errEmptyTarget       = errors.New("error request target is empty")
	errUnsupportedMethod = errors.New("error request method must be GET or POST")
)

// Request describes one exchange. The zero ContentType means JSON.
type Request struct {
	Target      string
	Method      Method
	Payload     any
	ContentType string
}

func (r Request) method() (string, error) {
	switch r.Method {
	case "":
		return http.MethodGet, nil
	case MethodGet, MethodPost:
		return string(r.Method), nil
	default:
		return "", fmt.Errorf("%w, got %q", errUnsupportedMethod, r.Method)
	}
}

func (r Request) contentType() string {
	if r.ContentType == "" {
		return ContentTypeJSON
	}

	return r.ContentType
}

// body returns the encoded payload and the content type the payload itself
// requires, which is only set for multipart forms.
func (r Request) body() (io.Reader, string, error) {
	if r.Payload == nil {
		return nil, "", nil
	}

	if form, ok := r.Payload.(*Form); ok && form == nil {
		return nil, "", nil
	}

	contentType := r.contentType()

	if isJSON(contentType) {
		data, err := json.Marshal(r.Payload)
		if err != nil {
			return nil, "", fmt.Errorf("error marshalling request payload %w", err)
		}

		return bytes.NewReader(data), "", nil
	}

	switch payload := r.Payload.(type) {
	case *Form:
		return payload.encode()
	case url.Values:
		return strings.NewReader(payload.Encode()), "", nil
	case []byte:
		return bytes.NewReader(payload), "", nil
	case string:
		return strings.NewReader(payload), "", nil
	case io.Reader:
		return payload, "", nil
	default:
		return nil, "", fmt.Errorf("error payload of type %T can not be sent as %q", r.Payload, contentType)
	}
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, ContentTypeJSON)
	}

	return mediaType == ContentTypeJSON
}

type formField struct {
	name  string
	value string
}

// Form is an ordered multipart form payload.
type Form struct {
	fields []formField
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) Append(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// MarshalJSON lets a form be sent as a JSON object; repeated names keep the
// last value.
func (f *Form) MarshalJSON() ([]byte, error) {
	values := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		values[field.name] = field.value
	}

	return json.Marshal(values)
}

func (f *Form) encode() (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for _, field := range f.fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("error writing form field %s %w", field.name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("error closing multipart form %w", err)
	}

	return buf, writer.FormDataContentType(), nil
}
