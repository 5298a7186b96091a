package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"

	"github.com/adiazny/pet-training-client/internal/pkg/credential"
)

const (
	DefaultTokenHeader = "X-CSRFToken"

	requestedWithHeaderKey = "X-Requested-With"
	requestedWithValue     = "XMLHttpRequest"

	requestIDHeaderKey   = "X-Request-ID"
	contentTypeHeaderKey = "Content-Type"

	defaultTimeout = 10 * time.Second
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	BaseURL     string
	TokenHeader string
	Timeout     time.Duration
}

type Client struct {
	Log         *logrus.Entry
	Config      Config
	HTTP        HTTPClient
	Credentials credential.Provider
}

// New returns a client whose transport keeps cookies for the server it
// talks to. The jar is returned so credential providers can read from it.
func New(cfg Config, creds credential.Provider, log *logrus.Entry) (*Client, http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, nil, fmt.Errorf("error creating cookie jar %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	client := &Client{
		Log:         log,
		Config:      cfg,
		Credentials: creds,
		HTTP: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
	}

	return client, jar, nil
}

// Send performs one exchange. Non-success statuses come back as
// *TransportError, failed exchanges as *NetworkError.
func (client *Client) Send(ctx context.Context, request Request) (*Response, error) {
	method, err := request.method()
	if err != nil {
		return nil, err
	}

	target, err := client.resolve(request.Target)
	if err != nil {
		return nil, err
	}

	body, payloadContentType, err := request.body()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("error creating http request %w", err)
	}

	requestID := uuid.NewString()

	req.Header.Set(client.tokenHeader(), client.token())
	req.Header.Set(requestedWithHeaderKey, requestedWithValue)
	req.Header.Set(requestIDHeaderKey, requestID)

	switch {
	case request.ContentType != NoContentType:
		req.Header.Set(contentTypeHeaderKey, request.contentType())
	case payloadContentType != "":
		req.Header.Set(contentTypeHeaderKey, payloadContentType)
	}

	log := client.log().WithFields(logrus.Fields{
		"method":     method,
		"url":        target,
		"request_id": requestID,
	})

	resp, err := client.HTTP.Do(req)
	if err != nil {
		log.WithError(err).Error("request failed")
		return nil, &NetworkError{Method: method, URL: target, Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.WithField("status", resp.StatusCode).Warn("unsuccessful response")
		return nil, &TransportError{StatusCode: resp.StatusCode, Method: method, URL: target}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Error("reading response failed")
		return nil, &NetworkError{Method: method, URL: target, Err: fmt.Errorf("error reading response body %w", err)}
	}

	log.WithField("status", resp.StatusCode).Debug("request completed")

	return newResponse(resp.StatusCode, resp.Header.Get(contentTypeHeaderKey), data)
}

func (client *Client) resolve(target string) (string, error) {
	if target == "" {
		return "", errEmptyTarget
	}

	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("error parsing request target %w", err)
	}

	if ref.IsAbs() || client.Config.BaseURL == "" {
		return ref.String(), nil
	}

	base, err := url.Parse(client.Config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("error parsing base url %w", err)
	}

	return base.ResolveReference(ref).String(), nil
}

func (client *Client) token() string {
	if client.Credentials == nil {
		return ""
	}

	return client.Credentials.Token()
}

func (client *Client) tokenHeader() string {
	if client.Config.TokenHeader == "" {
		return DefaultTokenHeader
	}

	return client.Config.TokenHeader
}

func (client *Client) log() *logrus.Entry {
	if client.Log == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}

	return client.Log
}
