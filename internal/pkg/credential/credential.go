package credential

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

const (
	DefaultCookieName = "csrftoken"
	DefaultFieldName  = "csrfmiddlewaretoken"
)

// Provider supplies the current anti-forgery token. An empty string means no
// token is available; callers still send the request.
type Provider interface {
	Token() string
}

type ProviderFunc func() string

func (f ProviderFunc) Token() string {
	return f()
}

type Static string

func (s Static) Token() string {
	return string(s)
}

// Cookie reads the token from a cookie jar every time Token is called, so a
// cookie rotated by the server is picked up on the next request.
type Cookie struct {
	Jar  http.CookieJar
	URL  *url.URL
	Name string
}

func NewCookie(jar http.CookieJar, baseURL string, name string) (*Cookie, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing base url %w", err)
	}

	if name == "" {
		name = DefaultCookieName
	}

	return &Cookie{Jar: jar, URL: u, Name: name}, nil
}

func (c *Cookie) Token() string {
	if c == nil || c.Jar == nil || c.URL == nil {
		return ""
	}

	for _, cookie := range c.Jar.Cookies(c.URL) {
		if cookie.Name != c.Name {
			continue
		}

		value, err := url.PathUnescape(cookie.Value)
		if err != nil {
			return cookie.Value
		}

		return value
	}

	return ""
}

// PageField holds the token embedded in a rendered page as a hidden input.
// The value lives as long as the page it was read from.
type PageField struct {
	Name string

	mu    sync.RWMutex
	value string
}

func NewPageField(name string) *PageField {
	if name == "" {
		name = DefaultFieldName
	}

	return &PageField{Name: name}
}

// Load replaces the held token with the value of the first input named
// p.Name found in the page. A page without the field clears the token.
func (p *PageField) Load(page io.Reader) error {
	value, err := FindField(page, p.Name)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.value = value
	p.mu.Unlock()

	return nil
}

func (p *PageField) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.value
}

func FindField(page io.Reader, name string) (string, error) {
	tokenizer := html.NewTokenizer(page)

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != io.EOF {
				return "", fmt.Errorf("error reading page %w", err)
			}

			return "", nil
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			if token.Data != "input" {
				continue
			}

			if value, ok := fieldValue(token, name); ok {
				return value, nil
			}
		}
	}
}

func fieldValue(token html.Token, name string) (string, bool) {
	var (
		matched bool
		value   string
	)

	for _, attr := range token.Attr {
		switch strings.ToLower(attr.Key) {
		case "name":
			matched = attr.Val == name
		case "value":
			value = attr.Val
		}
	}

	return value, matched
}

// First returns the token of the first provider that has one.
type First []Provider

func (f First) Token() string {
	for _, provider := range f {
		if provider == nil {
			continue
		}

		if token := provider.Token(); token != "" {
			return token
		}
	}

	return ""
}
