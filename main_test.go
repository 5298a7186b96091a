package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/csrf"
	"github.com/sirupsen/logrus"

	"github.com/adiazny/pet-training-client/internal/pkg/config"
)

func TestRun_Rate(t *testing.T) {
	var (
		gotToken   string
		gotSession string
		gotRating  string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/training/rate/7/" {
			http.NotFound(w, r)
			return
		}

		gotToken = r.Header.Get("X-CSRFToken")
		if cookie, err := r.Cookie("sessionid"); err == nil {
			gotSession = cookie.Value
		}
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			gotRating = r.FormValue("rating")
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"success","message":"Оценка сохранена","average_rating":4,"ratings_count":1,"user_rating":4}`)
	}))
	defer server.Close()

	conf := testConfig(server.URL)
	out := &bytes.Buffer{}

	err := run(context.Background(), conf, testLogger(), []string{"rate", "-lesson", "7", "-rating", "4", "-pet", "3"}, out)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if gotToken != "token-from-env" || gotSession != "session-1" || gotRating != "4" {
		t.Errorf("server saw token %q session %q rating %q", gotToken, gotSession, gotRating)
	}

	for _, want := range []string{
		`<div class="success-message">Оценка сохранена</div>`,
		`<span class="circle-main">4.0</span>`,
		`<p>Ваша оценка: <b>4</b></p>`,
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("run() output missing %s in\n%s", want, out)
		}
	}
}

func TestRun_RateWithoutRating(t *testing.T) {
	conf := testConfig("http://127.0.0.1:1")
	out := &bytes.Buffer{}

	err := run(context.Background(), conf, testLogger(), []string{"rate", "-lesson", "7"}, out)
	if err == nil {
		t.Fatalf("run() without a rating returned no error")
	}

	if !strings.Contains(out.String(), "Пожалуйста, выберите оценку") {
		t.Errorf("run() output = %s, want the choose-a-rating notice", out)
	}
}

func TestRun_SetStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/training/status/3/7/completed/" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"new_status":"completed","pet_id":3,"lesson_id":7}`)
	}))
	defer server.Close()

	out := &bytes.Buffer{}

	err := run(context.Background(), testConfig(server.URL), testLogger(), []string{"set-status", "-lesson", "7", "-pet", "3", "-to", "completed"}, out)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if !strings.Contains(out.String(), `<span class="status-completed">✅ Завершено</span>`) {
		t.Errorf("run() output = %s", out)
	}
}

func TestRun_SetStatusWithPageToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/training/lesson/7/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html><body><form id="rating-form">%s</form></body></html>`, csrf.TemplateField(r))
	})
	mux.HandleFunc("/training/status/3/7/completed/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"new_status":"completed","pet_id":3,"lesson_id":7}`)
	})

	protect := csrf.Protect(
		[]byte("01234567890123456789012345678901"),
		csrf.Secure(false),
		csrf.Path("/"),
		csrf.CookieName("csrftoken"),
		csrf.RequestHeader("X-CSRFToken"),
		csrf.FieldName("csrfmiddlewaretoken"),
	)(mux)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protect.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	}))
	defer server.Close()

	args := []string{"set-status", "-lesson", "7", "-pet", "3", "-to", "completed"}

	t.Run("token read from the lesson page", func(t *testing.T) {
		conf := testConfig(server.URL)
		conf.CSRFToken = ""

		out := &bytes.Buffer{}

		if err := run(context.Background(), conf, testLogger(), args, out); err != nil {
			t.Fatalf("run() error = %v", err)
		}

		if !strings.Contains(out.String(), `<span class="status-completed">✅ Завершено</span>`) {
			t.Errorf("run() output = %s", out)
		}
	})

	t.Run("configured token the server never issued", func(t *testing.T) {
		out := &bytes.Buffer{}

		err := run(context.Background(), testConfig(server.URL), testLogger(), args, out)
		if err == nil {
			t.Fatalf("run() error = nil, want the request rejected")
		}

		if !strings.Contains(out.String(), "Ошибка при изменении статуса урока") {
			t.Errorf("run() output = %s, want the status change notice", out)
		}
	})
}

func TestRun_Day(t *testing.T) {
	path := writeEvents(t)
	out := &bytes.Buffer{}

	if err := run(context.Background(), testConfig(""), testLogger(), []string{"day", "-events", path, "-date", "2024-05-01"}, out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if !strings.Contains(out.String(), "<b>Прогулка</b>") {
		t.Errorf("run() output = %s", out)
	}

	out.Reset()

	if err := run(context.Background(), testConfig(""), testLogger(), []string{"day", "-events", path, "-date", "2024-05-02"}, out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != "<p>Нет событий</p>" {
		t.Errorf("run() output = %q, want the empty day placeholder", got)
	}
}

func TestRun_Export(t *testing.T) {
	path := writeEvents(t)
	out := &bytes.Buffer{}

	if err := run(context.Background(), testConfig(""), testLogger(), []string{"export", "-events", path}, out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	for _, want := range []string{"BEGIN:VCALENDAR", "SUMMARY:Прогулка", "DTSTART;VALUE=DATE:20240501"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("run() output missing %s in\n%s", want, out)
		}
	}
}

func TestRun_ExportToFile(t *testing.T) {
	path := writeEvents(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "events.ics")
	out := &bytes.Buffer{}

	if err := run(context.Background(), testConfig(""), testLogger(), []string{"export", "-events", path, "-out", target}, out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("run() wrote %q to stdout, want the file only", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("reading export error = %v", err)
	}

	for _, want := range []string{"BEGIN:VCALENDAR", "SUMMARY:Прогулка", "END:VCALENDAR"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("exported file missing %s in\n%s", want, data)
		}
	}

	missing := filepath.Join(dir, "missing", "events.ics")

	if err := run(context.Background(), testConfig(""), testLogger(), []string{"export", "-events", path, "-out", missing}, out); err == nil {
		t.Errorf("run() into a missing directory returned no error")
	}
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no command"},
		{name: "unknown command", args: []string{"feed"}},
		{name: "missing lesson", args: []string{"status", "-pet", "3"}},
		{name: "missing events", args: []string{"day", "-date", "2024-05-01"}},
		{name: "unknown flag", args: []string{"export", "-format", "csv"}},
	}
	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), testConfig("https://pets.test"), testLogger(), tt.args, io.Discard)

			if !errors.Is(err, errUsage) {
				t.Errorf("run() error = %v, want usage error", err)
			}
		})
	}
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		BaseURL:        baseURL,
		CSRFCookieName: "csrftoken",
		CSRFHeader:     "X-CSRFToken",
		CSRFFieldName:  "csrfmiddlewaretoken",
		CSRFToken:      "token-from-env",
		SessionID:      "session-1",
		HTTPTimeout:    5 * time.Second,
		Locale:         "ru",
		Timezone:       "UTC",
	}
}

func writeEvents(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "events.json")
	events := `[{"title":"Прогулка","start":"2024-05-01","extendedProps":{"id":"e1","is_done":false,"is_yearly":false,"edit_url":"/calendar/event/e1/edit/","done_url":"/calendar/event/e1/done/","delete_url":"/calendar/event/e1/delete/"}}]`

	if err := os.WriteFile(path, []byte(events), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}
