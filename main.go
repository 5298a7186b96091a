package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/adiazny/pet-training-client/internal/pkg/calendar"
	"github.com/adiazny/pet-training-client/internal/pkg/config"
	"github.com/adiazny/pet-training-client/internal/pkg/credential"
	"github.com/adiazny/pet-training-client/internal/pkg/gateway"
	"github.com/adiazny/pet-training-client/internal/pkg/lesson"
)

const (
	component = "pet-training"

	sessionCookieName = "sessionid"
)

const usage = `usage: pet-training <command> [flags]

commands:
  rate        -lesson ID -rating N [-pet ID]
  status      -lesson ID -pet ID
  set-status  -lesson ID -pet ID -to STATUS
  day         -events FILE -date YYYY-MM-DD [-location URL]
  export      -events FILE [-out FILE]
`

var errUsage = errors.New("error invalid usage")

func setup() (*config.Config, *logrus.Entry, error) {
	_, err := maxprocs.Set()
	if err != nil {
		return nil, nil, fmt.Errorf("error setting GOMAXPROCS %w", err)
	}

	conf, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, err
	}

	log, err := config.NewLogger(conf, os.Stderr, component)
	if err != nil {
		return nil, nil, err
	}

	return conf, log, nil
}

func main() {
	conf, log, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, conf, log, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		log.WithError(err).Error()
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, conf *config.Config, log *logrus.Entry, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	command, args := args[0], args[1:]
	log = log.WithField("command", command)

	switch command {
	case "rate", "status", "set-status":
		controller, primer, err := newController(conf, log)
		if err != nil {
			return err
		}
		return runLesson(ctx, controller, primer, command, args, stdout)
	case "day":
		return runDay(conf, log, args, stdout)
	case "export":
		return runExport(conf, args, stdout)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func newController(conf *config.Config, log *logrus.Entry) (*lesson.Controller, *pagePrimer, error) {
	if err := conf.ValidateClient(); err != nil {
		return nil, nil, err
	}

	page := credential.NewPageField(conf.CSRFFieldName)
	cookie := &credential.Cookie{Name: conf.CSRFCookieName}

	// the page field wins over the cookie: servers that sign their cookie
	// only accept the token rendered into the page
	client, jar, err := gateway.New(gateway.Config{
		BaseURL:     conf.BaseURL,
		TokenHeader: conf.CSRFHeader,
		Timeout:     conf.HTTPTimeout,
	}, credential.First{credential.Static(conf.CSRFToken), page, cookie}, log)
	if err != nil {
		return nil, nil, err
	}

	base, err := url.Parse(conf.BaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing base url %w", err)
	}

	cookie.Jar = jar
	cookie.URL = base

	var seeded []*http.Cookie

	if conf.SessionID != "" {
		seeded = append(seeded, &http.Cookie{Name: sessionCookieName, Value: conf.SessionID, Path: "/"})
	}

	if conf.CSRFToken != "" {
		seeded = append(seeded, &http.Cookie{Name: cookie.Name, Value: conf.CSRFToken, Path: "/"})
	}

	if len(seeded) > 0 {
		jar.SetCookies(base, seeded)
	}

	controller := &lesson.Controller{
		Gateway:  client,
		Renderer: lesson.NewRenderer(lesson.LabelsFor(conf.Locale)),
		Log:      log,
	}

	return controller, &pagePrimer{Gateway: client, Field: page, Log: log}, nil
}

// pagePrimer loads the lesson page before a mutating request so the server
// sets its anti-forgery cookie and the form token can be read.
type pagePrimer struct {
	Gateway *gateway.Client
	Field   *credential.PageField
	Log     *logrus.Entry
}

// Prime never fails the command: without a token the request is still sent
// and the server decides.
func (p *pagePrimer) Prime(ctx context.Context, lessonID, petID string) {
	if p == nil {
		return
	}

	log := p.Log.WithField("lesson_id", lessonID)

	resp, err := p.Gateway.GetLessonStatus(ctx, lessonID, petID)
	if err != nil {
		log.WithError(err).Warn("error loading lesson page")
		return
	}

	if resp.Structured() {
		return
	}

	if err := p.Field.Load(strings.NewReader(resp.Text)); err != nil {
		log.WithError(err).Warn("error reading token from lesson page")
	}
}

func runLesson(ctx context.Context, controller *lesson.Controller, primer *pagePrimer, command string, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet(command, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	lessonID := flags.String("lesson", "", "lesson id")
	petID := flags.String("pet", "", "pet id")
	rating := flags.String("rating", "", "rating from 1 to 5")
	status := flags.String("to", "", "new lesson status")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if *lessonID == "" {
		return fmt.Errorf("%w: -lesson is required", errUsage)
	}

	if command == "set-status" && (*petID == "" || *status == "") {
		return fmt.Errorf("%w: -pet and -to are required", errUsage)
	}

	var (
		update lesson.Update
		err    error
	)

	switch command {
	case "rate":
		if *rating != "" {
			primer.Prime(ctx, *lessonID, *petID)
		}
		update, err = controller.SubmitRating(ctx, lesson.RatingForm{LessonID: *lessonID, Rating: *rating, PetID: *petID})
	case "status":
		update, err = controller.ChangePet(ctx, *lessonID, *petID)
	case "set-status":
		primer.Prime(ctx, *lessonID, *petID)
		update, err = controller.SetLessonStatus(ctx, *petID, *lessonID, *status)
	}

	if renderErr := writeUpdate(controller.Renderer, update, stdout); renderErr != nil {
		return renderErr
	}

	return err
}

func writeUpdate(renderer *lesson.Renderer, update lesson.Update, stdout io.Writer) error {
	fragments, err := renderer.Update(update)
	if err != nil {
		return err
	}

	for _, fragment := range []string{string(fragments.Notice), string(fragments.Status), string(fragments.Rating)} {
		if fragment == "" {
			continue
		}

		if _, err := fmt.Fprintln(stdout, fragment); err != nil {
			return fmt.Errorf("error writing output %w", err)
		}
	}

	return nil
}

func runDay(conf *config.Config, log *logrus.Entry, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("day", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	eventsFile := flags.String("events", "", "calendar events json file")
	date := flags.String("date", "", "day to list")
	location := flags.String("location", "", "page location with an optional date fragment")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if *eventsFile == "" || *date == "" {
		return fmt.Errorf("%w: -events and -date are required", errUsage)
	}

	events, err := loadEvents(*eventsFile)
	if err != nil {
		return err
	}

	loc, err := conf.Location()
	if err != nil {
		return err
	}

	widget := calendar.NewWidget(events, calendar.Options{
		Labels:   calendar.LabelsFor(conf.Locale),
		Location: loc,
		Log:      log,
	})

	view := widget.Initialize(*location)
	log.WithFields(logrus.Fields{"month": view.Month.Format("2006-01"), "scroll": view.ScrollIntoView}).Debug("calendar initialized")

	details, err := widget.DateClick(*date)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(stdout, details.HTML); err != nil {
		return fmt.Errorf("error writing output %w", err)
	}

	return nil
}

func runExport(conf *config.Config, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("export", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	eventsFile := flags.String("events", "", "calendar events json file")
	out := flags.String("out", "", "ics file to write, stdout when empty")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if *eventsFile == "" {
		return fmt.Errorf("%w: -events is required", errUsage)
	}

	events, err := loadEvents(*eventsFile)
	if err != nil {
		return err
	}

	loc, err := conf.Location()
	if err != nil {
		return err
	}

	opts := calendar.ICSOptions{Location: loc}

	if *out == "" {
		return calendar.WriteICS(stdout, events, opts)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("error creating %s %w", *out, err)
	}

	if err := calendar.WriteICS(f, events, opts); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing %s %w", *out, err)
	}

	return nil
}

func loadEvents(path string) ([]calendar.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening events file %w", err)
	}
	defer f.Close()

	return calendar.LoadEvents(f)
}
