package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	cfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/adiazny/pet-training-client/internal/pkg/config"
	"github.com/adiazny/pet-training-client/internal/pkg/reminder"
)

const component = "pet-reminders"

func setup() (*config.Config, error) {
	_, err := maxprocs.Set()
	if err != nil {
		return nil, fmt.Errorf("error setting GOMAXPROCS %w", err)
	}

	conf, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}

	if err := conf.ValidateNotifier(); err != nil {
		return nil, err
	}

	return conf, nil
}

func HandleRequest(ctx context.Context, batch reminder.Batch) (reminder.Result, error) {
	conf, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := config.NewLogger(conf, os.Stdout, component)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log.Info("starting up")

	defer log.Info("shutting down")

	awsConfig, err := cfg.LoadDefaultConfig(ctx)
	if err != nil {
		log.WithError(err).Error()
		os.Exit(1)
	}

	location, err := conf.Location()
	if err != nil {
		log.WithError(err).Error()
		os.Exit(1)
	}

	notifier := &reminder.Notifier{
		Log: log,
		Config: reminder.Config{
			TopicARN: conf.TopicARN,
			Window:   conf.ReminderWindow,
			Location: location,
		},
		SNS: sns.NewFromConfig(awsConfig),
	}

	return notifier.HandleBatch(ctx, batch)
}

func main() {
	lambda.Start(HandleRequest)
}
