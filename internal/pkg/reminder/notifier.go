package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Config struct {
	TopicARN string
	Window   time.Duration
	Location *time.Location
}

// Batch is the notifier's input: the reminders to consider and, optionally,
// the instant to evaluate them at.
type Batch struct {
	Settings []Setting `json:"settings"`
	Now      string    `json:"now,omitempty"`
}

// Result lists the events that were reminded so their last_reminded date
// can be stamped.
type Result struct {
	Sent    []string `json:"sent"`
	Skipped int      `json:"skipped"`
}

type Notifier struct {
	Log    *logrus.Entry
	Config Config
	SNS    Publisher
	Now    func() time.Time
}

func (n *Notifier) HandleBatch(ctx context.Context, batch Batch) (Result, error) {
	now := n.now()

	if batch.Now != "" {
		t, err := time.Parse(time.RFC3339, batch.Now)
		if err != nil {
			return Result{}, fmt.Errorf("error parsing batch time %w", err)
		}
		now = t
	}

	return n.Notify(ctx, batch.Settings, now)
}

// Notify publishes one message per due reminder. Publishing failures do not
// stop the remaining reminders and are returned joined.
func (n *Notifier) Notify(ctx context.Context, settings []Setting, now time.Time) (Result, error) {
	now = now.In(n.location())

	n.log().WithField("count", len(settings)).Info("checking reminders")

	var evalErrs []error

	due := filterSettings(settings, func(s Setting) bool {
		log := n.log().WithFields(logrus.Fields{"event_id": s.EventID, "event_title": s.EventTitle})

		ok, reason, err := Due(s, now, n.window())
		if err != nil {
			log.WithError(err).Error("error evaluating reminder")
			evalErrs = append(evalErrs, err)
			return false
		}

		if !ok {
			log.WithField("reason", reason).Debug("skipping reminder")
		}

		return ok
	})

	result := Result{Sent: make([]string, 0, len(due)), Skipped: len(settings) - len(due)}

	var publishErrs []error

	for _, setting := range due {
		if err := n.publish(ctx, setting); err != nil {
			publishErrs = append(publishErrs, err)
			continue
		}

		result.Sent = append(result.Sent, setting.EventID)
	}

	n.log().WithField("sent", len(result.Sent)).Info("reminders sent")

	return result, errors.Join(append(evalErrs, publishErrs...)...)
}

func (n *Notifier) publish(ctx context.Context, setting Setting) error {
	message := setting.Message()

	input := &sns.PublishInput{
		Message:  aws.String(message),
		TopicArn: aws.String(n.Config.TopicARN),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(setting.EventID),
			},
			"notification_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(uuid.NewString()),
			},
		},
	}

	_, err := n.SNS.Publish(ctx, input)
	if err != nil {
		n.log().WithError(err).WithField("event_id", setting.EventID).Error("error publishing reminder")
		return fmt.Errorf("error publishing reminder for event %s to AWS SNS topic %s: %w", setting.EventID, n.Config.TopicARN, err)
	}

	n.log().WithField("event_id", setting.EventID).Info(message)

	return nil
}

func (n *Notifier) now() time.Time {
	if n.Now == nil {
		return time.Now()
	}

	return n.Now()
}

func (n *Notifier) window() time.Duration {
	if n.Config.Window <= 0 {
		return DefaultWindow
	}

	return n.Config.Window
}

func (n *Notifier) location() *time.Location {
	if n.Config.Location == nil {
		return time.UTC
	}

	return n.Config.Location
}

func (n *Notifier) log() *logrus.Entry {
	if n.Log == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}

	return n.Log
}
