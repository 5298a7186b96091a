package reminder_test

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/sirupsen/logrus"

	"github.com/adiazny/pet-training-client/internal/pkg/reminder"
)

// 2024-05-15 is a Wednesday.
var now = time.Date(2024, time.May, 15, 9, 1, 0, 0, time.UTC)

func TestDue(t *testing.T) {
	tests := []struct {
		name    string
		setting reminder.Setting
		now     time.Time
		want    bool
		wantErr bool
	}{
		{
			name:    "one-off on its date",
			setting: reminder.Setting{RemindAt: "09:00", RemindDate: "2024-05-15"},
			want:    true,
		},
		{
			name:    "one-off on another date",
			setting: reminder.Setting{RemindAt: "09:00", RemindDate: "2024-05-16"},
		},
		{
			name:    "one-off without a date",
			setting: reminder.Setting{RemindAt: "09:00"},
		},
		{
			name:    "done event",
			setting: reminder.Setting{IsDone: true, RemindAt: "09:00", RemindDate: "2024-05-15"},
		},
		{
			name:    "no reminder time",
			setting: reminder.Setting{RemindDate: "2024-05-15"},
		},
		{
			name:    "repeating on a listed weekday",
			setting: reminder.Setting{RemindAt: "09:00:00", Repeat: true, RepeatDays: []int{0, 2, 4}},
			want:    true,
		},
		{
			name:    "repeating on another weekday",
			setting: reminder.Setting{RemindAt: "09:00", Repeat: true, RepeatDays: []int{0, 1}},
		},
		{
			name:    "repeating on sunday",
			setting: reminder.Setting{RemindAt: "10:00", Repeat: true, RepeatDays: []int{6}},
			now:     time.Date(2024, time.May, 19, 10, 0, 0, 0, time.UTC),
			want:    true,
		},
		{
			name:    "yearly on its month and day",
			setting: reminder.Setting{RemindAt: "09:00", IsYearly: true, EventDate: "2019-05-15"},
			want:    true,
		},
		{
			name:    "yearly ignores the reminder date",
			setting: reminder.Setting{RemindAt: "09:00", IsYearly: true, EventDate: "2019-05-15", RemindDate: "2024-01-01"},
			want:    true,
		},
		{
			name:    "yearly on another day",
			setting: reminder.Setting{RemindAt: "09:00", IsYearly: true, EventDate: "2019-05-16"},
		},
		{
			name:    "window start",
			setting: reminder.Setting{RemindAt: "09:04", RemindDate: "2024-05-15"},
			want:    true,
		},
		{
			name:    "window end",
			setting: reminder.Setting{RemindAt: "08:58", RemindDate: "2024-05-15"},
			want:    true,
		},
		{
			name:    "too early",
			setting: reminder.Setting{RemindAt: "09:05", RemindDate: "2024-05-15"},
		},
		{
			name:    "too late",
			setting: reminder.Setting{RemindAt: "08:57", RemindDate: "2024-05-15"},
		},
		{
			name:    "already reminded today",
			setting: reminder.Setting{RemindAt: "09:00", RemindDate: "2024-05-15", LastReminded: "2024-05-15"},
		},
		{
			name:    "reminded yesterday",
			setting: reminder.Setting{RemindAt: "09:00", Repeat: true, RepeatDays: []int{2}, LastReminded: "2024-05-14"},
			want:    true,
		},
		{
			name:    "malformed reminder time",
			setting: reminder.Setting{RemindAt: "nine", RemindDate: "2024-05-15"},
			wantErr: true,
		},
		{
			name:    "malformed yearly date",
			setting: reminder.Setting{RemindAt: "09:00", IsYearly: true, EventDate: "15.05.2019"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			at := tt.now
			if at.IsZero() {
				at = now
			}

			got, reason, err := reminder.Due(tt.setting, at, reminder.DefaultWindow)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Due() error = %v, wantErr %v", err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("Due() = %v (%s), want %v", got, reason, tt.want)
			}
		})
	}
}

func TestSetting_Message(t *testing.T) {
	s := reminder.Setting{PetName: "Бобик", EventTitle: "Прививка", RemindAt: "09:00:00"}

	if got, want := s.Message(), "Бобик: Прививка — сегодня в 09:00"; got != want {
		t.Errorf("Setting.Message() = %q, want %q", got, want)
	}
}

func TestNotifier_Notify(t *testing.T) {
	settings := []reminder.Setting{
		{EventID: "e1", PetName: "Бобик", EventTitle: "Прогулка", RemindAt: "09:00", RemindDate: "2024-05-15"},
		{EventID: "e2", PetName: "Мурка", EventTitle: "Груминг", RemindAt: "12:00", RemindDate: "2024-05-15"},
		{EventID: "e3", PetName: "Бобик", EventTitle: "День рождения", RemindAt: "09:00", IsYearly: true, EventDate: "2020-05-15"},
	}

	tests := []struct {
		name         string
		publishFunc  func(input *sns.PublishInput) error
		wantSent     []string
		wantMessages []string
		wantErr      bool
	}{
		{
			name:         "due reminders published",
			wantSent:     []string{"e1", "e3"},
			wantMessages: []string{"Бобик: Прогулка — сегодня в 09:00", "Бобик: День рождения — сегодня в 09:00"},
		},
		{
			name: "publish failure does not stop the batch",
			publishFunc: func(input *sns.PublishInput) error {
				if aws.ToString(input.MessageAttributes["event_id"].StringValue) == "e1" {
					return errors.New("throttled")
				}
				return nil
			},
			wantSent:     []string{"e3"},
			wantMessages: []string{"Бобик: Прогулка — сегодня в 09:00", "Бобик: День рождения — сегодня в 09:00"},
			wantErr:      true,
		},
	}
	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			publisher := &mockPublisher{PublishFunc: tt.publishFunc}

			notifier := &reminder.Notifier{
				Log:    testLogger(),
				Config: reminder.Config{TopicARN: "arn:aws:sns:us-east-1:123456789012:pet-reminders"},
				SNS:    publisher,
			}

			got, err := notifier.Notify(context.Background(), settings, now)

			if (err != nil) != tt.wantErr {
				t.Errorf("Notifier.Notify() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !reflect.DeepEqual(got.Sent, tt.wantSent) {
				t.Errorf("Notifier.Notify() sent = %v, want %v", got.Sent, tt.wantSent)
			}

			if got.Skipped != 1 {
				t.Errorf("Notifier.Notify() skipped = %d, want 1", got.Skipped)
			}

			if !reflect.DeepEqual(publisher.messages(), tt.wantMessages) {
				t.Errorf("published %v, want %v", publisher.messages(), tt.wantMessages)
			}

			for _, input := range publisher.inputs {
				if aws.ToString(input.TopicArn) != notifier.Config.TopicARN {
					t.Errorf("published to %s", aws.ToString(input.TopicArn))
				}
			}
		})
	}
}

func TestNotifier_HandleBatch(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	publisher := &mockPublisher{}

	notifier := &reminder.Notifier{
		Log:    testLogger(),
		Config: reminder.Config{TopicARN: "arn:aws:sns:us-east-1:123456789012:pet-reminders", Location: moscow},
		SNS:    publisher,
		Now:    func() time.Time { return time.Date(2024, time.May, 15, 6, 0, 0, 0, time.UTC) },
	}

	batch := reminder.Batch{Settings: []reminder.Setting{
		{EventID: "e1", PetName: "Бобик", EventTitle: "Прогулка", RemindAt: "09:00", RemindDate: "2024-05-15"},
	}}

	got, err := notifier.HandleBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("Notifier.HandleBatch() error = %v", err)
	}

	if !reflect.DeepEqual(got.Sent, []string{"e1"}) {
		t.Errorf("Notifier.HandleBatch() sent = %v, want [e1] at 09:00 local time", got.Sent)
	}

	batch.Now = "2024-05-15T18:00:00+03:00"

	got, err = notifier.HandleBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("Notifier.HandleBatch() error = %v", err)
	}

	if len(got.Sent) != 0 {
		t.Errorf("Notifier.HandleBatch() with an explicit time sent %v", got.Sent)
	}

	batch.Now = "yesterday"

	if _, err := notifier.HandleBatch(context.Background(), batch); err == nil {
		t.Errorf("Notifier.HandleBatch() with a malformed time returned no error")
	}
}

type mockPublisher struct {
	PublishFunc func(input *sns.PublishInput) error

	inputs []*sns.PublishInput
}

func (mp *mockPublisher) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	mp.inputs = append(mp.inputs, params)

	if mp.PublishFunc != nil {
		if err := mp.PublishFunc(params); err != nil {
			return nil, err
		}
	}

	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func (mp *mockPublisher) messages() []string {
	messages := make([]string, 0, len(mp.inputs))
	for _, input := range mp.inputs {
		messages = append(messages, aws.ToString(input.Message))
	}
	return messages
}

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func TestNotifier_WithoutLogger(t *testing.T) {
	notifier := &reminder.Notifier{
		Config: reminder.Config{TopicARN: "arn:aws:sns:us-east-1:123456789012:pet-reminders"},
		SNS: &mockPublisher{PublishFunc: func(input *sns.PublishInput) error {
			return errors.New("throttled")
		}},
	}

	settings := []reminder.Setting{
		{EventID: "e1", PetName: "Бобик", EventTitle: "Прогулка", RemindAt: "09:00", RemindDate: "2024-05-15"},
	}

	got, err := notifier.Notify(context.Background(), settings, now)
	if err == nil {
		t.Errorf("Notifier.Notify() error = nil, want the publish error")
	}

	if len(got.Sent) != 0 {
		t.Errorf("Notifier.Notify() sent = %v, want none", got.Sent)
	}
}
