package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/pkg/logger"
	"github.com/repguardian/dashboard-api/pkg/metrics"
)

const (
	// StreamName is the JetStream stream holding message insert events.
	StreamName = "MESSAGES"

	// SubjectPrefix is the prefix for all message subjects.
	SubjectPrefix = "msg"
)

// Handler receives insert events for one subscription.
type Handler func(model.MessageEvent)

// Feed publishes and subscribes to message inserts on JetStream.
type Feed struct {
	client *Client
	logger *logger.Logger
}

// NewFeed creates a feed on top of a connected client.
func NewFeed(client *Client, log *logger.Logger) *Feed {
	return &Feed{client: client, logger: log}
}

// EnsureStream creates the MESSAGES stream when it does not exist yet.
// Events only need to outlive a reconnecting browser, so retention is short.
func (f *Feed) EnsureStream(ctx context.Context) error {
	js := f.client.JetStream()

	if _, err := js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      24 * time.Hour,
		MaxBytes:    1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Discard:     jetstream.DiscardOld,
		Description: "Message insert events per company and chat",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// ChatSubject returns the subject carrying inserts for one chat.
func ChatSubject(companyID, chatID uuid.UUID) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, companyID, chatID)
}

// PublishMessageInserted announces a new message row.
func (f *Feed) PublishMessageInserted(ctx context.Context, companyID uuid.UUID, msg model.Message) error {
	event := model.MessageEvent{
		Type:      model.EventMessageInserted,
		CompanyID: companyID,
		ChatID:    msg.SessionID,
		Message:   msg,
		SentAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.client.JetStream().Publish(ctx, ChatSubject(companyID, msg.SessionID), data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	metrics.RealtimeEventsTotal.WithLabelValues("published").Inc()
	return nil
}

// Subscribe delivers inserts for one chat to fn, starting with the next
// insert. Delivery stops when ctx is done or the returned stop is called.
// fn runs on a single goroutine per subscription.
func (f *Feed) Subscribe(ctx context.Context, companyID, chatID uuid.UUID, fn Handler) (func(), error) {
	consumer, err := f.client.JetStream().OrderedConsumer(ctx, StreamName, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{ChatSubject(companyID, chatID)},
		DeliverPolicy:  jetstream.DeliverNewPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(m jetstream.Msg) {
		var event model.MessageEvent
		if err := json.Unmarshal(m.Data(), &event); err != nil {
			f.logger.Warn("dropping malformed message event",
				zap.String("subject", m.Subject()),
				zap.Error(err),
			)
			return
		}
		if meta, err := m.Metadata(); err == nil {
			event.Sequence = meta.Sequence.Stream
		}
		metrics.RealtimeEventsTotal.WithLabelValues("delivered").Inc()
		fn(event)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to consume: %w", err)
	}

	return stopOnDone(ctx, cc.Stop), nil
}

// Ready reports whether the underlying connection is up.
func (f *Feed) Ready() bool {
	return f.client.IsConnected()
}
