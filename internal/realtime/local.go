package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/pkg/metrics"
)

// Local is an in-process feed used when no NATS server is configured and in
// tests. Events reach only subscribers of the same process.
type Local struct {
	mu   sync.Mutex
	seq  uint64
	next int
	subs map[string]map[int]*localSub
}

type localSub struct {
	events chan model.MessageEvent
	done   chan struct{}
}

// NewLocal creates an empty in-process feed.
func NewLocal() *Local {
	return &Local{subs: make(map[string]map[int]*localSub)}
}

// PublishMessageInserted hands the event to every current subscriber of the
// chat. A subscriber whose buffer is full misses the event.
func (l *Local) PublishMessageInserted(_ context.Context, companyID uuid.UUID, msg model.Message) error {
	subject := ChatSubject(companyID, msg.SessionID)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	event := model.MessageEvent{
		Type:      model.EventMessageInserted,
		CompanyID: companyID,
		ChatID:    msg.SessionID,
		Message:   msg,
		Sequence:  l.seq,
		SentAt:    time.Now().UTC(),
	}
	for _, s := range l.subs[subject] {
		select {
		case s.events <- event:
		default:
		}
	}
	metrics.RealtimeEventsTotal.WithLabelValues("published").Inc()
	return nil
}

// Subscribe registers fn for inserts on one chat.
func (l *Local) Subscribe(ctx context.Context, companyID, chatID uuid.UUID, fn Handler) (func(), error) {
	subject := ChatSubject(companyID, chatID)
	s := &localSub{
		events: make(chan model.MessageEvent, 64),
		done:   make(chan struct{}),
	}

	l.mu.Lock()
	id := l.next
	l.next++
	if l.subs[subject] == nil {
		l.subs[subject] = make(map[int]*localSub)
	}
	l.subs[subject][id] = s
	l.mu.Unlock()

	go func() {
		for {
			select {
			case <-s.done:
				return
			case event := <-s.events:
				metrics.RealtimeEventsTotal.WithLabelValues("delivered").Inc()
				fn(event)
			}
		}
	}()

	stop := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.subs[subject][id]; !ok {
			return
		}
		delete(l.subs[subject], id)
		if len(l.subs[subject]) == 0 {
			delete(l.subs, subject)
		}
		close(s.done)
	}
	return stopOnDone(ctx, stop), nil
}

// Ready always reports true.
func (l *Local) Ready() bool { return true }

// Subscribers returns the number of open subscriptions for a chat.
func (l *Local) Subscribers(companyID, chatID uuid.UUID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs[ChatSubject(companyID, chatID)])
}

// stopOnDone calls stop once, either when ctx ends or when the returned
// function is invoked.
func stopOnDone(ctx context.Context, stop func()) func() {
	var once sync.Once
	done := make(chan struct{})
	cancel := func() {
		once.Do(func() {
			close(done)
			stop()
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()
	return cancel
}
