package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

const (
	signupChannel   = "farmer.signups"
	advisoryChannel = "advisory.requests"
)

// SignupEvent records a completed account creation.
type SignupEvent struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AdvisoryEvent records one advisory call for usage analytics.
type AdvisoryEvent struct {
	Operation string    `json:"operation"`
	Location  string    `json:"location,omitempty"`
	Fallback  bool      `json:"fallback,omitempty"`
	At        time.Time `json:"at"`
}

// Events publishes application events best-effort: failures are logged
// and never surfaced to the request path. A nil Events is a no-op, so
// the server runs unchanged without a broker.
type Events struct {
	backend Backend
}

// NewEvents wraps a backend. Pass nil to disable publishing.
func NewEvents(backend Backend) *Events {
	if backend == nil {
		return nil
	}
	return &Events{backend: backend}
}

// PublishSignup emits a SignupEvent.
func (e *Events) PublishSignup(ctx context.Context, event SignupEvent) {
	e.publish(ctx, signupChannel, event)
}

// PublishAdvisory emits an AdvisoryEvent.
func (e *Events) PublishAdvisory(ctx context.Context, event AdvisoryEvent) {
	e.publish(ctx, advisoryChannel, event)
}

// Close closes the underlying backend.
func (e *Events) Close() error {
	if e == nil {
		return nil
	}
	return e.backend.Close()
}

func (e *Events) publish(ctx context.Context, channel string, event any) {
	if e == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("mq: marshal %s event: %v", channel, err)
		return
	}
	if _, err := e.backend.Publish(ctx, channel, data, map[string]string{"content-type": "application/json"}); err != nil {
		log.Printf("mq: publish %s event: %v", channel, err)
	}
}
