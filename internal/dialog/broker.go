// Package dialog hands native save-dialog requests to the UI and waits for its answer.
package dialog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/containerd/errdefs"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ziyyanmart/localstore/internal/logger"
)

const (
	EventSaveRequested = "dialog.save.requested"
	EventSaveClosed    = "dialog.save.closed"
)

// Publisher receives broker notifications. events.Hub satisfies it.
type Publisher interface {
	Publish(eventType string, payload any)
}

// Request is an outstanding save dialog.
type Request struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	DefaultName string    `json:"defaultName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Answer is the UI's reply to a Request.
type Answer struct {
	Path      string `json:"path"`
	Cancelled bool   `json:"cancelled"`
}

// Closed is published once per request when it is resolved.
type Closed struct {
	ID        string `json:"id"`
	Cancelled bool   `json:"cancelled"`
	Reason    string `json:"reason,omitempty"`
}

type pending struct {
	req   Request
	reply chan Answer
}

// Broker implements platform.Prompter. Every request is resolved exactly once.
type Broker struct {
	mu        sync.Mutex
	requests  map[string]*pending
	closed    bool
	publisher Publisher
	now       func() time.Time
	logger    *logrus.Entry
}

// NewBroker creates a broker. publisher may be nil.
func NewBroker(publisher Publisher) *Broker {
	return &Broker{
		requests:  map[string]*pending{},
		publisher: publisher,
		now:       time.Now,
		logger:    logger.WithComponent("dialog"),
	}
}

// PromptSave registers a request and blocks until it is answered, ctx is done or
// the broker is closed. The last two count as a cancellation (ok=false, nil error).
func (b *Broker) PromptSave(ctx context.Context, title, defaultName string) (string, bool, error) {
	p := &pending{
		req: Request{
			ID:          uuid.NewString(),
			Title:       title,
			DefaultName: defaultName,
			CreatedAt:   b.now(),
		},
		reply: make(chan Answer, 1),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return "", false, fmt.Errorf("dialog broker is closed: %w", errdefs.ErrUnavailable)
	}
	b.requests[p.req.ID] = p
	b.mu.Unlock()

	b.logger.Infof("save dialog %s requested (%s)", p.req.ID, defaultName)
	b.publish(EventSaveRequested, p.req)

	select {
	case answer := <-p.reply:
		if answer.Cancelled || answer.Path == "" {
			return "", false, nil
		}
		return answer.Path, true, nil
	case <-ctx.Done():
		if b.take(p.req.ID) == nil {
			// answered concurrently with the context ending; the answer wins
			answer := <-p.reply
			if answer.Cancelled || answer.Path == "" {
				return "", false, nil
			}
			return answer.Path, true, nil
		}
		b.logger.Infof("save dialog %s abandoned: %v", p.req.ID, ctx.Err())
		b.publish(EventSaveClosed, Closed{ID: p.req.ID, Cancelled: true, Reason: "abandoned"})
		return "", false, nil
	}
}

// Answer resolves a pending request. An unknown or already resolved id fails with
// errdefs.ErrNotFound.
func (b *Broker) Answer(id string, answer Answer) error {
	p := b.take(id)
	if p == nil {
		return fmt.Errorf("dialog %q: %w", id, errdefs.ErrNotFound)
	}

	if answer.Path == "" {
		answer.Cancelled = true
	}
	p.reply <- answer

	b.logger.Infof("save dialog %s answered (cancelled=%t)", id, answer.Cancelled)
	b.publish(EventSaveClosed, Closed{ID: id, Cancelled: answer.Cancelled})
	return nil
}

// Pending lists unresolved requests, oldest first.
func (b *Broker) Pending() []Request {
	b.mu.Lock()
	out := make([]Request, 0, len(b.requests))
	for _, p := range b.requests {
		out = append(out, p.req)
	}
	b.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (b *Broker) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// Close cancels every pending request and rejects new ones.
func (b *Broker) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	requests := b.requests
	b.requests = map[string]*pending{}
	b.mu.Unlock()

	for id, p := range requests {
		p.reply <- Answer{Cancelled: true}
		b.publish(EventSaveClosed, Closed{ID: id, Cancelled: true, Reason: "shutdown"})
	}
	if len(requests) > 0 {
		b.logger.Infof("cancelled %d pending save dialog(s) on shutdown", len(requests))
	}
}

// take removes and returns the pending request; nil if it was already resolved.
func (b *Broker) take(id string) *pending {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.requests[id]
	if !ok {
		return nil
	}
	delete(b.requests, id)
	return p
}

func (b *Broker) publish(eventType string, payload any) {
	if b.publisher != nil {
		b.publisher.Publish(eventType, payload)
	}
}
