package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mkbpilot/mkb-api/internal/models"
)

// State is the local mirror of one recipient's notification set.
// Unread is always recomputed from the list, never tracked by delta,
// so repeated or out-of-order events cannot make it drift.
type State struct {
	Notifications []models.Notification
	Unread        int
}

func countUnread(list []models.Notification) int {
	n := 0
	for _, item := range list {
		if !item.Read {
			n++
		}
	}
	return n
}

// reduce folds one event into the state. Pure: the input state is not
// mutated. Inserts dedup by id (the feed is at-least-once), updates
// patch by id, deletes of unknown ids are no-ops.
func reduce(s State, ev Event) State {
	switch ev.Kind {
	case EventInsert:
		for _, existing := range s.Notifications {
			if existing.ID == ev.Notification.ID {
				return s
			}
		}
		list := make([]models.Notification, 0, len(s.Notifications)+1)
		list = append(list, ev.Notification)
		list = append(list, s.Notifications...)
		return State{Notifications: list, Unread: countUnread(list)}

	case EventUpdate:
		list := make([]models.Notification, len(s.Notifications))
		copy(list, s.Notifications)
		for i := range list {
			if list[i].ID == ev.Notification.ID {
				list[i] = ev.Notification
			}
		}
		return State{Notifications: list, Unread: countUnread(list)}

	case EventDelete:
		list := make([]models.Notification, 0, len(s.Notifications))
		for _, existing := range s.Notifications {
			if existing.ID != ev.Notification.ID {
				list = append(list, existing)
			}
		}
		return State{Notifications: list, Unread: countUnread(list)}
	}
	return s
}

// Bridge is one session's consumer loop over the feed. Each event is
// folded into local state by the reducer; OnInsert fires once per
// applied insert (not per delivered event) so toast/OS side effects
// are not duplicated.
type Bridge struct {
	sub      *Subscription
	onInsert func(models.Notification)

	mu    sync.RWMutex
	state State
	done  chan struct{}
}

type BridgeOption func(*Bridge)

// WithOnInsert registers the side-effect hook fired for every insert
// that was actually applied to the state.
func WithOnInsert(fn func(models.Notification)) BridgeOption {
	return func(b *Bridge) { b.onInsert = fn }
}

// WithInitial seeds the bridge with rows already fetched over HTTP.
func WithInitial(list []models.Notification) BridgeOption {
	return func(b *Bridge) {
		b.state = State{Notifications: list, Unread: countUnread(list)}
	}
}

// NewBridge subscribes to the recipient's channel and starts the
// consumer loop. Close must be called on session teardown.
func NewBridge(ctx context.Context, feed *Feed, userID uuid.UUID, opts ...BridgeOption) (*Bridge, error) {
	sub, err := feed.Subscribe(ctx, userID)
	if err != nil {
		return nil, err
	}

	b := &Bridge{sub: sub, done: make(chan struct{})}
	for _, opt := range opts {
		opt(b)
	}

	go b.run()
	return b, nil
}

func (b *Bridge) run() {
	defer close(b.done)
	for ev := range b.sub.C {
		b.mu.Lock()
		before := len(b.state.Notifications)
		b.state = reduce(b.state, ev)
		applied := len(b.state.Notifications) != before
		b.mu.Unlock()

		if ev.Kind == EventInsert && applied && b.onInsert != nil {
			b.onInsert(ev.Notification)
		}
	}
}

// Snapshot returns a copy of the current state.
func (b *Bridge) Snapshot() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	list := make([]models.Notification, len(b.state.Notifications))
	copy(list, b.state.Notifications)
	return State{Notifications: list, Unread: b.state.Unread}
}

// Close releases the subscription and waits for the loop to drain.
func (b *Bridge) Close() error {
	err := b.sub.Close()
	<-b.done
	return err
}
