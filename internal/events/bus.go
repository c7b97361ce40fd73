package events

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/KirkDiggler/battlefield-terrain/internal/logging"
)

// Listener processes events
type Listener interface {
	HandleEvent(ctx context.Context, event Event) error
	Priority() int
	ID() string
}

// Bus hands events to the listeners subscribed to their type, lowest
// priority first
type Bus struct {
	listeners map[EventType][]Listener
	mu        sync.RWMutex
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[EventType][]Listener),
	}
}

// Subscribe adds a listener for the given event types
func (b *Bus) Subscribe(listener Listener, types ...EventType) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, eventType := range types {
		list := append(b.listeners[eventType], listener)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() < list[j].Priority()
		})
		b.listeners[eventType] = list
	}
}

// Unsubscribe removes a listener from every event type
func (b *Bus) Unsubscribe(listenerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, list := range b.listeners {
		kept := list[:0]
		for _, l := range list {
			if l.ID() != listenerID {
				kept = append(kept, l)
			}
		}
		b.listeners[eventType] = kept
	}
}

// Emit sends an event to its listeners in priority order and stops at the
// first failure.
func (b *Bus) Emit(ctx context.Context, event Event) error {
	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners[event.Type]))
	copy(listeners, b.listeners[event.Type])
	b.mu.RUnlock()

	for _, listener := range listeners {
		if err := listener.HandleEvent(ctx, event); err != nil {
			return fmt.Errorf("listener %s failed on %s: %w", listener.ID(), event.Type, err)
		}
	}
	return nil
}

// AuditListener writes every event it sees to the logger
type AuditListener struct {
	logger *slog.Logger
}

// NewAuditListener creates an audit listener. A nil logger falls back to
// the one carried by each event's context.
func NewAuditListener(logger *slog.Logger) *AuditListener {
	return &AuditListener{logger: logger}
}

func (a *AuditListener) ID() string    { return "audit" }
func (a *AuditListener) Priority() int { return 1000 }

func (a *AuditListener) HandleEvent(ctx context.Context, event Event) error {
	logger := a.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	attrs := []any{
		"event", string(event.Type),
		"battlefield_id", event.BattlefieldID,
		"owner_id", event.OwnerID,
		"pending", event.Pending,
	}
	if event.Path != "" {
		attrs = append(attrs, "path", event.Path, "result", event.Result)
	}
	logger.InfoContext(ctx, "battlefield event", attrs...)
	return nil
}

// AllEventTypes lists every battlefield lifecycle event
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeBattlefieldGenerated,
		EventTypeFeatureResolved,
		EventTypeBattlefieldSettled,
		EventTypeBattlefieldDeleted,
	}
}
