package api

import (
	"context"
	"fmt"
	"log/slog"

	"ambient-chat/contract"
	"ambient-chat/domain/event"
)

// ConnectionSink buffers events for a single websocket connection.
// A full buffer drops the event instead of blocking the broadcaster.
type ConnectionSink struct {
	log    *slog.Logger
	events chan event.DomainEvent
}

var _ contract.EventSink = (*ConnectionSink)(nil)

func NewConnectionSink(log *slog.Logger, bufferSize int) *ConnectionSink {
	return &ConnectionSink{
		log:    log,
		events: make(chan event.DomainEvent, bufferSize),
	}
}

func (s *ConnectionSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("connection buffer full, dropping event for room %d", e.RoomID())
	}
}

// Events exposes the buffered channel to the connection's write pump.
func (s *ConnectionSink) Events() <-chan event.DomainEvent {
	return s.events
}
