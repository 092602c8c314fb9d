// Package projection builds local timelines from observed events.
// Handles ordering and bounded retention per room.
// Does not emit events or interact with transport directly.
package projection

import (
	"ambient-chat/domain"
	"ambient-chat/domain/event"
	"context"
	"sync"
	"time"
)

type Entry struct {
	Kind    string    `json:"kind"`
	Sender  string    `json:"sender"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Timeline holds a bounded per-room projection of recent events, used by the
// debug endpoint. It is a best-effort observer, never a source of truth.
type Timeline struct {
	mu       sync.RWMutex
	capacity int
	rooms    map[domain.RoomID][]Entry
}

func NewTimeline(capacity int) *Timeline {
	return &Timeline{
		capacity: capacity,
		rooms:    make(map[domain.RoomID][]Entry),
	}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	entry, ok := toEntry(e)
	if !ok {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	entries := append(t.rooms[e.RoomID()], entry)
	if len(entries) > t.capacity {
		entries = entries[len(entries)-t.capacity:]
	}
	t.rooms[e.RoomID()] = entries
	return nil
}

// Recent returns a copy of the room's retained entries, oldest first.
func (t *Timeline) Recent(roomID domain.RoomID) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entries := t.rooms[roomID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// DropRoom forgets a deleted room's projection.
func (t *Timeline) DropRoom(roomID domain.RoomID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rooms, roomID)
}

func toEntry(e event.DomainEvent) (Entry, bool) {
	switch evt := e.(type) {
	case event.UserMessagePosted:
		return Entry{Kind: "user_message", Sender: evt.UserID, Content: evt.Content, At: evt.At}, true
	case event.PersonaResponded:
		return Entry{Kind: "persona_message", Sender: string(evt.Persona), Content: evt.Content, At: evt.At}, true
	case event.ResponseFailed:
		return Entry{Kind: "error", Sender: string(evt.Persona), Content: evt.Reason, At: evt.At}, true
	default:
		return Entry{}, false
	}
}
