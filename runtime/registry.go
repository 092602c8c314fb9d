// Package runtime handles responder scheduling, event fan-out, and the
// live connection registry. It orchestrates the system without containing
// domain rules.
package runtime

import (
	"ambient-chat/contract"
	"ambient-chat/domain"
	"sync"
)

type Set map[string]struct{}

// Registry tracks the live connections subscribed to each room.
// Connections are ephemeral: they exist only here, bound to one room for
// their whole lifetime, and vanish on unsubscribe.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]contract.EventSink // map connection -> Sink
	roomMembers map[domain.RoomID]Set         // map room to connections
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:    make(map[string]contract.EventSink),
		roomMembers: make(map[domain.RoomID]Set),
	}
}

// GetSinksForRoom retrieves all active communication channels for a specific room.
// It performs a two-step lookup:
// 1. Identifies connection IDs associated with the room via roomMembers.
// 2. Resolves those IDs into actual EventSinks using the sessions map.
//
// The returned slice is a point-in-time snapshot: broadcasters iterate it
// freely while connects and disconnects keep mutating the registry.
// Returns nil if the room doesn't exist or has no members.
func (r *Registry) GetSinksForRoom(roomID domain.RoomID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[roomID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for connectionID := range members {
		if sink, exists := r.sessions[connectionID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a connection's sink and assigns it to a specific room.
// If the room does not yet exist in the registry, it is initialized on the fly.
func (r *Registry) Subscribe(connectionID string, roomID domain.RoomID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[connectionID] = sink

	if _, ok := r.roomMembers[roomID]; !ok {
		r.roomMembers[roomID] = make(Set)
	}
	r.roomMembers[roomID][connectionID] = struct{}{}
}

// Unsubscribe removes a connection from the registry and its room.
// It cleans up the session and ensures no empty sets are left in the room map
// to prevent memory leaks over time.
func (r *Registry) Unsubscribe(connectionID string, roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, connectionID)

	if members, ok := r.roomMembers[roomID]; ok {
		delete(members, connectionID)

		// If no one is left in the room, remove the room entry entirely
		if len(members) == 0 {
			delete(r.roomMembers, roomID)
		}
	}
}
