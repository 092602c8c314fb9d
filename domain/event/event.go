package event

import (
	"ambient-chat/domain"
	"github.com/google/uuid"
	"time"
)

type DomainEvent interface {
	RoomID() domain.RoomID
}

// UserMessagePosted is emitted after an inbound user message has been
// moderated and persisted.
type UserMessagePosted struct {
	ID      uuid.UUID
	Room    int
	UserID  string
	Content string
	At      time.Time
}

func (e UserMessagePosted) RoomID() domain.RoomID {
	return domain.RoomID(e.Room)
}

// PersonaResponded is emitted after a response task has persisted its reply.
type PersonaResponded struct {
	ID          uuid.UUID
	Room        int
	Persona     domain.PersonaID
	PersonaName string
	Content     string
	At          time.Time
	Followup    bool
}

func (e PersonaResponded) RoomID() domain.RoomID {
	return domain.RoomID(e.Room)
}

// ResponseFailed is emitted when a response task dies on generation or
// persistence. It names the failing persona; sibling tasks are unaffected.
type ResponseFailed struct {
	Room    int
	Persona domain.PersonaID
	Reason  string
	At      time.Time
}

func (e ResponseFailed) RoomID() domain.RoomID {
	return domain.RoomID(e.Room)
}
