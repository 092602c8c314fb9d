package domain

import "time"

type RoomID int

// Room is created by an explicit request and never mutated afterwards,
// except through message appends handled by the repositories.
type Room struct {
	ID          RoomID
	Name        string
	MysteryMode bool
	CreatedAt   time.Time
}
