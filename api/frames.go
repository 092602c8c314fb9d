package api

import (
	"ambient-chat/domain/event"
	"time"
)

// InboundFrame is the only frame a client may send on the room channel.
// A missing user_id is replaced with a freshly generated identifier.
type InboundFrame struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type UserMessageFrame struct {
	Type       string `json:"type"`
	UserID     string `json:"user_id"`
	Content    string `json:"content"`
	SenderType string `json:"sender_type"`
}

type PersonaMessageFrame struct {
	Type        string `json:"type"`
	PersonaID   string `json:"persona_id"`
	PersonaName string `json:"persona_name"`
	Content     string `json:"content"`
	SenderType  string `json:"sender_type"`
	CreatedAt   string `json:"created_at"`
}

type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// toFrame maps a domain event to its outbound wire shape.
// Unknown events map to nil and are skipped by the write pump.
func toFrame(e event.DomainEvent) any {
	switch evt := e.(type) {
	case event.UserMessagePosted:
		return UserMessageFrame{
			Type:       "user_message",
			UserID:     evt.UserID,
			Content:    evt.Content,
			SenderType: "user",
		}
	case event.PersonaResponded:
		return PersonaMessageFrame{
			Type:        "persona_message",
			PersonaID:   string(evt.Persona),
			PersonaName: evt.PersonaName,
			Content:     evt.Content,
			SenderType:  "persona",
			CreatedAt:   evt.At.Format(time.RFC3339Nano),
		}
	case event.ResponseFailed:
		return ErrorFrame{
			Type:    "error",
			Message: evt.Reason,
		}
	default:
		return nil
	}
}
