// Package sink contains permanent event consumers fed by the orchestrator's
// fan-out next to the per-connection sinks.
package sink

import (
	"ambient-chat/domain"
	"ambient-chat/domain/event"
	"ambient-chat/repositories"
	"context"
	"fmt"
	"log/slog"
)

// IndexSink feeds stored messages into the full-text index.
// Indexing is decoupled from persistence on purpose: a failed index update
// degrades search, never the conversation.
type IndexSink struct {
	search repositories.ISearchRepository
	log    *slog.Logger
}

func NewIndexSink(search repositories.ISearchRepository, log *slog.Logger) IndexSink {
	return IndexSink{search: search, log: log}
}

func (s IndexSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.UserMessagePosted:
		return s.search.Index(repositories.DiskMessage{
			ID:         evt.ID,
			Room:       evt.Room,
			SenderKind: domain.SenderUser,
			SenderID:   evt.UserID,
			Content:    evt.Content,
			At:         evt.At,
		})
	case event.PersonaResponded:
		return s.search.Index(repositories.DiskMessage{
			ID:         evt.ID,
			Room:       evt.Room,
			SenderKind: domain.SenderPersona,
			SenderID:   string(evt.Persona),
			Content:    evt.Content,
			At:         evt.At,
		})
	default:
		s.log.Debug(fmt.Sprintf("Not indexed event : %v", evt))
		return nil
	}
}
