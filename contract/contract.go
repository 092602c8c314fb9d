package contract

import (
	"ambient-chat/domain"
	"ambient-chat/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

type IRegistry interface {
	GetSinksForRoom(roomID domain.RoomID) []EventSink
	Subscribe(connectionID string, roomID domain.RoomID, sink EventSink)
	Unsubscribe(connectionID string, roomID domain.RoomID)
}

// Generator is the external text-generation collaborator.
// It returns a single reply for a composed prompt, or ErrGenerationFailed.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// ToneClassifier maps a message to one coarse tone label.
// Implementations fail open: on any collaborator error they return
// domain.ToneNeutral instead of propagating the failure.
type ToneClassifier interface {
	Classify(ctx context.Context, text string) domain.Tone
}
