package runtime

import (
	"ambient-chat/contract"
	"ambient-chat/domain"
	"ambient-chat/domain/event"
	apperrors "ambient-chat/errors"
	"ambient-chat/moderation"
	"ambient-chat/observability"
	"ambient-chat/personas"
	"ambient-chat/repositories"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// historyWindow bounds the conversation snapshot fetched per response task.
	historyWindow = 20
	// defaultFollowupDelay is the fixed pause before a cascade decision.
	defaultFollowupDelay = 2 * time.Second
	// followupProbability is the chance an original task triggers one follow-up.
	followupProbability = 0.8
)

// Orchestrator owns the response engine: it accepts moderated user messages,
// schedules responder personas, spawns one detached generation task per
// selected id, and fans every produced event out to the room's live
// connections plus the permanent sinks.
//
// Tasks are never awaited by the inbound read loop and never cancel each
// other; each one contains its own failures and reports them as error events.
type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	catalog        *personas.Catalog
	scheduler      *Scheduler
	registry       contract.IRegistry
	messages       repositories.IMessageRepository
	generator      contract.Generator
	moderator      *moderation.Moderator
	monitor        *observability.Monitor
	rnd            RandomSource
	permanentSinks []contract.EventSink
	tasks          sync.WaitGroup
	baseCtx        context.Context
	sinkTimeout    time.Duration
	followupDelay  time.Duration
}

func NewOrchestrator(log *slog.Logger, catalog *personas.Catalog, scheduler *Scheduler,
	registry contract.IRegistry, messages repositories.IMessageRepository,
	generator contract.Generator, moderator *moderation.Moderator,
	monitor *observability.Monitor, rnd RandomSource, sinkTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		log:           log,
		catalog:       catalog,
		scheduler:     scheduler,
		registry:      registry,
		messages:      messages,
		generator:     generator,
		moderator:     moderator,
		monitor:       monitor,
		rnd:           rnd,
		baseCtx:       context.Background(),
		sinkTimeout:   sinkTimeout,
		followupDelay: defaultFollowupDelay,
	}
}

// Start binds the orchestrator to the process lifetime context. Spawned
// tasks run on this context, not on the triggering connection's: a
// disconnect never cancels a response in flight.
func (o *Orchestrator) Start(ctx context.Context) {
	o.baseCtx = ctx
}

// Add registers permanent sinks consuming every event of every room
// (search index, timeline projection, stats).
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

// RegisterConnection subscribes a live connection to a room.
func (o *Orchestrator) RegisterConnection(connectionID string, roomID domain.RoomID, sink contract.EventSink) {
	o.registry.Subscribe(connectionID, roomID, sink)
	o.monitor.ConnectionOpened()
}

// UnregisterConnection disconnects a subscriber.
func (o *Orchestrator) UnregisterConnection(connectionID string, roomID domain.RoomID) {
	o.registry.Unsubscribe(connectionID, roomID)
	o.monitor.ConnectionClosed()
}

// HandleUserMessage runs the inbound flow: moderate, persist, broadcast the
// user message, then launch one detached response task per selected persona.
// It returns as soon as the tasks are spawned; it never waits for them.
func (o *Orchestrator) HandleUserMessage(ctx context.Context, room domain.Room, userID, content string) error {
	sanitized := o.moderator.Sanitize(content)

	saved := repositories.DiskMessage{
		ID:         uuid.New(),
		Room:       int(room.ID),
		SenderKind: domain.SenderUser,
		SenderID:   userID,
		Content:    sanitized,
		At:         time.Now().UTC(),
	}
	if err := o.messages.StoreMessage(saved); err != nil {
		return err
	}
	o.monitor.IncrMessagesPosted()
	o.monitor.ObserveLanguage(sanitized)

	o.broadcast(room.ID, event.UserMessagePosted{
		ID:      saved.ID,
		Room:    saved.Room,
		UserID:  userID,
		Content: sanitized,
		At:      saved.At,
	})

	for _, personaID := range o.scheduler.SelectResponders(ctx, room, sanitized) {
		o.spawnResponder(room, personaID, sanitized, true)
	}
	return nil
}

// spawnResponder launches one detached, self-contained response task.
// A panic inside the task is recovered and counted; siblings and the read
// loop never see it.
func (o *Orchestrator) spawnResponder(room domain.Room, personaID domain.PersonaID, trigger string, original bool) {
	o.tasks.Add(1)
	go func() {
		defer o.tasks.Done()
		defer func() {
			if r := recover(); r != nil {
				o.monitor.IncrResponseFailures()
				o.log.Error("Response task panicked",
					"persona", personaID, "room", room.ID,
					"error", fmt.Sprintf("%v: %v", apperrors.ErrWorkerPanic, r))
			}
		}()
		o.respond(o.baseCtx, room, personaID, trigger, original)
	}()
}

// broadcast delivers one event to the room's current connection snapshot and
// to every permanent sink. Per-sink failures are counted and swallowed: a
// dead connection never fails the broadcasting task or its siblings.
// A room with no registered connections is a silent no-op.
func (o *Orchestrator) broadcast(roomID domain.RoomID, evt event.DomainEvent) {
	o.mu.Lock()
	sinks := append([]contract.EventSink(nil), o.permanentSinks...)
	o.mu.Unlock()
	sinks = append(sinks, o.registry.GetSinksForRoom(roomID)...)

	for _, sink := range sinks {
		ctx, cancel := context.WithTimeout(o.baseCtx, o.sinkTimeout)
		if err := sink.Consume(ctx, evt); err != nil {
			o.monitor.IncrBroadcastDrops()
			o.log.Debug(fmt.Sprintf("Sink dropped event for room %d: %v", roomID, err))
		}
		cancel()
	}
}

// Drain waits for outstanding response tasks during shutdown, bounded by
// the given timeout.
func (o *Orchestrator) Drain(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		o.tasks.Wait()
		close(done)
	}()
	select {
	case <-done:
		o.log.Info("All response tasks drained")
	case <-time.After(timeout):
		o.log.Warn("Timed out waiting for response tasks")
	}
}
