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
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// riggedSource removes all timing and randomness from orchestration tests:
// zero thinking delay, a fixed cascade roll, a fixed pick.
type riggedSource struct {
	roll float64
	pick int
}

func (r riggedSource) Float64() float64 { return r.roll }
func (r riggedSource) Intn(n int) int {
	if r.pick < n {
		return r.pick
	}
	return 0
}
func (r riggedSource) Shuffle(_ int, _ func(i, j int)) {}
func (r riggedSource) Between(_, _ float64) float64    { return 0 }

type memoryMessages struct {
	mu     sync.Mutex
	stored []repositories.DiskMessage
}

func (m *memoryMessages) StoreMessage(message repositories.DiskMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = append(m.stored, message)
	return nil
}

func (m *memoryMessages) GetMessages(room int, _ *string) ([]repositories.DiskMessage, *string, error) {
	messages, err := m.History(room, 1<<20)
	return messages, nil, err
}

func (m *memoryMessages) History(room, limit int) ([]repositories.DiskMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repositories.DiskMessage
	for _, message := range m.stored {
		if message.Room == room {
			out = append(out, message)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *memoryMessages) DeleteRoomMessages(room int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []repositories.DiskMessage
	for _, message := range m.stored {
		if message.Room != room {
			kept = append(kept, message)
		}
	}
	m.stored = kept
	return nil
}

func (m *memoryMessages) countByKind(kind domain.SenderKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, message := range m.stored {
		if message.SenderKind == kind {
			count++
		}
	}
	return count
}

type collectSink struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (c *collectSink) Consume(_ context.Context, e event.DomainEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *collectSink) count(match func(event.DomainEvent) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, e := range c.events {
		if match(e) {
			count++
		}
	}
	return count
}

func isUserMessage(e event.DomainEvent) bool {
	_, ok := e.(event.UserMessagePosted)
	return ok
}

func isPersonaMessage(e event.DomainEvent) bool {
	_, ok := e.(event.PersonaResponded)
	return ok
}

func isFollowup(e event.DomainEvent) bool {
	responded, ok := e.(event.PersonaResponded)
	return ok && responded.Followup
}

func isFailure(e event.DomainEvent) bool {
	_, ok := e.(event.ResponseFailed)
	return ok
}

type stubGenerator struct {
	reply string
	err   error
}

func (g stubGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	return g.reply, g.err
}

// flakyGenerator fails its first N calls, then succeeds.
type flakyGenerator struct {
	mu       sync.Mutex
	calls    int
	failures int
}

func (g *flakyGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.calls <= g.failures {
		return "", apperrors.ErrGenerationFailed
	}
	return "fine, if you insist", nil
}

func newTestOrchestrator(t *testing.T, generator contract.Generator, rnd RandomSource) (*Orchestrator, *memoryMessages, *collectSink) {
	t.Helper()
	req := require.New(t)
	log := slog.Default()

	catalog, err := personas.NewCatalog()
	req.NoError(err)
	moderator, err := moderation.NewModerator([]string{"badger"}, '*')
	req.NoError(err)

	messages := &memoryMessages{}
	monitor := observability.NewMonitor(log)
	registry := NewRegistry()
	scheduler := NewScheduler(catalog, fixedToneClassifier{domain.ToneNeutral}, rnd, 3, log)

	orchestrator := NewOrchestrator(log, catalog, scheduler, registry, messages,
		generator, moderator, monitor, rnd, time.Second)
	orchestrator.followupDelay = time.Millisecond
	orchestrator.Start(context.Background())

	sink := &collectSink{}
	orchestrator.Add(sink)
	return orchestrator, messages, sink
}

func TestOrchestrator_Message_Is_Moderated_Then_Everyone_Responds(t *testing.T) {
	req := require.New(t)
	// roll above the cascade threshold: no follow-ups in this test
	orchestrator, messages, sink := newTestOrchestrator(t,
		stubGenerator{reply: "a fine evening indeed"}, riggedSource{roll: 0.99})
	room := domain.Room{ID: 1, Name: "tavern", MysteryMode: false}

	// When a user posts a message containing a censored word
	err := orchestrator.HandleUserMessage(context.Background(), room, "alice", "a wild badger appears")
	req.NoError(err)
	orchestrator.Drain(5 * time.Second)

	// Then the stored and broadcast content is masked
	history, err := messages.History(1, 1000)
	req.NoError(err)
	req.Equal("a wild ****** appears", history[0].Content)
	req.Equal(1, sink.count(isUserMessage))

	// And four personas responded, none flagged as follow-up
	req.Equal(4, sink.count(isPersonaMessage))
	req.Equal(0, sink.count(isFollowup))
	req.Equal(4, messages.countByKind(domain.SenderPersona))
}

func TestOrchestrator_Generation_Failure_Does_Not_Stop_Siblings(t *testing.T) {
	req := require.New(t)
	orchestrator, messages, sink := newTestOrchestrator(t,
		&flakyGenerator{failures: 1}, riggedSource{roll: 0.99})
	room := domain.Room{ID: 1, Name: "tavern", MysteryMode: false}

	// When one of four generation calls fails
	err := orchestrator.HandleUserMessage(context.Background(), room, "alice", "anyone here?")
	req.NoError(err)
	orchestrator.Drain(5 * time.Second)

	// Then exactly one failure event is broadcast
	req.Equal(1, sink.count(isFailure))

	// And the three healthy tasks still delivered
	req.Equal(3, sink.count(isPersonaMessage))
	req.Equal(3, messages.countByKind(domain.SenderPersona))
}

func TestOrchestrator_All_Generations_Fail_User_Message_Survives(t *testing.T) {
	req := require.New(t)
	orchestrator, messages, sink := newTestOrchestrator(t,
		stubGenerator{err: apperrors.ErrGenerationFailed}, riggedSource{roll: 0.99})
	room := domain.Room{ID: 1, Name: "tavern", MysteryMode: false}

	// When every generation call fails
	err := orchestrator.HandleUserMessage(context.Background(), room, "alice", "hello?")
	req.NoError(err)
	orchestrator.Drain(5 * time.Second)

	// Then the user message is persisted and broadcast regardless
	req.Equal(1, messages.countByKind(domain.SenderUser))
	req.Equal(1, sink.count(isUserMessage))
	req.Equal(4, sink.count(isFailure))
	req.Equal(0, sink.count(isPersonaMessage))
}

func TestOrchestrator_Cascade_Spawns_At_Most_One_Followup_Per_Task(t *testing.T) {
	req := require.New(t)
	// roll zero: every original task cascades
	orchestrator, messages, sink := newTestOrchestrator(t,
		stubGenerator{reply: "indeed"}, riggedSource{roll: 0})
	room := domain.Room{ID: 1, Name: "tavern", MysteryMode: false}

	// Given an established conversation
	seed := []repositories.DiskMessage{
		{Room: 1, SenderKind: domain.SenderUser, SenderID: "alice", Content: "evening all"},
		{Room: 1, SenderKind: domain.SenderPersona, SenderID: "angel", Content: "welcome"},
	}
	for _, message := range seed {
		req.NoError(messages.StoreMessage(message))
	}

	// When a user posts and every task rolls a cascade
	err := orchestrator.HandleUserMessage(context.Background(), room, "alice", "what do you all think?")
	req.NoError(err)
	orchestrator.Drain(5 * time.Second)

	// Then four originals each spawned exactly one follow-up, and the
	// follow-ups spawned none of their own
	req.Equal(8, sink.count(isPersonaMessage))
	req.Equal(4, sink.count(isFollowup))
	// one seeded persona message plus eight generated replies
	req.Equal(9, messages.countByKind(domain.SenderPersona))
}

func TestOrchestrator_Cascade_Depth_Is_Bounded_On_A_Fresh_Room(t *testing.T) {
	req := require.New(t)
	orchestrator, _, sink := newTestOrchestrator(t,
		stubGenerator{reply: "indeed"}, riggedSource{roll: 0})
	room := domain.Room{ID: 1, Name: "tavern", MysteryMode: false}

	// When the very first message of a room arrives with a guaranteed
	// cascade roll. Each task gates on its own history snapshot, so a
	// fast sibling's persisted reply may legitimately unlock a cascade
	// for a slower one.
	err := orchestrator.HandleUserMessage(context.Background(), room, "alice", "hello")
	req.NoError(err)
	orchestrator.Drain(5 * time.Second)

	// Then every persona message beyond the four originals is a
	// follow-up, and follow-ups never cascade in turn
	originals := sink.count(isPersonaMessage) - sink.count(isFollowup)
	req.Equal(4, originals)
	req.LessOrEqual(sink.count(isFollowup), 4)
}

func TestOrchestrator_Empty_Room_Is_A_Silent_Noop(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	catalog, err := personas.NewCatalog()
	req.NoError(err)
	moderator, err := moderation.NewModerator([]string{"badger"}, '*')
	req.NoError(err)

	messages := &memoryMessages{}
	scheduler := NewScheduler(catalog, fixedToneClassifier{domain.ToneNeutral},
		riggedSource{roll: 0.99}, 3, log)
	orchestrator := NewOrchestrator(log, catalog, scheduler, NewRegistry(), messages,
		stubGenerator{reply: "indeed"}, moderator, observability.NewMonitor(log),
		riggedSource{roll: 0.99}, time.Second)
	orchestrator.Start(context.Background())
	room := domain.Room{ID: 1, Name: "tavern", MysteryMode: false}

	// When nobody is connected and no permanent sink is registered
	err = orchestrator.HandleUserMessage(context.Background(), room, "alice", "anyone?")
	req.NoError(err)
	orchestrator.Drain(5 * time.Second)

	// Then the flow still persists everything without error
	req.Equal(1, messages.countByKind(domain.SenderUser))
	req.Equal(4, messages.countByKind(domain.SenderPersona))
}
