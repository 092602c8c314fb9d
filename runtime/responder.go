package runtime

import (
	"ambient-chat/domain"
	"ambient-chat/domain/event"
	"ambient-chat/repositories"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// promptWindow truncates the history snapshot when composing the prompt.
const promptWindow = 8

// respond runs the whole life of one response task, strictly sequential:
// thinking delay, history snapshot, generation, persistence, broadcast,
// then at most one follow-up decision. Any failure terminates only this
// task and surfaces as a ResponseFailed event.
func (o *Orchestrator) respond(ctx context.Context, room domain.Room, personaID domain.PersonaID, trigger string, original bool) {
	persona, err := o.catalog.Lookup(personaID)
	if err != nil {
		o.failResponse(room, personaID, err)
		return
	}

	delay := o.rnd.Between(persona.DelayMin, persona.DelayMax)
	if !sleep(ctx, secondsToDuration(delay)) {
		return
	}

	history, err := o.messages.History(int(room.ID), historyWindow)
	if err != nil {
		o.failResponse(room, personaID, err)
		return
	}

	prompt := composePrompt(history, trigger)
	reply, err := o.generator.Generate(ctx, persona.SystemPrompt, prompt)
	if err != nil {
		o.failResponse(room, personaID, err)
		return
	}

	saved := repositories.DiskMessage{
		ID:         uuid.New(),
		Room:       int(room.ID),
		SenderKind: domain.SenderPersona,
		SenderID:   string(personaID),
		Content:    reply,
		At:         time.Now().UTC(),
	}
	if err = o.messages.StoreMessage(saved); err != nil {
		o.failResponse(room, personaID, err)
		return
	}
	o.monitor.IncrRepliesGenerated()

	o.broadcast(room.ID, event.PersonaResponded{
		ID:          saved.ID,
		Room:        saved.Room,
		Persona:     personaID,
		PersonaName: persona.Name,
		Content:     reply,
		At:          saved.At,
		Followup:    !original,
	})

	// Cascade depth is capped at one: a follow-up task never cascades again.
	if original && len(history) >= 2 {
		o.cascade(ctx, room, personaID, trigger)
	}
}

// cascade waits the fixed delay, then with followupProbability picks one
// persona different from the responder and launches exactly one more task,
// marked non-cascading.
func (o *Orchestrator) cascade(ctx context.Context, room domain.Room, responder domain.PersonaID, trigger string) {
	if !sleep(ctx, o.followupDelay) {
		return
	}
	if o.rnd.Float64() >= followupProbability {
		return
	}

	var candidates []domain.PersonaID
	for _, id := range o.catalog.IDs() {
		if id != responder {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return
	}

	followup := candidates[o.rnd.Intn(len(candidates))]
	o.monitor.IncrFollowupsSpawned()
	o.spawnResponder(room, followup, trigger, false)
}

// failResponse contains a task failure: count it, log it, and tell the room
// which persona died without touching sibling tasks.
func (o *Orchestrator) failResponse(room domain.Room, personaID domain.PersonaID, err error) {
	o.monitor.IncrResponseFailures()
	o.log.Warn("Response task failed", "persona", personaID, "room", room.ID, "error", err)
	o.broadcast(room.ID, event.ResponseFailed{
		Room:    int(room.ID),
		Persona: personaID,
		Reason:  fmt.Sprintf("Error generating response from %s: %v", personaID, err),
		At:      time.Now().UTC(),
	})
}

// composePrompt renders the persona's view of the conversation: the most
// recent window of the history snapshot, or the raw trigger message when no
// history exists yet.
func composePrompt(history []repositories.DiskMessage, trigger string) string {
	if len(history) == 0 {
		return trigger + "\n\nRespond briefly in 1-2 sentences."
	}

	recent := history
	if len(recent) > promptWindow {
		recent = recent[len(recent)-promptWindow:]
	}

	var b strings.Builder
	b.WriteString("Recent conversation:\n")
	for _, message := range recent {
		if message.SenderKind == domain.SenderPersona {
			fmt.Fprintf(&b, "\n\n%s: %s\n", message.SenderID, message.Content)
		} else {
			fmt.Fprintf(&b, "\n\nuser: %s\n", message.Content)
		}
	}
	b.WriteString("\nRespond naturally to this conversation. Keep it brief (1-2 sentences).")
	return b.String()
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// sleep pauses without blocking sibling tasks. Returns false if the process
// is shutting down.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
