package runtime

import (
	"ambient-chat/contract"
	"ambient-chat/domain"
	"ambient-chat/personas"
	"context"
	"fmt"
	"log/slog"
)

// maxOpenResponders caps the distinct draw in rooms without mystery mode.
const maxOpenResponders = 4

// Scheduler decides which personas answer an inbound user message.
//
// Open rooms draw up to four DISTINCT ids uniformly without replacement
// from the full catalog. Mystery rooms classify the message tone, narrow
// to that tone's curated subset, and draw WITH replacement: repeated
// responders are an expected outcome of that policy, not a bug.
type Scheduler struct {
	catalog          *personas.Catalog
	classifier       contract.ToneClassifier
	rnd              RandomSource
	mysteryResponses int
	log              *slog.Logger
}

func NewScheduler(catalog *personas.Catalog, classifier contract.ToneClassifier,
	rnd RandomSource, mysteryResponses int, log *slog.Logger) *Scheduler {
	return &Scheduler{
		catalog:          catalog,
		classifier:       classifier,
		rnd:              rnd,
		mysteryResponses: mysteryResponses,
		log:              log,
	}
}

func (s *Scheduler) SelectResponders(ctx context.Context, room domain.Room, content string) []domain.PersonaID {
	if !room.MysteryMode {
		return s.selectOpen()
	}
	return s.selectMystery(ctx, content)
}

func (s *Scheduler) selectOpen() []domain.PersonaID {
	ids := s.catalog.IDs()
	s.rnd.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	count := maxOpenResponders
	if len(ids) < count {
		count = len(ids)
	}
	return ids[:count]
}

func (s *Scheduler) selectMystery(ctx context.Context, content string) []domain.PersonaID {
	tone := s.classifier.Classify(ctx, content)
	candidates := s.catalog.CandidatesForTone(tone)
	s.log.Debug(fmt.Sprintf("Tone %q mapped to %d candidates", tone, len(candidates)))

	count := s.mysteryResponses
	if len(candidates) < count {
		count = len(candidates)
	}
	selected := make([]domain.PersonaID, 0, count)
	for i := 0; i < count; i++ {
		selected = append(selected, candidates[s.rnd.Intn(len(candidates))])
	}
	return selected
}
