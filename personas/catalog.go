// Package personas holds the closed set of persona definitions and the
// tone-to-candidate table used by mystery mode. The catalog is populated
// once at startup, validated, and immutable afterwards.
package personas

import (
	"ambient-chat/domain"
	"ambient-chat/errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

type Catalog struct {
	byID map[domain.PersonaID]domain.Persona
	ids  []domain.PersonaID
}

// NewCatalog builds the catalog from the fixed table and fails fast if the
// table is malformed: duplicate ids, invalid delay ranges, or a tone table
// entry referencing a persona that does not exist.
func NewCatalog() (*Catalog, error) {
	validate := validator.New()
	byID := make(map[domain.PersonaID]domain.Persona, len(table))
	ids := make([]domain.PersonaID, 0, len(table))

	for _, p := range table {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("persona %q: %w", p.ID, err)
		}
		if _, ok := byID[p.ID]; ok {
			return nil, fmt.Errorf("persona %q: duplicate id", p.ID)
		}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	for tone, candidates := range toneCandidates {
		for _, id := range candidates {
			if _, ok := byID[id]; !ok {
				return nil, fmt.Errorf("tone %q references %q: %w",
					tone, id, errors.ErrUnknownPersona)
			}
		}
	}

	return &Catalog{byID: byID, ids: ids}, nil
}

func (c *Catalog) Lookup(id domain.PersonaID) (domain.Persona, error) {
	p, ok := c.byID[id]
	if !ok {
		return domain.Persona{}, fmt.Errorf("%q: %w", id, errors.ErrUnknownPersona)
	}
	return p, nil
}

// IDs returns a fresh copy so callers may shuffle or truncate freely.
func (c *Catalog) IDs() []domain.PersonaID {
	out := make([]domain.PersonaID, len(c.ids))
	copy(out, c.ids)
	return out
}

func (c *Catalog) All() map[domain.PersonaID]domain.Persona {
	return lo.Assign(map[domain.PersonaID]domain.Persona{}, c.byID)
}

func (c *Catalog) Size() int {
	return len(c.ids)
}

// CandidatesForTone returns the curated subset for a mapped tone.
// Neutral and any unmapped tone fall back to the full catalog.
func (c *Catalog) CandidatesForTone(tone domain.Tone) []domain.PersonaID {
	candidates, ok := toneCandidates[tone]
	if !ok {
		return c.IDs()
	}
	out := make([]domain.PersonaID, len(candidates))
	copy(out, candidates)
	return out
}
