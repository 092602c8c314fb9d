package domain

type PersonaID string

// Persona is a fixed response profile. The set of personas is closed,
// loaded once at process start, and immutable afterwards.
// DelayMin and DelayMax bound the simulated "thinking" pause in seconds.
type Persona struct {
	ID              PersonaID `validate:"required"`
	Name            string    `validate:"required"`
	Description     string    `validate:"required"`
	DelayMin        float64   `validate:"gte=0"`
	DelayMax        float64   `validate:"gtefield=DelayMin"`
	KnowledgeAreas  []string  `validate:"min=1"`
	BehavioralModes []string  `validate:"min=1"`
	SystemPrompt    string    `validate:"required"`
	ResponseStyle   string    `validate:"required"`
}
