package ai

import (
	"ambient-chat/domain"
	"ambient-chat/errors"
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const toneInstructions = `Analyze the tone of the user's message. Respond with ONLY ONE of these words:
- polite: respectful, kind, uses please/thank you
- rude: disrespectful, aggressive, impolite
- curious: asking questions, seeking knowledge
- emotional: expressing feelings, personal matters
- analytical: logical, data-focused, technical
- creative: artistic, imaginative, expressive
- sarcastic: ironic, snarky, humorous
- neutral: none of the above

Respond with just the single word, nothing else.`

// ToneClassifier fails open: classification is an optimization for response
// flavor, not a correctness-critical input, so any collaborator failure or
// out-of-set reply degrades to neutral instead of propagating an error.
type ToneClassifier struct {
	client *Client
	log    *slog.Logger
}

func NewToneClassifier(client *Client, log *slog.Logger) *ToneClassifier {
	return &ToneClassifier{client: client, log: log}
}

func (t *ToneClassifier) Classify(ctx context.Context, text string) domain.Tone {
	tone, err := t.classify(ctx, text)
	if err != nil {
		t.log.Debug(fmt.Sprintf("Tone degraded to neutral: %v", err))
		return domain.ToneNeutral
	}
	return tone
}

func (t *ToneClassifier) classify(ctx context.Context, text string) (domain.Tone, error) {
	label, err := t.client.Complete(ctx, toneInstructions, text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrClassificationFailed, err)
	}
	tone := domain.Tone(strings.ToLower(strings.TrimSpace(label)))
	if !tone.Valid() {
		return "", fmt.Errorf("%w: unexpected label %q", errors.ErrClassificationFailed, label)
	}
	return tone, nil
}
