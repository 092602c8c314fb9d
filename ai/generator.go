package ai

import (
	"ambient-chat/errors"
	"context"
	"fmt"
)

// Generator wraps the completion client behind the generation contract.
// Timeouts, upstream failures, and policy rejections all surface as
// ErrGenerationFailed so the caller can contain them per task.
type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	reply, err := g.client.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrGenerationFailed, err)
	}
	return reply, nil
}
