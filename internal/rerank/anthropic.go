package rerank

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const crossEncoderPrompt = `Rate how relevant the DOCUMENT is to the QUERY on a scale from 0.00 to 1.00.
Respond with ONLY the number, nothing else.

QUERY: %s

DOCUMENT: %s`

// AnthropicCrossEncoder implements CrossEncoder by asking the same LLM
// collaborator the classifier uses to score relevance directly,
// rather than requiring a second, dedicated model deployment.
type AnthropicCrossEncoder struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicCrossEncoder builds a CrossEncoder backed by apiKey.
func NewAnthropicCrossEncoder(apiKey string, model anthropic.Model) *AnthropicCrossEncoder {
	return &AnthropicCrossEncoder{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Score implements CrossEncoder.
func (a *AnthropicCrossEncoder) Score(ctx context.Context, query, document string) (float64, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: 8,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(crossEncoderPrompt, query, document))),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("cross-encoder call: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		text.WriteString(block.Text)
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(text.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("cross-encoder parse: %w", err)
	}
	return clamp01(score), nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
