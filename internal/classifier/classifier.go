// Package classifier implements C2: call the external LLM to produce
// an Intent and an expanded query (spec.md §4.2). The call/degrade
// shape is adapted from the teacher's ai/client/chat middleware chain
// (CallHandler/CallMiddleware), generalized from chat completions down
// to a single structured classify call, wrapped in a timeout and a
// panic-recover middleware (internal/pipeline/flow).
package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"

	"github.com/juliangdz/clawSearXNG/internal/errs"
	"github.com/juliangdz/clawSearXNG/internal/pipeline/flow"
	"github.com/juliangdz/clawSearXNG/internal/types"
)

// DefaultTimeout is the recommended total deadline for one classify
// call (spec.md §4.2/§5).
const DefaultTimeout = 3 * time.Second

const systemPrompt = `You are a query-intent classifier for a search engine.
Classify the user's query into exactly one of: research, biomedical, code, news, general.
Also produce an expanded version of the query that adds useful search terms.
Respond with ONLY a strict JSON object of the form:
{"intent": "<one of the five labels>", "expanded_query": "<expanded query text>"}`

// Classifier is the narrow contract the pipeline depends on.
type Classifier interface {
	Classify(ctx context.Context, query string) (types.ExpandedQuery, error)
}

// Anthropic calls an Anthropic-compatible messages endpoint.
type Anthropic struct {
	client anthropic.Client
	model  anthropic.Model
	stage  flow.Stage[string, types.ExpandedQuery]
}

// NewAnthropic builds a Classifier backed by apiKey, wrapped with a
// total timeout and panic recovery.
func NewAnthropic(apiKey string, model anthropic.Model, timeout time.Duration) *Anthropic {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
	base := flow.StageFunc[string, types.ExpandedQuery](c.classifyOnce)
	c.stage = flow.Chain(base,
		flow.WithRecover[string, types.ExpandedQuery](),
		flow.WithTimeout[string, types.ExpandedQuery](timeout),
	)
	return c
}

// Classify implements Classifier. Any failure (timeout, transport
// error, non-2xx, unparseable body) is recovered internally: the
// caller always gets a usable fallback value, never a fatal error.
// The returned error, when non-nil, is a ClassifierDegraded signal for
// the pipeline to log and track — it never fails the request (spec.md
// §4.2, §7).
func (c *Anthropic) Classify(ctx context.Context, query string) (types.ExpandedQuery, error) {
	expanded, err := c.stage.Run(ctx, query)
	if err != nil {
		return fallback(query), errs.New(errs.ClassifierDegraded, "classify call", err)
	}
	return expanded, nil
}

func fallback(query string) types.ExpandedQuery {
	return types.ExpandedQuery{Intent: types.IntentGeneral, Text: query}
}

func (c *Anthropic) classifyOnce(ctx context.Context, query string) (types.ExpandedQuery, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(query)),
		},
	})
	if err != nil {
		return types.ExpandedQuery{}, fmt.Errorf("classifier call: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		text.WriteString(block.Text)
	}

	return parse(text.String(), query), nil
}

// parse extracts the first balanced JSON object from raw (stripping
// surrounding prose per spec.md §6.3), validates the intent against
// the closed enum, and falls back to the raw query when expanded_query
// is empty/whitespace.
func parse(raw string, rawQuery string) types.ExpandedQuery {
	obj := firstJSONObject(raw)
	if obj == "" {
		return fallback(rawQuery)
	}

	result := gjson.Parse(obj)
	intent := types.NormalizeIntent(result.Get("intent").String())
	expanded := strings.TrimSpace(result.Get("expanded_query").String())
	if expanded == "" {
		expanded = rawQuery
	}
	return types.ExpandedQuery{Intent: intent, Text: expanded}
}

// firstJSONObject returns the substring spanning the first balanced
// {...} object in s, or "" if none is found.
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
