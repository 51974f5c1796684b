package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spiffcs/repoquery/internal/query"
)

var understandSystemPrompt = fmt.Sprintf(`You are a natural language understanding agent for a GitHub repository query tool.

Given a user query, classify it and extract its parameters. Return strict JSON:

{
  "intent": "<%s>",
  "entities": ["<subject names in order of mention>"],
  "limit": <requested result count, 0 if unspecified>,
  "window": "<week|month|year or empty string>"
}

Guidelines:
- "ranking" for superlatives like top, best, most starred.
- "comparison" when two or more named projects are set against each other; entities must list each side in the order the user mentioned them.
- "trending" for recency-driven discovery queries.
- "search" for everything else; entities hold the topic keywords.
- Preserve the user's casing in entities.
- Output must be strict, valid JSON. No comments, no markdown, no explanation.`, intentAlternation())

// intentAlternation renders the valid intents for the prompt.
func intentAlternation() string {
	names := make([]string, len(query.AllIntents))
	for i, intent := range query.AllIntents {
		names[i] = string(intent)
	}
	return strings.Join(names, "|")
}

// Understander interprets queries with a language model. It satisfies
// query.Understander so the parser can consult it before its rules.
type Understander struct {
	client *Client
	model  string
}

// NewUnderstander creates an understander bound to one model.
func NewUnderstander(client *Client, model string) *Understander {
	return &Understander{client: client, model: model}
}

var _ query.Understander = (*Understander)(nil)

// Understand asks the model to classify the query and parses the strict
// JSON answer into a request. The request is returned as extracted; the
// parser applies its configured default for an unspecified limit and
// normalizes the rest.
func (u *Understander) Understand(ctx context.Context, text string) (*query.Request, error) {
	raw, err := u.client.Chat(ctx, u.model, understandSystemPrompt, fmt.Sprintf("User query: %q", text))
	if err != nil {
		return nil, err
	}

	jsonStr, err := ExtractJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("understand response: %w", err)
	}

	var req query.Request
	if err := json.Unmarshal([]byte(jsonStr), &req); err != nil {
		return nil, fmt.Errorf("understand response: %w", err)
	}
	if !req.Intent.Valid() {
		return nil, fmt.Errorf("understand response: unknown intent %q", req.Intent)
	}

	req.RawText = text
	return &req, nil
}
