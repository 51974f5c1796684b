// Package compose turns fetched repository records into the final answer:
// a headline plus the display records, optionally rewritten by a language
// model into conversational prose.
package compose

import (
	"context"
	"fmt"
	"strings"

	"github.com/spiffcs/repoquery/internal/log"
	"github.com/spiffcs/repoquery/internal/model"
	"github.com/spiffcs/repoquery/internal/query"
)

// Result is the composed answer for one query.
type Result struct {
	Query   query.Request            `json:"query"`
	Records []model.RepositoryRecord `json:"records"`
	// Summary is the headline or, when Generated, full prose.
	Summary string `json:"summary"`
	// Degraded is set when any record is synthetic fallback data.
	Degraded bool `json:"degraded,omitempty"`
	// Generated is set when Summary came from a language model.
	Generated bool `json:"generated,omitempty"`
}

// Composer assembles results. With a chat client configured it attempts a
// generated summary first and quietly falls back to the template text.
type Composer struct {
	chat          ChatClient
	primaryModel  string
	fallbackModel string
}

// ChatClient is the slice of the LLM client the composer needs.
type ChatClient interface {
	Chat(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
}

// Option configures a Composer.
type Option func(*Composer)

// WithGenerator enables model-generated summaries. The fallback model is
// tried when the primary fails; an empty fallback skips that step.
func WithGenerator(chat ChatClient, primaryModel, fallbackModel string) Option {
	return func(c *Composer) {
		c.chat = chat
		c.primaryModel = primaryModel
		c.fallbackModel = fallbackModel
	}
}

// NewComposer creates a composer. Without options it only produces
// template summaries.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose builds the result for a request. Records beyond the requested
// limit are dropped, except for comparisons where every compared side is
// shown regardless of the limit.
func (c *Composer) Compose(ctx context.Context, req query.Request, records []model.RepositoryRecord) Result {
	if req.Intent != query.IntentComparison && len(records) > req.Limit {
		records = records[:req.Limit]
	}

	result := Result{
		Query:   req,
		Records: records,
		Summary: headline(req, records),
	}
	for _, r := range records {
		if r.Synthetic {
			result.Degraded = true
			break
		}
	}

	if c.chat != nil && len(records) > 0 {
		if prose, ok := c.generate(ctx, req, records); ok {
			result.Summary = prose
			result.Generated = true
		}
	}

	return result
}

// headline builds the template summary line for a result.
func headline(req query.Request, records []model.RepositoryRecord) string {
	subject := strings.Join(req.Entities, ", ")

	switch req.Intent {
	case query.IntentRanking:
		if subject != "" {
			return fmt.Sprintf("Top %d %s repositories by stars", len(records), subject)
		}
		return fmt.Sprintf("Top %d repositories by stars", len(records))
	case query.IntentComparison:
		// Same-named repositories (forks, ports) are shown with their
		// owner so the summary stays unambiguous.
		dupes := make(map[string]int, len(records))
		for _, r := range records {
			dupes[r.Name]++
		}
		names := make([]string, len(records))
		for i, r := range records {
			names[i] = r.Name
			if dupes[r.Name] > 1 && r.Owner() != "" {
				names[i] = r.Owner() + "/" + r.Name
			}
		}
		return "Comparing " + joinAnd(names)
	case query.IntentTrending:
		window := "recently"
		switch req.Window {
		case query.WindowWeek:
			window = "this week"
		case query.WindowMonth:
			window = "this month"
		case query.WindowYear:
			window = "this year"
		}
		if subject != "" {
			return fmt.Sprintf("%d %s repositories trending %s", len(records), subject, window)
		}
		return fmt.Sprintf("%d repositories trending %s", len(records), window)
	default:
		if subject != "" {
			return fmt.Sprintf("%d repositories matching %q", len(records), subject)
		}
		return fmt.Sprintf("%d matching repositories", len(records))
	}
}

// joinAnd joins names with commas and a final "and".
func joinAnd(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

// generate asks the configured models for a prose summary, primary first.
func (c *Composer) generate(ctx context.Context, req query.Request, records []model.RepositoryRecord) (string, bool) {
	models := []string{c.primaryModel}
	if c.fallbackModel != "" && c.fallbackModel != c.primaryModel {
		models = append(models, c.fallbackModel)
	}

	prompt := buildGeneratePrompt(req, records)
	for _, m := range models {
		prose, err := c.chat.Chat(ctx, m, generateSystemPrompt, prompt)
		if err != nil {
			log.Debug("summary generation failed", "model", m, "error", err)
			continue
		}
		prose = strings.TrimSpace(prose)
		if prose != "" {
			return prose, true
		}
	}
	return "", false
}
