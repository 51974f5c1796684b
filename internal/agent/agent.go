// Package agent wires the query parser, data source, and composer into a
// single ask operation.
package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/spiffcs/repoquery/internal/compose"
	"github.com/spiffcs/repoquery/internal/datasource"
	"github.com/spiffcs/repoquery/internal/log"
	"github.com/spiffcs/repoquery/internal/query"
)

// ErrEmptyQuery is returned when the question is blank. It is the only
// error Answer produces for user input; every other degradation is handled
// internally with fallbacks.
var ErrEmptyQuery = errors.New("query is empty")

// Agent answers natural-language questions about repositories.
type Agent struct {
	parser   *query.Parser
	source   *datasource.Source
	composer *compose.Composer
}

// New creates an agent from its three stages.
func New(parser *query.Parser, source *datasource.Source, composer *compose.Composer) *Agent {
	return &Agent{
		parser:   parser,
		source:   source,
		composer: composer,
	}
}

// Overrides force request fields regardless of what the query text says.
// Zero values leave the parsed value alone.
type Overrides struct {
	Limit  int
	Window query.Window
}

// Answer interprets the question, fetches matching repositories, and
// composes the response.
func (a *Agent) Answer(ctx context.Context, text string) (compose.Result, error) {
	return a.AnswerWith(ctx, text, Overrides{})
}

// AnswerWith is Answer with explicit request overrides, used when flags
// take precedence over the query text.
func (a *Agent) AnswerWith(ctx context.Context, text string, ov Overrides) (compose.Result, error) {
	if strings.TrimSpace(text) == "" {
		return compose.Result{}, ErrEmptyQuery
	}

	req := a.parser.Parse(ctx, text)
	if ov.Limit > 0 {
		req.Limit = ov.Limit
	}
	if ov.Window != query.WindowNone {
		req.Window = ov.Window
	}
	req.Normalize()
	log.Info("query classified", "intent", req.Intent, "entities", req.Entities, "limit", req.Limit)

	records, err := a.source.Fetch(ctx, req)
	if err != nil {
		return compose.Result{}, err
	}

	return a.composer.Compose(ctx, req, records), nil
}
