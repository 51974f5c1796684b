package query

import (
	"context"
	"strconv"
	"strings"

	"github.com/spiffcs/repoquery/internal/constants"
	"github.com/spiffcs/repoquery/internal/log"
)

// Understander is an optional delegate that interprets a query with an
// external language-understanding service. A nil error and a well-formed
// request supersede the rule-based classification; any failure is absorbed
// and the rules take over.
type Understander interface {
	Understand(ctx context.Context, text string) (*Request, error)
}

// Parser classifies free-text queries into structured requests.
type Parser struct {
	understander Understander
	defaultLimit int
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithDefaultLimit sets the result count used when the query text carries
// no count of its own. Non-positive values keep the built-in default.
func WithDefaultLimit(limit int) ParserOption {
	return func(p *Parser) {
		if limit > 0 {
			p.defaultLimit = limit
		}
	}
}

// NewParser creates a rule-based parser. If understander is non-nil it is
// consulted first on every parse.
func NewParser(understander Understander, opts ...ParserOption) *Parser {
	p := &Parser{
		understander: understander,
		defaultLimit: constants.DefaultLimit,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse turns a query into a structured request. It is total: every input
// yields a usable request and the caller never observes an error, only a
// possibly less precise classification.
func (p *Parser) Parse(ctx context.Context, text string) Request {
	if p.understander != nil {
		req, err := p.understander.Understand(ctx, text)
		if err == nil && req != nil && req.Intent.Valid() {
			req.RawText = text
			if req.Limit <= 0 {
				req.Limit = p.defaultLimit
			}
			req.Normalize()
			log.Debug("query understood by delegate", "intent", req.Intent, "entities", req.Entities)
			return *req
		}
		if err != nil {
			log.Debug("understanding delegate failed, using rules", "error", err)
		}
	}
	return classify(text, p.defaultLimit)
}

// Keyword families in fixed precedence order: comparison beats ranking
// beats trending; anything else is a search.
var (
	comparisonCues = wordSet("vs", "vs.", "versus", "compare", "comparison", "difference")
	rankingCues    = wordSet("top", "best", "most", "popular", "starred", "forked", "highest")
	trendingCues   = wordSet("trending", "hot", "rising")
)

// wordNumbers maps spelled-out counts to their values.
var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// stopWords are filler tokens ignored during entity extraction.
var stopWords = wordSet(
	"a", "an", "the", "of", "in", "on", "to", "and", "or", "with", "that",
	"are", "is", "am", "was", "i", "im", "me", "my", "some", "any",
	"find", "show", "search", "get", "give", "list", "looking", "want",
	"need", "help", "what", "which", "how", "where", "who",
	"project", "projects", "repo", "repos", "repository", "repositories",
	"good", "nice", "decent", "really", "very",
	"this", "week", "month", "year", "recently", "recent",
	"about", "for",
)

// Classify applies the rule-based interpretation: lowercase and tokenize,
// match keyword families in fixed precedence order, then pull out the
// limit, entities, and time window. Unrecognized input defaults to a
// search over the whole query text.
func Classify(text string) Request {
	return classify(text, constants.DefaultLimit)
}

func classify(text string, defaultLimit int) Request {
	req := Request{
		Intent:  IntentSearch,
		Limit:   defaultLimit,
		RawText: text,
	}

	lower := strings.ToLower(text)
	tokens := tokenize(text)
	lowerTokens := make([]string, len(tokens))
	for i, t := range tokens {
		lowerTokens[i] = strings.ToLower(t)
	}

	req.Intent = classifyIntent(lowerTokens, lower)
	if n, ok := extractLimit(lowerTokens); ok {
		req.Limit = n
	}
	req.Window = extractWindow(lower)

	if req.Intent == IntentComparison {
		req.Entities = comparisonEntities(tokens, lowerTokens)
		// A comparison needs at least two sides; otherwise treat the
		// query as a search over its text.
		if len(req.Entities) < 2 {
			req.Intent = IntentSearch
			req.Entities = nil
		}
	}
	if req.Intent != IntentComparison {
		req.Entities = subjectEntities(tokens, lowerTokens)
	}

	if len(req.Entities) == 0 {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			req.Entities = []string{trimmed}
		}
	}

	req.Normalize()
	return req
}

// classifyIntent tests the keyword families in fixed precedence order.
// The first family with a hit wins; ties are impossible by construction.
func classifyIntent(lowerTokens []string, lower string) Intent {
	has := func(set map[string]bool) bool {
		for _, t := range lowerTokens {
			if set[t] {
				return true
			}
		}
		return false
	}

	switch {
	case has(comparisonCues) || strings.Contains(lower, "difference between"):
		return IntentComparison
	case has(rankingCues):
		return IntentRanking
	case has(trendingCues):
		return IntentTrending
	default:
		return IntentSearch
	}
}

// extractLimit finds the requested result count: a literal integer token
// wins, then a spelled-out number. The second return reports whether the
// text carried a count at all.
func extractLimit(lowerTokens []string) (int, bool) {
	for _, t := range lowerTokens {
		if n, err := strconv.Atoi(t); err == nil && n > 0 {
			return n, true
		}
	}
	for _, t := range lowerTokens {
		if n, ok := wordNumbers[t]; ok {
			return n, true
		}
	}
	return 0, false
}

// extractWindow matches the fixed time-qualifier phrase set.
func extractWindow(lower string) Window {
	switch {
	case strings.Contains(lower, "this week"):
		return WindowWeek
	case strings.Contains(lower, "this month"):
		return WindowMonth
	case strings.Contains(lower, "this year"):
		return WindowYear
	case strings.Contains(lower, "recent"):
		return WindowMonth
	}
	return WindowNone
}

// comparisonSeparators split a comparison query into its sides.
var comparisonSeparators = wordSet("vs", "vs.", "versus", "and", "or", "with", "to", ",")

// comparisonFiller are cue words dropped from comparison sides.
var comparisonFiller = wordSet(
	"compare", "comparison", "difference", "between", "better",
	"which", "what", "is", "the", "a", "an",
)

// comparisonEntities splits the token stream into segments at separator
// tokens and commas; each cleaned segment becomes one entity, preserving
// the order of mention.
func comparisonEntities(tokens, lowerTokens []string) []string {
	var entities []string
	var segment []string

	flush := func() {
		if len(segment) > 0 {
			entities = append(entities, strings.Join(segment, " "))
			segment = nil
		}
	}

	for i, t := range lowerTokens {
		if comparisonSeparators[t] {
			flush()
			continue
		}
		if comparisonFiller[t] || stopWords[t] {
			continue
		}
		if _, ok := wordNumbers[t]; ok {
			continue
		}
		if _, err := strconv.Atoi(t); err == nil {
			continue
		}
		segment = append(segment, tokens[i])
	}
	flush()

	return entities
}

// subjectEntities extracts the subjects of a ranking, trending, or search
// query. Recognized programming languages win; otherwise the keyword
// phrase following an "about"/"for" cue is used; otherwise the remaining
// meaningful tokens form a single phrase.
func subjectEntities(tokens, lowerTokens []string) []string {
	var languages []string
	for i, t := range lowerTokens {
		if _, ok := CanonicalLanguage(t); ok {
			languages = append(languages, tokens[i])
		}
	}
	if len(languages) > 0 {
		return languages
	}

	if phrase := cuePhrase(tokens, lowerTokens); phrase != "" {
		return []string{phrase}
	}

	var meaningful []string
	for i, t := range lowerTokens {
		if stopWords[t] || rankingCues[t] || trendingCues[t] || comparisonCues[t] {
			continue
		}
		if _, ok := wordNumbers[t]; ok {
			continue
		}
		if _, err := strconv.Atoi(t); err == nil {
			continue
		}
		meaningful = append(meaningful, tokens[i])
	}
	if len(meaningful) > 0 {
		return []string{strings.Join(meaningful, " ")}
	}

	return nil
}

// cuePhrase returns the keyword phrase following an "about" or "for" cue.
func cuePhrase(tokens, lowerTokens []string) string {
	for i, t := range lowerTokens {
		if t != "about" && t != "for" {
			continue
		}
		var phrase []string
		for j := i + 1; j < len(tokens); j++ {
			lt := lowerTokens[j]
			if stopWords[lt] && lt != "about" && lt != "for" {
				continue
			}
			if lt == "about" || lt == "for" {
				continue
			}
			phrase = append(phrase, tokens[j])
		}
		if len(phrase) > 0 {
			return strings.Join(phrase, " ")
		}
	}
	return ""
}

// tokenize splits the text on whitespace and trims surrounding punctuation
// while keeping language-significant characters like '+' and '#'. A comma
// at the end of a word is surfaced as its own token because it separates
// comparison sides.
func tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		comma := strings.HasSuffix(f, ",")
		t := strings.Trim(f, ".,!?;:\"'()[]")
		if t != "" {
			tokens = append(tokens, t)
		}
		if comma {
			tokens = append(tokens, ",")
		}
	}
	return tokens
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
