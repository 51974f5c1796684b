package compose

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spiffcs/repoquery/internal/model"
	"github.com/spiffcs/repoquery/internal/query"
)

func records(n int) []model.RepositoryRecord {
	out := make([]model.RepositoryRecord, n)
	for i := range out {
		out[i] = model.RepositoryRecord{
			FullName: "owner/repo" + string(rune('a'+i)),
			Name:     "repo" + string(rune('a'+i)),
			Stars:    1000 * (n - i),
		}
	}
	return out
}

func TestComposeHonorsLimit(t *testing.T) {
	c := NewComposer()
	req := query.Request{Intent: query.IntentRanking, Entities: []string{"Go"}, Limit: 3}

	result := c.Compose(context.Background(), req, records(10))
	if len(result.Records) != 3 {
		t.Errorf("got %d records, want 3", len(result.Records))
	}

	// Fewer records than the limit shows them all.
	result = c.Compose(context.Background(), req, records(2))
	if len(result.Records) != 2 {
		t.Errorf("got %d records, want 2", len(result.Records))
	}
}

func TestComposeComparisonIgnoresLimit(t *testing.T) {
	c := NewComposer()
	req := query.Request{
		Intent:   query.IntentComparison,
		Entities: []string{"a", "b", "c"},
		Limit:    1,
	}

	result := c.Compose(context.Background(), req, records(3))
	if len(result.Records) != 3 {
		t.Errorf("got %d records, want all 3 compared sides", len(result.Records))
	}
}

func TestComposeDegradedFlag(t *testing.T) {
	c := NewComposer()
	req := query.Request{Intent: query.IntentSearch, Limit: 5}

	recs := records(2)
	if got := c.Compose(context.Background(), req, recs); got.Degraded {
		t.Error("Degraded set for live records")
	}

	recs[1].Synthetic = true
	if got := c.Compose(context.Background(), req, recs); !got.Degraded {
		t.Error("Degraded not set for synthetic records")
	}
}

func TestHeadline(t *testing.T) {
	tests := []struct {
		name string
		req  query.Request
		recs []model.RepositoryRecord
		want string
	}{
		{
			name: "ranking",
			req:  query.Request{Intent: query.IntentRanking, Entities: []string{"Python"}, Limit: 5},
			recs: records(5),
			want: "Top 5 Python repositories by stars",
		},
		{
			name: "comparison",
			req:  query.Request{Intent: query.IntentComparison, Limit: 10},
			recs: []model.RepositoryRecord{{Name: "react"}, {Name: "vue"}},
			want: "Comparing react and vue",
		},
		{
			name: "comparison with duplicate names",
			req:  query.Request{Intent: query.IntentComparison, Limit: 10},
			recs: []model.RepositoryRecord{
				{FullName: "dotnet/core", Name: "core"},
				{FullName: "vuejs/core", Name: "core"},
			},
			want: "Comparing dotnet/core and vuejs/core",
		},
		{
			name: "trending with window",
			req:  query.Request{Intent: query.IntentTrending, Entities: []string{"ai"}, Window: query.WindowWeek, Limit: 2},
			recs: records(2),
			want: "2 ai repositories trending this week",
		},
		{
			name: "search",
			req:  query.Request{Intent: query.IntentSearch, Entities: []string{"web scraping"}, Limit: 3},
			recs: records(3),
			want: `3 repositories matching "web scraping"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := headline(tt.req, tt.recs); got != tt.want {
				t.Errorf("headline() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJoinAnd(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a and b"},
		{[]string{"a", "b", "c"}, "a, b and c"},
	}
	for _, tt := range tests {
		if got := joinAnd(tt.in); got != tt.want {
			t.Errorf("joinAnd(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// fakeChat scripts responses per model name.
type fakeChat struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *fakeChat) Chat(_ context.Context, model, _, _ string) (string, error) {
	f.calls = append(f.calls, model)
	if err, ok := f.errs[model]; ok {
		return "", err
	}
	return f.responses[model], nil
}

func TestComposeGeneratedSummary(t *testing.T) {
	chat := &fakeChat{responses: map[string]string{"primary": "Flask leads with 67k stars."}}
	c := NewComposer(WithGenerator(chat, "primary", "backup"))

	req := query.Request{Intent: query.IntentRanking, Entities: []string{"Python"}, Limit: 5, RawText: "top python"}
	result := c.Compose(context.Background(), req, records(2))

	if !result.Generated {
		t.Error("Generated not set")
	}
	if result.Summary != "Flask leads with 67k stars." {
		t.Errorf("Summary = %q", result.Summary)
	}
	if len(chat.calls) != 1 || chat.calls[0] != "primary" {
		t.Errorf("calls = %v", chat.calls)
	}
}

func TestComposeModelFallbackChain(t *testing.T) {
	chat := &fakeChat{
		errs:      map[string]error{"primary": errors.New("model overloaded")},
		responses: map[string]string{"backup": "backup answer"},
	}
	c := NewComposer(WithGenerator(chat, "primary", "backup"))

	req := query.Request{Intent: query.IntentSearch, Limit: 5}
	result := c.Compose(context.Background(), req, records(1))

	if !result.Generated || result.Summary != "backup answer" {
		t.Errorf("fallback model not used: %+v", result)
	}
	if len(chat.calls) != 2 {
		t.Errorf("calls = %v, want primary then backup", chat.calls)
	}
}

func TestComposeSilentTemplateFallback(t *testing.T) {
	chat := &fakeChat{errs: map[string]error{
		"primary": errors.New("down"),
		"backup":  errors.New("also down"),
	}}
	c := NewComposer(WithGenerator(chat, "primary", "backup"))

	req := query.Request{Intent: query.IntentRanking, Entities: []string{"Go"}, Limit: 5}
	result := c.Compose(context.Background(), req, records(2))

	if result.Generated {
		t.Error("Generated set despite both models failing")
	}
	if !strings.HasPrefix(result.Summary, "Top 2 Go repositories") {
		t.Errorf("template summary missing: %q", result.Summary)
	}
}

func TestBuildGeneratePromptGroundsData(t *testing.T) {
	req := query.Request{Intent: query.IntentComparison, RawText: "react vs vue"}
	recs := []model.RepositoryRecord{
		{FullName: "facebook/react", Stars: 230000},
		{FullName: "vuejs/vue", Stars: 208000},
	}

	prompt := buildGeneratePrompt(req, recs)
	if !strings.Contains(prompt, "react vs vue") {
		t.Error("prompt missing original question")
	}
	if !strings.Contains(prompt, "facebook/react") || !strings.Contains(prompt, "230000") {
		t.Error("prompt missing repository data")
	}
}
