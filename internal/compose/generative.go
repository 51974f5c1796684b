package compose

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spiffcs/repoquery/internal/model"
	"github.com/spiffcs/repoquery/internal/query"
)

const generateSystemPrompt = `You are a helpful assistant that answers questions about GitHub repositories.

You are given the user's question and the repository data that answers it. Write a concise, conversational answer grounded ONLY in the provided data:
- Mention each repository by name with its star count.
- For comparisons, contrast the projects on stars, forks, and activity, and note what each is best suited for.
- For rankings and trending lists, present the order and call out anything notable.
- Never invent repositories, numbers, or facts not present in the data.
- Plain text only, no markdown headings.`

// promptRecord is the trimmed record shape embedded in generation prompts.
// Keeping it small saves tokens and keeps the model focused on the fields
// it should talk about.
type promptRecord struct {
	FullName      string `json:"full_name"`
	Description   string `json:"description,omitempty"`
	Stars         int    `json:"stars"`
	Forks         int    `json:"forks"`
	Language      string `json:"language,omitempty"`
	RecentCommits int    `json:"recent_commits,omitempty"`
	Contributors  int    `json:"contributors,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// buildGeneratePrompt packs the question and records into the user prompt.
func buildGeneratePrompt(req query.Request, records []model.RepositoryRecord) string {
	trimmed := make([]promptRecord, len(records))
	for i, r := range records {
		trimmed[i] = promptRecord{
			FullName:      r.FullName,
			Description:   r.Description,
			Stars:         r.Stars,
			Forks:         r.Forks,
			Language:      r.Language,
			RecentCommits: r.RecentCommits,
			Contributors:  r.Contributors,
		}
		if !r.UpdatedAt.IsZero() {
			trimmed[i].UpdatedAt = r.UpdatedAt.Format("2006-01-02")
		}
	}

	data, err := json.MarshalIndent(trimmed, "", "  ")
	if err != nil {
		data = []byte("[]")
	}

	question := req.RawText
	if strings.TrimSpace(question) == "" {
		question = fmt.Sprintf("%s query about %s", req.Intent, strings.Join(req.Entities, ", "))
	}

	return fmt.Sprintf("Question: %s\n\nRepository data:\n%s", question, data)
}
