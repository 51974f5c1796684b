package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/spiffcs/repoquery/internal/compose"
	"github.com/spiffcs/repoquery/internal/format"
	"github.com/spiffcs/repoquery/internal/model"
	"github.com/spiffcs/repoquery/internal/query"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct{}

// Format outputs the composed result as a Markdown document
func (f *MarkdownFormatter) Format(result compose.Result, w io.Writer) error {
	fmt.Fprintf(w, "## %s\n\n", result.Summary)

	if len(result.Records) == 0 {
		fmt.Fprintln(w, "No repositories found.")
		return nil
	}

	if result.Query.Intent == query.IntentComparison {
		f.formatComparison(result.Records, w)
	} else {
		f.formatList(result.Records, w)
	}

	if result.Degraded {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "> ⚠ GitHub API unavailable, showing estimated data.")
	}

	return nil
}

func (f *MarkdownFormatter) formatList(records []model.RepositoryRecord, w io.Writer) {
	fmt.Fprintln(w, "| # | Repository | Stars | Forks | Language | Description |")
	fmt.Fprintln(w, "|---|------------|-------|-------|----------|-------------|")
	for i, r := range records {
		name := r.FullName
		if r.HTMLURL != "" {
			name = fmt.Sprintf("[%s](%s)", r.FullName, r.HTMLURL)
		}
		fmt.Fprintf(w, "| %d | %s | %s | %s | %s | %s |\n",
			i+1,
			name,
			format.Count(r.Stars),
			format.Count(r.Forks),
			mdCell(r.Language),
			mdCell(format.Truncate(r.Description, 80)),
		)
	}
}

func (f *MarkdownFormatter) formatComparison(records []model.RepositoryRecord, w io.Writer) {
	header := "| Metric |"
	divider := "|--------|"
	for _, r := range records {
		name := r.FullName
		if r.HTMLURL != "" {
			name = fmt.Sprintf("[%s](%s)", r.FullName, r.HTMLURL)
		}
		header += " " + name + " |"
		divider += "---|"
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, divider)

	writeRow := func(label string, value func(model.RepositoryRecord) string) {
		row := "| " + label + " |"
		for _, r := range records {
			row += " " + value(r) + " |"
		}
		fmt.Fprintln(w, row)
	}

	writeRow("Stars", func(r model.RepositoryRecord) string { return format.Count(r.Stars) })
	writeRow("Forks", func(r model.RepositoryRecord) string { return format.Count(r.Forks) })
	writeRow("Open issues", func(r model.RepositoryRecord) string { return format.Count(r.OpenIssues) })
	writeRow("Language", func(r model.RepositoryRecord) string { return mdCell(r.Language) })
	writeRow("License", func(r model.RepositoryRecord) string { return mdCell(r.License) })
}

// mdCell escapes pipes and fills empty cells with a dash.
func mdCell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", "\\|")
}
