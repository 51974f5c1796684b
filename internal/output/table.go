package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/spiffcs/repoquery/internal/compose"
	"github.com/spiffcs/repoquery/internal/format"
	"github.com/spiffcs/repoquery/internal/model"
	"github.com/spiffcs/repoquery/internal/query"
)

// TableFormatter formats output as a terminal table
type TableFormatter struct{}

// hyperlink creates a clickable terminal hyperlink using OSC 8
// Format: \033]8;;URL\033\\TEXT\033]8;;\033\\
func hyperlink(text, url string) string {
	// Only use hyperlinks if stdout is a terminal
	if url == "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// Format outputs a composed result as a table
func (f *TableFormatter) Format(result compose.Result, w io.Writer) error {
	fmt.Fprintln(w, color.New(color.Bold).Sprint(result.Summary))
	fmt.Fprintln(w)

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
		fmt.Fprintln(w, color.YellowString("⚠ GitHub API unavailable, showing estimated data"))
	}

	return nil
}

// formatList renders ranked, trending, and search results as numbered rows.
func (f *TableFormatter) formatList(records []model.RepositoryRecord, w io.Writer) {
	const (
		colRepo = 34
		colStar = 7
		colFork = 7
		colLang = 12
	)

	fmt.Fprintf(w, "    %s  %s  %s  %s  %s\n",
		format.PadRight("Repository", colRepo),
		format.PadRight("Stars", colStar),
		format.PadRight("Forks", colFork),
		format.PadRight("Language", colLang),
		"Updated")
	fmt.Fprintln(w, strings.Repeat("-", colRepo+colStar+colFork+colLang+24))

	for i, r := range records {
		name := format.Truncate(r.FullName, colRepo)
		linked := hyperlink(name, r.HTMLURL)

		lang := r.Language
		if lang == "" {
			lang = "-"
		}

		fmt.Fprintf(w, "%2d. %s  %s  %s  %s  %s\n",
			i+1,
			format.PadRight(linked, colRepo),
			format.PadRight(color.YellowString(format.Count(r.Stars)), colStar),
			format.PadRight(format.Count(r.Forks), colFork),
			format.PadRight(lang, colLang),
			formatAge(time.Since(r.UpdatedAt)),
		)

		if r.Description != "" {
			fmt.Fprintf(w, "    %s\n", color.New(color.Faint).Sprint(format.Truncate(r.Description, 76)))
		}
	}
}

// comparisonRow is one labeled metric line in the comparison table.
type comparisonRow struct {
	label string
	value func(model.RepositoryRecord) string
}

// formatComparison renders compared repositories side by side, one metric
// per row, so the differences line up.
func (f *TableFormatter) formatComparison(records []model.RepositoryRecord, w io.Writer) {
	const colMetric = 14
	colValue := 24

	headers := make([]string, len(records))
	for i, r := range records {
		headers[i] = format.PadRight(color.New(color.Bold).Sprint(format.Truncate(r.FullName, colValue)), colValue)
	}
	fmt.Fprintf(w, "%s  %s\n", format.PadRight("", colMetric), strings.Join(headers, "  "))
	fmt.Fprintln(w, strings.Repeat("-", colMetric+(colValue+2)*len(records)))

	rows := []comparisonRow{
		{"Stars", func(r model.RepositoryRecord) string { return color.YellowString(format.Count(r.Stars)) }},
		{"Forks", func(r model.RepositoryRecord) string { return format.Count(r.Forks) }},
		{"Open issues", func(r model.RepositoryRecord) string { return format.Count(r.OpenIssues) }},
		{"Language", func(r model.RepositoryRecord) string {
			if r.Language == "" {
				return "-"
			}
			return r.Language
		}},
		{"License", func(r model.RepositoryRecord) string {
			if r.License == "" {
				return "-"
			}
			return r.License
		}},
		{"Last update", func(r model.RepositoryRecord) string { return formatAge(time.Since(r.UpdatedAt)) + " ago" }},
	}

	// Activity rows only appear when the data was fetched.
	hasActivity := false
	for _, r := range records {
		if r.RecentCommits > 0 || r.Contributors > 0 {
			hasActivity = true
			break
		}
	}
	if hasActivity {
		rows = append(rows,
			comparisonRow{"Commits (30d)", func(r model.RepositoryRecord) string { return fmt.Sprintf("%d", r.RecentCommits) }},
			comparisonRow{"Contributors", func(r model.RepositoryRecord) string { return format.Count(r.Contributors) }},
		)
	}

	for _, row := range rows {
		cells := make([]string, len(records))
		for i, r := range records {
			cells[i] = format.PadRight(row.value(r), colValue)
		}
		fmt.Fprintf(w, "%s  %s\n", format.PadRight(row.label, colMetric), strings.Join(cells, "  "))
	}
}

func formatAge(d time.Duration) string {
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	days := int(d.Hours() / 24)
	if days < 7 {
		return fmt.Sprintf("%dd", days)
	}
	weeks := days / 7
	if weeks < 4 {
		return fmt.Sprintf("%dw", weeks)
	}
	months := days / 30
	return fmt.Sprintf("%dmo", months)
}
