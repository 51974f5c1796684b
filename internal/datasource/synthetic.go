package datasource

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/spiffcs/repoquery/internal/model"
	"github.com/spiffcs/repoquery/internal/query"
)

// syntheticOwners and syntheticSuffixes feed the fallback name generator.
var (
	syntheticOwners = []string{
		"apache", "awesome-dev", "buildkit", "codeworks", "devtools",
		"hackstack", "openlab", "oss-collective", "starfleet", "toolsmith",
	}
	syntheticSuffixes = []string{
		"core", "engine", "kit", "toolkit", "framework", "server", "cli",
		"lib", "hub", "works",
	}
	syntheticLanguages = []string{
		"Python", "JavaScript", "TypeScript", "Go", "Rust", "Java", "Ruby", "C++",
	}
)

// syntheticRecords fabricates plausible repository records when the live
// API is unavailable. The generator is deterministic: the same request
// entities always produce the same records, so repeated degraded runs stay
// consistent. Every record is marked Synthetic.
func syntheticRecords(req query.Request) []model.RepositoryRecord {
	if req.Intent == query.IntentComparison {
		records := make([]model.RepositoryRecord, 0, len(req.Entities))
		for _, entity := range req.Entities {
			records = append(records, syntheticRecord(entity, 0))
		}
		return records
	}

	subject := "repository"
	if len(req.Entities) > 0 {
		subject = req.Entities[0]
	}

	records := make([]model.RepositoryRecord, 0, req.Limit)
	for i := 0; i < req.Limit; i++ {
		records = append(records, syntheticRecord(subject, i))
	}
	return records
}

// syntheticRecord builds one fabricated record seeded by the subject and
// its position so a single degraded response has distinct entries.
func syntheticRecord(subject string, position int) model.RepositoryRecord {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(subject)))
	_, _ = fmt.Fprintf(h, "|%d", position)
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	owner := syntheticOwners[rng.Intn(len(syntheticOwners))]
	slug := slugify(subject)
	name := slug
	if position > 0 {
		name = slug + "-" + syntheticSuffixes[rng.Intn(len(syntheticSuffixes))]
	}
	fullName := owner + "/" + name

	// Star counts decay with position so ranked output still looks ranked.
	stars := 50000/(position+1) + rng.Intn(8000)

	lang := syntheticLanguages[rng.Intn(len(syntheticLanguages))]
	if canonical, ok := query.CanonicalLanguage(strings.ToLower(subject)); ok {
		lang = canonical
	}

	daysAgo := 1 + rng.Intn(20)
	updated := time.Now().AddDate(0, 0, -daysAgo)

	return model.RepositoryRecord{
		FullName:      fullName,
		Name:          name,
		Description:   fmt.Sprintf("A community-maintained %s project", subject),
		Stars:         stars,
		Forks:         stars / (4 + rng.Intn(6)),
		Language:      lang,
		HTMLURL:       "https://github.com/" + fullName,
		UpdatedAt:     updated,
		PushedAt:      updated,
		CreatedAt:     updated.AddDate(-2, 0, 0),
		OpenIssues:    rng.Intn(400),
		Watchers:      stars / 50,
		RecentCommits: rng.Intn(120),
		Contributors:  5 + rng.Intn(300),
		Synthetic:     true,
	}
}

// slugify turns a subject phrase into a repository-name-ish token.
func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '/':
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "project"
	}
	return slug
}
