package query

import "strings"

// AliasMap resolves common project nicknames to canonical owner/name
// identifiers so comparison queries hit authoritative records instead of
// ambiguous free-text search results.
type AliasMap struct {
	entries map[string]string
}

// defaultAliases is the built-in nickname table. Keys are lowercase.
var defaultAliases = map[string]string{
	"react":        "facebook/react",
	"vue":          "vuejs/vue",
	"angular":      "angular/angular",
	"svelte":       "sveltejs/svelte",
	"next":         "vercel/next.js",
	"nextjs":       "vercel/next.js",
	"nuxt":         "nuxt/nuxt",
	"express":      "expressjs/express",
	"django":       "django/django",
	"flask":        "pallets/flask",
	"fastapi":      "tiangolo/fastapi",
	"rails":        "rails/rails",
	"laravel":      "laravel/laravel",
	"spring":       "spring-projects/spring-framework",
	"kubernetes":   "kubernetes/kubernetes",
	"k8s":          "kubernetes/kubernetes",
	"docker":       "moby/moby",
	"terraform":    "hashicorp/terraform",
	"ansible":      "ansible/ansible",
	"tensorflow":   "tensorflow/tensorflow",
	"pytorch":      "pytorch/pytorch",
	"keras":        "keras-team/keras",
	"scikit-learn": "scikit-learn/scikit-learn",
	"pandas":       "pandas-dev/pandas",
	"numpy":        "numpy/numpy",
	"redis":        "redis/redis",
	"postgres":     "postgres/postgres",
	"postgresql":   "postgres/postgres",
	"vscode":       "microsoft/vscode",
	"linux":        "torvalds/linux",
	"git":          "git/git",
	"node":         "nodejs/node",
	"nodejs":       "nodejs/node",
	"deno":         "denoland/deno",
	"bun":          "oven-sh/bun",
	"go":           "golang/go",
	"golang":       "golang/go",
	"rust":         "rust-lang/rust",
	"python":       "python/cpython",
	"typescript":   "microsoft/TypeScript",
	"swift":        "swiftlang/swift",
	"flutter":      "flutter/flutter",
	"electron":     "electron/electron",
}

// NewAliasMap creates an alias map from the built-in table with optional
// user overrides merged on top. Override keys are matched case-insensitively.
func NewAliasMap(overrides map[string]string) *AliasMap {
	entries := make(map[string]string, len(defaultAliases)+len(overrides))
	for k, v := range defaultAliases {
		entries[k] = v
	}
	for k, v := range overrides {
		entries[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &AliasMap{entries: entries}
}

// Resolve looks up a nickname and returns the canonical owner/name
// identifier. Names already in owner/name form resolve to themselves.
func (m *AliasMap) Resolve(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if strings.Count(trimmed, "/") == 1 {
		return trimmed, true
	}
	full, ok := m.entries[strings.ToLower(trimmed)]
	return full, ok
}
