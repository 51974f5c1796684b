package query

// canonicalLanguages maps lowercase language tokens to the spelling the
// search API expects in a language: qualifier.
var canonicalLanguages = map[string]string{
	"python":       "Python",
	"py":           "Python",
	"javascript":   "JavaScript",
	"js":           "JavaScript",
	"typescript":   "TypeScript",
	"ts":           "TypeScript",
	"go":           "Go",
	"golang":       "Go",
	"rust":         "Rust",
	"java":         "Java",
	"kotlin":       "Kotlin",
	"swift":        "Swift",
	"ruby":         "Ruby",
	"php":          "PHP",
	"c":            "C",
	"c++":          "C++",
	"cpp":          "C++",
	"c#":           "C#",
	"csharp":       "C#",
	"scala":        "Scala",
	"haskell":      "Haskell",
	"elixir":       "Elixir",
	"erlang":       "Erlang",
	"clojure":      "Clojure",
	"dart":         "Dart",
	"lua":          "Lua",
	"r":            "R",
	"julia":        "Julia",
	"perl":         "Perl",
	"zig":          "Zig",
	"nim":          "Nim",
	"ocaml":        "OCaml",
	"shell":        "Shell",
	"bash":         "Shell",
	"html":         "HTML",
	"css":          "CSS",
	"objective-c":  "Objective-C",
	"assembly":     "Assembly",
	"fortran":      "Fortran",
	"cobol":        "COBOL",
	"matlab":       "MATLAB",
	"groovy":       "Groovy",
	"solidity":     "Solidity",
	"vim":          "Vim Script",
	"powershell":   "PowerShell",
	"coffeescript": "CoffeeScript",
}

// CanonicalLanguage reports whether the token names a programming language
// and returns the spelling the search API expects.
func CanonicalLanguage(token string) (string, bool) {
	lang, ok := canonicalLanguages[token]
	return lang, ok
}
