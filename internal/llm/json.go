package llm

import (
	"errors"
	"regexp"
	"strings"
)

// fencedJSON matches JSON inside ```json ... ``` fences.
var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\}|\\[.*\\])\\s*```")

// ExtractJSON pulls the JSON object or array out of a model response that
// may wrap it in markdown fences or surrounding prose.
func ExtractJSON(input string) (string, error) {
	trimmed := strings.TrimSpace(input)

	if matches := fencedJSON.FindStringSubmatch(trimmed); len(matches) >= 2 {
		return matches[1], nil
	}

	// Fall back to the outermost brace pair.
	start := strings.IndexAny(trimmed, "{[")
	if start < 0 {
		return "", errors.New("no JSON object or array found in response")
	}
	open := trimmed[start]
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(trimmed); i++ {
		ch := trimmed[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == closer:
			depth--
			if depth == 0 {
				return trimmed[start : i+1], nil
			}
		}
	}

	return "", errors.New("unbalanced JSON in response")
}
