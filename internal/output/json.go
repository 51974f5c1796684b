package output

import (
	"encoding/json"
	"io"

	"github.com/spiffcs/repoquery/internal/compose"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct{}

// Format outputs the composed result as indented JSON
func (f *JSONFormatter) Format(result compose.Result, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
