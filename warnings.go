package versecrop

import (
	"fmt"
	"strings"
)

// Warning describes a non-fatal issue encountered while resolving a
// request. Extraction succeeded but the results may be incomplete.
type Warning struct {
	Kind    ErrorKind
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// FormatWarnings renders warnings one per line for logging.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "\n")
}
