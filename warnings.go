package autodeck

import (
	"fmt"
	"strings"
)

// Warning represents a non-fatal problem encountered while editing a
// deck. Warnings never stop the run; callers decide whether to surface
// them.
type Warning struct {
	// Stage names the pipeline phase that produced the warning, such
	// as "text" or "images".
	Stage string

	// Slide is the 1-based slide number, or 0 when the warning is not
	// tied to a slide.
	Slide int

	// Message describes the problem.
	Message string
}

func (w Warning) String() string {
	if w.Slide > 0 {
		return fmt.Sprintf("[%s] slide %d: %s", w.Stage, w.Slide, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Stage, w.Message)
}

// FormatWarnings renders warnings as a single newline-separated string
// for logging.
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
