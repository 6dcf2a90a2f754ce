// Package rewrite substitutes edited text back into the slide XML of an
// extracted presentation directory.
package rewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/autodeck/pptx"
)

// SlideRuns pairs a slide number with the text runs extracted from it,
// in document order.
type SlideRuns struct {
	Number int
	Runs   []string
}

// Warning records a recoverable problem during substitution, such as a
// run the edited text had no replacement for.
type Warning struct {
	Slide   int
	Message string
}

func (w Warning) String() string {
	if w.Slide > 0 {
		return fmt.Sprintf("slide %d: %s", w.Slide, w.Message)
	}
	return w.Message
}

// Apply walks the slides in order, consuming one line of edited text
// per original run and substituting it into the slide's XML file under
// dir. Substitution is literal and first-match only, so a run is
// replaced where it first appears even when the same text occurs more
// than once.
//
// When the edited text has fewer lines than there are runs, the
// remaining runs are replaced with empty strings; extra lines are
// dropped. Both cases produce warnings rather than errors.
func Apply(dir string, slides []SlideRuns, lines []string) ([]Warning, error) {
	var warnings []Warning

	total := 0
	for _, s := range slides {
		total += len(s.Runs)
	}
	if len(lines) < total {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("edited text has %d lines for %d runs, padding with empty strings", len(lines), total),
		})
	} else if len(lines) > total {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("edited text has %d lines for %d runs, dropping the extras", len(lines), total),
		})
	}

	next := 0
	for _, slide := range slides {
		if len(slide.Runs) == 0 {
			continue
		}

		path := filepath.Join(dir, filepath.FromSlash(pptx.SlidePath(slide.Number)))
		data, err := os.ReadFile(path)
		if err != nil {
			return warnings, fmt.Errorf("reading slide %d: %w", slide.Number, err)
		}

		content := string(data)
		for _, run := range slide.Runs {
			replacement := ""
			if next < len(lines) {
				replacement = lines[next]
			}
			next++

			if run == "" {
				continue
			}

			// Runs come back from the parser decoded, but the
			// substitution works on raw XML, so both sides need
			// escaping to line up with the file's contents.
			old := escapeText(run)
			if !strings.Contains(content, old) {
				// Some producers escape differently than
				// encoding/xml does.
				old = run
			}
			if !strings.Contains(content, old) {
				warnings = append(warnings, Warning{
					Slide:   slide.Number,
					Message: fmt.Sprintf("run %q not found in slide XML", run),
				})
				continue
			}
			content = strings.Replace(content, old, escapeText(replacement), 1)
		}

		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return warnings, fmt.Errorf("writing slide %d: %w", slide.Number, err)
		}
	}

	return warnings, nil
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapeText escapes the characters that are always escaped in XML
// character data. Quotes are left alone, matching how presentation
// producers write run text.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// SplitLines breaks the edited blob into lines, trimming the leading
// and trailing blank lines the text-editing API tends to emit.
func SplitLines(blob string) []string {
	blob = strings.Trim(blob, "\n")
	if blob == "" {
		return nil
	}
	return strings.Split(blob, "\n")
}
