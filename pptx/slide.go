package pptx

import "strings"

// Slide represents a parsed slide.
type Slide struct {
	Index    int         // 0-indexed position in presentation order
	Number   int         // 1-based slide number (from the part name)
	Path     string      // Package part name, e.g. "ppt/slides/slide1.xml"
	Runs     []string    // All <a:t> contents in document order
	Content  []TextBlock // Shape-level text in reading order
	Pictures []Picture   // Picture shapes on the slide
	Title    string      // Slide title (from title placeholder)
}

// TextBlock represents a block of text on a slide.
type TextBlock struct {
	Text        string
	IsTitle     bool   // Is this the slide title?
	Placeholder string // Placeholder type (title, body, etc.)
}

// Picture represents a picture shape bound to an embedded media part.
type Picture struct {
	Name      string // Shape name from cNvPr
	RelID     string // r:embed relationship ID
	MediaPart string // Resolved part name, e.g. "ppt/media/image1.png"
	Width     int    // Pixel width of the embedded image
	Height    int    // Pixel height of the embedded image
	data      []byte // Raw media blob
}

// Data returns the raw bytes of the embedded image.
func (p *Picture) Data() []byte {
	return p.data
}

// PromptText returns all shape text on the slide joined with single
// spaces, the form used to derive generation prompts.
func (s *Slide) PromptText() string {
	var b strings.Builder
	for _, block := range s.Content {
		if block.Text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(block.Text)
	}
	return b.String()
}

// GetText returns all text from the slide as a single newline-joined string.
func (s *Slide) GetText() string {
	var b strings.Builder
	for _, block := range s.Content {
		if block.Text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block.Text)
	}
	return b.String()
}
