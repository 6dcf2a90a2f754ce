package autodeck

// editOptions holds configuration for a deck edit.
type editOptions struct {
	instruction string
	temperature float64

	workDir string // Scratch space; a temp dir is created when empty
	output  string // Final deck path

	skipImages bool
	useOCR     bool

	apiKey  string
	baseURL string
}

// DefaultOutput is the deck written when no output path is configured.
const DefaultOutput = "final.pptx"

// defaultTemperature matches the sampling temperature the text-editing
// API performs well at for rewrite instructions.
const defaultTemperature = 0.7

func defaultEditOptions() editOptions {
	return editOptions{
		temperature: defaultTemperature,
		output:      DefaultOutput,
	}
}

// clone creates a copy of editOptions. All fields are value types, so a
// plain copy suffices; the method exists to keep the chain semantics
// obvious at call sites.
func (o editOptions) clone() editOptions {
	return o
}
