// Package autodeck provides a fluent API for rewriting PowerPoint
// presentations with a generative API: the deck's text runs are edited
// according to a natural-language instruction, and its embedded
// pictures are replaced with generated images sized to match the
// originals.
//
// Basic usage:
//
//	result, warnings, err := autodeck.Open("deck.pptx").
//	    Instruction("translate the text to French").
//	    APIKey(os.Getenv("OPENAI_API_KEY")).
//	    Output("deck-fr.pptx").
//	    Run(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", autodeck.FormatWarnings(warnings))
//	}
//
// For advanced use cases, the lower-level pptx, opc and genai packages
// are also available.
package autodeck

import (
	"github.com/tsawler/autodeck/genai"
	"github.com/tsawler/autodeck/opc"
)

// Editor provides a fluent interface for configuring and running a deck
// edit. Each configuration method returns a new Editor instance, making
// it safe for concurrent use and allowing method chaining.
type Editor struct {
	// Source
	filename string

	// Configuration
	options editOptions

	// Injected collaborators, primarily for tests
	client   *genai.Client
	packager opc.Packager

	// Accumulated error (fail-fast)
	err error
}

// Open prepares an Editor for the given .pptx file. Nothing is read
// until Run is called.
//
// Example:
//
//	result, warnings, err := autodeck.Open("deck.pptx").Instruction("...").Run(ctx)
func Open(filename string) *Editor {
	return &Editor{
		filename: filename,
		options:  defaultEditOptions(),
	}
}

// clone creates a copy of the Editor so chain methods never mutate
// their receiver.
func (e *Editor) clone() *Editor {
	return &Editor{
		filename: e.filename,
		options:  e.options.clone(),
		client:   e.client,
		packager: e.packager,
		err:      e.err,
	}
}

// Instruction sets the natural-language edit applied to the deck's
// text, such as "translate the text to French".
func (e *Editor) Instruction(instruction string) *Editor {
	newEd := e.clone()
	newEd.options.instruction = instruction
	return newEd
}

// Temperature sets the sampling temperature passed to the text-editing
// API. The default is 0.7.
func (e *Editor) Temperature(temperature float64) *Editor {
	newEd := e.clone()
	newEd.options.temperature = temperature
	return newEd
}

// WorkDir sets the scratch directory where the extracted package and
// generated images are kept. When unset, a temporary directory is used
// and removed after the run.
func (e *Editor) WorkDir(dir string) *Editor {
	newEd := e.clone()
	newEd.options.workDir = dir
	return newEd
}

// Output sets the path of the finished deck. The default is
// "final.pptx" in the current directory.
func (e *Editor) Output(filename string) *Editor {
	newEd := e.clone()
	newEd.options.output = filename
	return newEd
}

// SkipImages disables the image-replacement phase; only the deck's text
// is edited.
func (e *Editor) SkipImages() *Editor {
	newEd := e.clone()
	newEd.options.skipImages = true
	return newEd
}

// OCR enables text recognition on the deck's pictures; recognized text
// is folded into the image-generation prompts. Requires a binary built
// with the ocr tag and Tesseract installed.
func (e *Editor) OCR() *Editor {
	newEd := e.clone()
	newEd.options.useOCR = true
	return newEd
}

// APIKey sets the key used to authenticate against the generative API.
func (e *Editor) APIKey(key string) *Editor {
	newEd := e.clone()
	newEd.options.apiKey = key
	return newEd
}

// BaseURL points the generative client at a different API host, for
// proxies or compatible services.
func (e *Editor) BaseURL(url string) *Editor {
	newEd := e.clone()
	newEd.options.baseURL = url
	return newEd
}

// Client injects a preconfigured generative client, overriding APIKey
// and BaseURL.
func (e *Editor) Client(client *genai.Client) *Editor {
	newEd := e.clone()
	newEd.client = client
	return newEd
}

// Packager overrides how the .pptx package is extracted and
// repackaged. The default prefers the external opc tool when installed
// and falls back to the built-in zip packager.
func (e *Editor) Packager(p opc.Packager) *Editor {
	newEd := e.clone()
	newEd.packager = p
	return newEd
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
