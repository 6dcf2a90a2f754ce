package autodeck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/autodeck/format"
	"github.com/tsawler/autodeck/genai"
	"github.com/tsawler/autodeck/imaging"
	"github.com/tsawler/autodeck/ocr"
	"github.com/tsawler/autodeck/opc"
	"github.com/tsawler/autodeck/pptx"
	"github.com/tsawler/autodeck/rewrite"
)

// Result summarizes a completed run.
type Result struct {
	Output         string   // Path of the finished deck
	Slides         int      // Slides in the deck
	Runs           int      // Text runs sent to the text-editing API
	Lines          int      // Lines returned by the text-editing API
	ImagesReplaced int      // Pictures replaced with generated images
	ImageFiles     []string // Generated images written to the work dir
}

// Run executes the configured edit: the deck is unpacked, its text runs
// are rewritten by the text-editing API, the package is reassembled,
// and unless disabled each embedded picture is replaced with a
// generated image resized to the original's dimensions.
//
// Warnings report recoverable problems, such as the API returning a
// different number of lines than there are runs. The returned error is
// fatal; the output deck is only written on a nil error.
func (e *Editor) Run(ctx context.Context) (*Result, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if e.filename == "" {
		return nil, nil, fmt.Errorf("no input file specified")
	}
	if e.options.instruction == "" {
		return nil, nil, fmt.Errorf("no instruction specified")
	}

	client := e.client
	if client == nil {
		if e.options.apiKey == "" {
			return nil, nil, fmt.Errorf("no API key specified")
		}
		client = genai.NewClient(genai.Config{
			APIKey:  e.options.apiKey,
			BaseURL: e.options.baseURL,
		})
	}

	packager := e.packager
	if packager == nil {
		packager = opc.Default()
	}

	workDir := e.options.workDir
	if workDir == "" {
		tmp, err := os.MkdirTemp("", "autodeck-")
		if err != nil {
			return nil, nil, fmt.Errorf("creating work dir: %w", err)
		}
		defer os.RemoveAll(tmp)
		workDir = tmp
	} else if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating work dir: %w", err)
	}

	if err := checkFormat(e.filename); err != nil {
		return nil, nil, err
	}

	var warnings []Warning

	// Take the run inventory from the source deck before unpacking it.
	src, err := pptx.Open(e.filename)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", e.filename, err)
	}
	var slideRuns []rewrite.SlideRuns
	var allRuns []string
	for _, slide := range src.Slides() {
		slideRuns = append(slideRuns, rewrite.SlideRuns{Number: slide.Number, Runs: slide.Runs})
		allRuns = append(allRuns, slide.Runs...)
	}
	slideCount := src.SlideCount()
	src.Close()

	extractDir := filepath.Join(workDir, "package")
	if err := packager.Extract(ctx, e.filename, extractDir); err != nil {
		return nil, warnings, err
	}

	lineCount := 0
	if len(allRuns) > 0 {
		edited, err := client.EditText(ctx, genai.EditRequest{
			Input:       strings.Join(allRuns, "\n"),
			Instruction: fmt.Sprintf("%s. The new string must contain %d lines.", e.options.instruction, len(allRuns)),
			Temperature: e.options.temperature,
		})
		if err != nil {
			return nil, warnings, fmt.Errorf("editing text: %w", err)
		}

		lines := rewrite.SplitLines(edited)
		lineCount = len(lines)

		rw, err := rewrite.Apply(extractDir, slideRuns, lines)
		for _, w := range rw {
			warnings = append(warnings, Warning{Stage: "text", Slide: w.Slide, Message: w.Message})
		}
		if err != nil {
			return nil, warnings, err
		}
	} else {
		warnings = append(warnings, Warning{Stage: "text", Message: "deck contains no text runs"})
	}

	editedPath := filepath.Join(workDir, "edited.pptx")
	if err := packager.Repackage(ctx, extractDir, editedPath); err != nil {
		return nil, warnings, err
	}

	out, err := pptx.Open(editedPath)
	if err != nil {
		return nil, warnings, fmt.Errorf("opening repackaged deck: %w", err)
	}
	defer out.Close()

	result := &Result{
		Output: e.options.output,
		Slides: slideCount,
		Runs:   len(allRuns),
		Lines:  lineCount,
	}

	if !e.options.skipImages {
		imgWarnings, err := e.replaceImages(ctx, client, out, workDir, result)
		warnings = append(warnings, imgWarnings...)
		if err != nil {
			return nil, warnings, err
		}
	}

	if err := out.SaveAs(e.options.output); err != nil {
		return nil, warnings, fmt.Errorf("writing %s: %w", e.options.output, err)
	}

	return result, warnings, nil
}

// checkFormat verifies the input is a PPTX package, not one of the
// other ZIP-based Office formats.
func checkFormat(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filename, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("opening %s: %w", filename, err)
	}

	detected, err := format.DetectFromReader(f, info.Size())
	if err != nil {
		return fmt.Errorf("detecting format of %s: %w", filename, err)
	}
	if detected != format.PPTX {
		return fmt.Errorf("%s is %s, only PPTX presentations are supported", filename, detected)
	}
	return nil
}

// replaceImages generates a replacement for every picture in the deck,
// using the slide's (already edited) text as the prompt. Generated
// images are kept in the work dir and staged into the deck at the
// picture's media part.
func (e *Editor) replaceImages(ctx context.Context, client *genai.Client, out *pptx.Reader, workDir string, result *Result) ([]Warning, error) {
	var warnings []Warning

	var ocrClient *ocr.Client
	if e.options.useOCR {
		oc, err := ocr.New()
		if err != nil {
			return nil, fmt.Errorf("enabling OCR: %w", err)
		}
		defer oc.Close()
		ocrClient = oc
	}

	for _, slide := range out.Slides() {
		for i := range slide.Pictures {
			pic := &slide.Pictures[i]

			if pic.Width <= 0 || pic.Height <= 0 {
				return warnings, fmt.Errorf("slide %d: picture %s has unknown dimensions", slide.Number, pic.MediaPart)
			}

			prompt := slide.PromptText()
			if ocrClient != nil {
				text, err := ocrClient.RecognizeImage(pic.Data())
				if err != nil {
					warnings = append(warnings, Warning{
						Stage:   "images",
						Slide:   slide.Number,
						Message: fmt.Sprintf("OCR failed for %s: %v", pic.MediaPart, err),
					})
				} else if text != "" {
					prompt = strings.TrimSpace(prompt + " " + text)
				}
			}
			if prompt == "" {
				warnings = append(warnings, Warning{
					Stage:   "images",
					Slide:   slide.Number,
					Message: "no text to derive a prompt from, keeping original picture",
				})
				continue
			}

			url, err := client.GenerateImage(ctx, genai.ImageRequest{
				Prompt: prompt,
				Size:   imaging.Bucket(pic.Width),
			})
			if err != nil {
				return warnings, fmt.Errorf("generating image for slide %d: %w", slide.Number, err)
			}

			data, err := client.Download(ctx, url)
			if err != nil {
				return warnings, fmt.Errorf("downloading image for slide %d: %w", slide.Number, err)
			}

			resized, err := imaging.Resize(data, pic.Width, pic.Height)
			if err != nil {
				return warnings, fmt.Errorf("resizing image for slide %d: %w", slide.Number, err)
			}

			name := fmt.Sprintf("slide%d.png", slide.Number)
			if i > 0 {
				name = fmt.Sprintf("slide%d-%d.png", slide.Number, i+1)
			}
			imgPath := filepath.Join(workDir, name)
			if err := os.WriteFile(imgPath, resized, 0644); err != nil {
				return warnings, fmt.Errorf("saving generated image: %w", err)
			}

			if err := out.ReplaceMedia(pic.MediaPart, resized); err != nil {
				return warnings, fmt.Errorf("staging image for slide %d: %w", slide.Number, err)
			}

			result.ImagesReplaced++
			result.ImageFiles = append(result.ImageFiles, imgPath)
		}
	}

	return warnings, nil
}
