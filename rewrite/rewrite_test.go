package rewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSlide(t *testing.T, dir string, number int, texts ...string) string {
	t.Helper()

	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	body.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree>`)
	for _, text := range texts {
		fmt.Fprintf(&body, `<p:sp><p:txBody><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`, text)
	}
	body.WriteString(`</p:spTree></p:cSld></p:sld>`)

	path := filepath.Join(dir, "ppt", "slides", fmt.Sprintf("slide%d.xml", number))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating slide dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body.String()), 0644); err != nil {
		t.Fatalf("writing slide: %v", err)
	}
	return path
}

func readSlide(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading slide: %v", err)
	}
	return string(data)
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	p1 := writeSlide(t, dir, 1, "Title", "Subtitle")
	p2 := writeSlide(t, dir, 2, "Body")

	slides := []SlideRuns{
		{Number: 1, Runs: []string{"Title", "Subtitle"}},
		{Number: 2, Runs: []string{"Body"}},
	}
	warnings, err := Apply(dir, slides, []string{"Titre", "Sous-titre", "Corps"})
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Apply() warnings = %v, want none", warnings)
	}

	got1 := readSlide(t, p1)
	if !strings.Contains(got1, "<a:t>Titre</a:t>") || !strings.Contains(got1, "<a:t>Sous-titre</a:t>") {
		t.Errorf("slide 1 not rewritten:\n%s", got1)
	}
	if strings.Contains(got1, ">Title<") || strings.Contains(got1, ">Subtitle<") {
		t.Errorf("slide 1 still has original text:\n%s", got1)
	}
	if got2 := readSlide(t, p2); !strings.Contains(got2, "<a:t>Corps</a:t>") {
		t.Errorf("slide 2 not rewritten:\n%s", got2)
	}
}

func TestApply_FirstMatchOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeSlide(t, dir, 1, "Agenda", "Agenda")

	slides := []SlideRuns{{Number: 1, Runs: []string{"Agenda", "Agenda"}}}
	warnings, err := Apply(dir, slides, []string{"Ordre du jour", "Programme"})
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Apply() warnings = %v, want none", warnings)
	}

	got := readSlide(t, path)
	first := strings.Index(got, "<a:t>Ordre du jour</a:t>")
	second := strings.Index(got, "<a:t>Programme</a:t>")
	if first < 0 || second < 0 {
		t.Fatalf("both replacements should be present:\n%s", got)
	}
	if first > second {
		t.Errorf("replacements applied out of order:\n%s", got)
	}
}

func TestApply_PadsShortResponse(t *testing.T) {
	dir := t.TempDir()
	path := writeSlide(t, dir, 1, "One", "Two", "Three")

	slides := []SlideRuns{{Number: 1, Runs: []string{"One", "Two", "Three"}}}
	warnings, err := Apply(dir, slides, []string{"Un"})
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "padding") {
		t.Errorf("warnings = %v, want one padding warning", warnings)
	}

	got := readSlide(t, path)
	if !strings.Contains(got, "<a:t>Un</a:t>") {
		t.Errorf("first run not replaced:\n%s", got)
	}
	if strings.Count(got, "<a:t></a:t>") != 2 {
		t.Errorf("remaining runs should be emptied:\n%s", got)
	}
}

func TestApply_DropsExtraLines(t *testing.T) {
	dir := t.TempDir()
	path := writeSlide(t, dir, 1, "One")

	slides := []SlideRuns{{Number: 1, Runs: []string{"One"}}}
	warnings, err := Apply(dir, slides, []string{"Un", "Deux", "Trois"})
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "dropping") {
		t.Errorf("warnings = %v, want one dropping warning", warnings)
	}

	got := readSlide(t, path)
	if !strings.Contains(got, "<a:t>Un</a:t>") {
		t.Errorf("run not replaced:\n%s", got)
	}
	if strings.Contains(got, "Deux") || strings.Contains(got, "Trois") {
		t.Errorf("extra lines should not appear:\n%s", got)
	}
}

func TestApply_RunNotFound(t *testing.T) {
	dir := t.TempDir()
	writeSlide(t, dir, 1, "Present")

	slides := []SlideRuns{{Number: 1, Runs: []string{"Missing"}}}
	warnings, err := Apply(dir, slides, []string{"anything"})
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Slide != 1 {
		t.Fatalf("warnings = %v, want one slide-1 warning", warnings)
	}
	if !strings.Contains(warnings[0].Message, "Missing") {
		t.Errorf("warning message = %q, want the missing run named", warnings[0].Message)
	}
}

func TestApply_EscapedText(t *testing.T) {
	dir := t.TempDir()
	path := writeSlide(t, dir, 1, "AT&amp;T Review")

	// The parser hands back decoded text.
	slides := []SlideRuns{{Number: 1, Runs: []string{"AT&T Review"}}}
	warnings, err := Apply(dir, slides, []string{"Revue AT&T <2026>"})
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	got := readSlide(t, path)
	if !strings.Contains(got, "<a:t>Revue AT&amp;T &lt;2026&gt;</a:t>") {
		t.Errorf("replacement not escaped:\n%s", got)
	}
}

func TestApply_MissingSlideFile(t *testing.T) {
	dir := t.TempDir()

	slides := []SlideRuns{{Number: 1, Runs: []string{"Title"}}}
	if _, err := Apply(dir, slides, []string{"Titre"}); err == nil {
		t.Error("Apply() expected error for missing slide file")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want []string
	}{
		{"plain", "a\nb\nc", []string{"a", "b", "c"}},
		{"surrounding newlines", "\n\na\nb\n", []string{"a", "b"}},
		{"interior blank kept", "a\n\nb", []string{"a", "", "b"}},
		{"single line", "hello", []string{"hello"}},
		{"empty", "", nil},
		{"only newlines", "\n\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLines(tt.blob)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitLines(%q) = %v, want %v", tt.blob, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
