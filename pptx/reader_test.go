package pptx

import (
	"archive/zip"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tsawler/autodeck/internal/decktest"
)

func writeDeck(t *testing.T, slides ...decktest.Slide) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.pptx")
	decktest.WriteDeck(t, path, slides...)
	return path
}

func TestOpen(t *testing.T) {
	path := writeDeck(t, decktest.Slide{Texts: []string{"Test Title", "Body text"}})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()

	if r.SlideCount() != 1 {
		t.Errorf("SlideCount() = %d, want 1", r.SlideCount())
	}
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open("/nonexistent/file.pptx")
	if err == nil {
		t.Error("Open() expected error for nonexistent file")
	}
}

func TestOpen_InvalidZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pptx")
	if err := os.WriteFile(path, []byte("not a zip file"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	if err == nil {
		t.Error("Open() expected error for invalid zip")
	}
}

func TestOpen_MissingPresentation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pptx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, _ := zw.Create("[Content_Types].xml")
	w.Write([]byte("<Types/>"))
	zw.Close()
	f.Close()

	_, err = Open(path)
	if err == nil {
		t.Error("Open() expected error for missing presentation.xml")
	}
}

func TestOpen_NoSlides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noslides.pptx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, _ := zw.Create("[Content_Types].xml")
	w.Write([]byte("<Types/>"))
	w, _ = zw.Create("ppt/presentation.xml")
	w.Write([]byte("<presentation/>"))
	zw.Close()
	f.Close()

	_, err = Open(path)
	if err == nil {
		t.Error("Open() expected error for missing slides")
	}
}

func TestReader_Close(t *testing.T) {
	path := writeDeck(t, decktest.Slide{Texts: []string{"Title"}})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if err := r.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	// Second close should be safe
	if err := r.Close(); err != nil {
		t.Errorf("Second Close() failed: %v", err)
	}
}

func TestReader_SlideCount(t *testing.T) {
	tests := []struct {
		name   string
		slides int
	}{
		{"single slide", 1},
		{"multiple slides", 3},
		{"five slides", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slides := make([]decktest.Slide, tt.slides)
			for i := range slides {
				slides[i] = decktest.Slide{Texts: []string{"Title", "Body"}}
			}
			path := writeDeck(t, slides...)

			r, err := Open(path)
			if err != nil {
				t.Fatalf("Open() failed: %v", err)
			}
			defer r.Close()

			if got := r.SlideCount(); got != tt.slides {
				t.Errorf("SlideCount() = %d, want %d", got, tt.slides)
			}
		})
	}
}

func TestReader_SlideOrderAndRuns(t *testing.T) {
	path := writeDeck(t,
		decktest.Slide{Texts: []string{"Title", "Subtitle"}},
		decktest.Slide{Texts: []string{"Body"}},
	)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()

	s1, err := r.Slide(0)
	if err != nil {
		t.Fatalf("Slide(0) failed: %v", err)
	}
	if !reflect.DeepEqual(s1.Runs, []string{"Title", "Subtitle"}) {
		t.Errorf("slide 1 runs = %q, want [Title Subtitle]", s1.Runs)
	}
	if s1.Number != 1 || s1.Path != "ppt/slides/slide1.xml" {
		t.Errorf("slide 1 identity = %d %q", s1.Number, s1.Path)
	}

	s2, err := r.Slide(1)
	if err != nil {
		t.Fatalf("Slide(1) failed: %v", err)
	}
	if !reflect.DeepEqual(s2.Runs, []string{"Body"}) {
		t.Errorf("slide 2 runs = %q, want [Body]", s2.Runs)
	}

	// Invalid indices
	if _, err := r.Slide(-1); err == nil {
		t.Error("Slide(-1) expected error")
	}
	if _, err := r.Slide(100); err == nil {
		t.Error("Slide(100) expected error")
	}
}

func TestReader_Title(t *testing.T) {
	path := writeDeck(t, decktest.Slide{Texts: []string{"My Title", "Some body"}})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()

	slide, _ := r.Slide(0)
	if slide.Title != "My Title" {
		t.Errorf("Title = %q, want %q", slide.Title, "My Title")
	}
}

func TestReader_Pictures(t *testing.T) {
	img := decktest.PNG(t, 300, 200)
	path := writeDeck(t, decktest.Slide{Texts: []string{"Pic slide"}, Image: img})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()

	slide, _ := r.Slide(0)
	if len(slide.Pictures) != 1 {
		t.Fatalf("len(Pictures) = %d, want 1", len(slide.Pictures))
	}

	pic := slide.Pictures[0]
	if pic.RelID != "rId2" {
		t.Errorf("RelID = %q, want rId2", pic.RelID)
	}
	if pic.MediaPart != "ppt/media/image1.png" {
		t.Errorf("MediaPart = %q, want ppt/media/image1.png", pic.MediaPart)
	}
	if pic.Width != 300 || pic.Height != 200 {
		t.Errorf("dimensions = %dx%d, want 300x200", pic.Width, pic.Height)
	}
	if len(pic.Data()) != len(img) {
		t.Errorf("Data() length = %d, want %d", len(pic.Data()), len(img))
	}
}

func TestReader_NoPictures(t *testing.T) {
	path := writeDeck(t, decktest.Slide{Texts: []string{"Text only"}})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()

	slide, _ := r.Slide(0)
	if len(slide.Pictures) != 0 {
		t.Errorf("len(Pictures) = %d, want 0", len(slide.Pictures))
	}
}

func TestSlide_PromptText(t *testing.T) {
	path := writeDeck(t, decktest.Slide{Texts: []string{"Alpha", "Beta", "Gamma"}})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()

	slide, _ := r.Slide(0)
	if got := slide.PromptText(); got != "Alpha Beta Gamma" {
		t.Errorf("PromptText() = %q, want %q", got, "Alpha Beta Gamma")
	}
}

func TestSlide_GetText(t *testing.T) {
	path := writeDeck(t, decktest.Slide{Texts: []string{"Alpha", "Beta"}})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()

	slide, _ := r.Slide(0)
	if got := slide.GetText(); got != "Alpha\nBeta" {
		t.Errorf("GetText() = %q, want %q", got, "Alpha\nBeta")
	}
}

func TestNormalizeRelTarget(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"../media/image1.png", "ppt/media/image1.png"},
		{"/ppt/media/image2.png", "ppt/media/image2.png"},
		{"image3.png", "ppt/slides/image3.png"},
		{"ppt/media/image4.png", "ppt/media/image4.png"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if got := normalizeRelTarget(tt.target); got != tt.want {
				t.Errorf("normalizeRelTarget(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

func TestReader_Slides(t *testing.T) {
	path := writeDeck(t,
		decktest.Slide{Texts: []string{"One"}},
		decktest.Slide{Texts: []string{"Two"}},
	)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()

	slides := r.Slides()
	if len(slides) != 2 {
		t.Fatalf("len(Slides()) = %d, want 2", len(slides))
	}
	for i, s := range slides {
		if s.Index != i {
			t.Errorf("slide %d has Index %d", i, s.Index)
		}
	}
}
