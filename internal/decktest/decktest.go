// Package decktest builds minimal PPTX fixtures for tests.
package decktest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"
	"testing"
)

// Slide describes one slide of a test deck.
type Slide struct {
	Texts []string // One <a:t> run per entry, each in its own shape
	Image []byte   // Optional embedded PNG
}

// PNG returns an encoded solid-color PNG of the given dimensions.
func PNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding PNG: %v", err)
	}
	return buf.Bytes()
}

// WriteDeck writes a minimal PPTX with the given slides to path.
func WriteDeck(t *testing.T, path string, slides ...Slide) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating deck file: %v", err)
	}
	defer f.Close()
	BuildDeck(t, f, slides...)
}

// DeckBytes returns a minimal PPTX with the given slides as a byte slice.
func DeckBytes(t *testing.T, slides ...Slide) []byte {
	t.Helper()
	var buf bytes.Buffer
	BuildDeck(t, &buf, slides...)
	return buf.Bytes()
}

// BuildDeck writes a minimal PPTX with the given slides to w.
func BuildDeck(t *testing.T, w io.Writer, slides ...Slide) {
	t.Helper()
	zw := zip.NewWriter(w)

	var contentTypes strings.Builder
	contentTypes.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Default Extension="png" ContentType="image/png"/>
  <Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	for i := range slides {
		fmt.Fprintf(&contentTypes, "\n  <Override PartName=\"/ppt/slides/slide%d.xml\" ContentType=\"application/vnd.openxmlformats-officedocument.presentationml.slide+xml\"/>", i+1)
	}
	contentTypes.WriteString("\n</Types>")
	writeEntry(t, zw, "[Content_Types].xml", contentTypes.String())

	writeEntry(t, zw, "_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>
</Relationships>`)

	var presRels strings.Builder
	presRels.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i := range slides {
		fmt.Fprintf(&presRels, "\n  <Relationship Id=\"rId%d\" Type=\"http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide\" Target=\"slides/slide%d.xml\"/>", i+1, i+1)
	}
	presRels.WriteString("\n</Relationships>")
	writeEntry(t, zw, "ppt/_rels/presentation.xml.rels", presRels.String())

	var pres strings.Builder
	pres.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><p:sldIdLst>`)
	for i := range slides {
		fmt.Fprintf(&pres, `<p:sldId id="%d" r:id="rId%d"/>`, 255+i+1, i+1)
	}
	pres.WriteString(`</p:sldIdLst><p:sldSz cx="9144000" cy="6858000"/></p:presentation>`)
	writeEntry(t, zw, "ppt/presentation.xml", pres.String())

	for i, slide := range slides {
		n := i + 1
		writeEntry(t, zw, fmt.Sprintf("ppt/slides/slide%d.xml", n), slideXML(slide))

		if slide.Image != nil {
			rels := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image%d.png"/>
</Relationships>`, n)
			writeEntry(t, zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), rels)

			mw, err := zw.Create(fmt.Sprintf("ppt/media/image%d.png", n))
			if err != nil {
				t.Fatalf("creating media entry: %v", err)
			}
			if _, err := mw.Write(slide.Image); err != nil {
				t.Fatalf("writing media entry: %v", err)
			}
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("closing deck zip: %v", err)
	}
}

// slideXML renders one slide part with one shape per text run and an
// optional picture shape.
func slideXML(slide Slide) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <p:cSld>
    <p:spTree>
      <p:nvGrpSpPr><p:cNvPr id="1" name=""/></p:nvGrpSpPr>`)

	for i, text := range slide.Texts {
		phType := "body"
		if i == 0 {
			phType = "title"
		}
		fmt.Fprintf(&b, `
      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="%d" name="Shape %d"/>
          <p:nvPr><p:ph type=%q/></p:nvPr>
        </p:nvSpPr>
        <p:spPr/>
        <p:txBody>
          <a:bodyPr/>
          <a:p><a:r><a:t>%s</a:t></a:r></a:p>
        </p:txBody>
      </p:sp>`, i+2, i+1, phType, escapeXML(text))
	}

	if slide.Image != nil {
		b.WriteString(`
      <p:pic>
        <p:nvPicPr><p:cNvPr id="90" name="Picture 1"/></p:nvPicPr>
        <p:blipFill><a:blip r:embed="rId2"/></p:blipFill>
        <p:spPr/>
      </p:pic>`)
	}

	b.WriteString(`
    </p:spTree>
  </p:cSld>
</p:sld>`)
	return b.String()
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func writeEntry(t *testing.T, zw *zip.Writer, name, content string) {
	t.Helper()
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("creating %s in zip: %v", name, err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}
