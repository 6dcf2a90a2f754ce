package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"io"
	"path"
	"sort"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Reader provides access to PPTX package content.
type Reader struct {
	zipReader *zip.ReadCloser
	slides    []*Slide
	slideRels map[int]*relationshipsXML // Slide index -> relationships
	coreProps *corePropertiesXML
	appProps  *appPropertiesXML
	replaced  map[string][]byte // Staged part overwrites for SaveAs
}

// Open opens a PPTX file for reading and editing.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{
		zipReader: zr,
		slideRels: make(map[int]*relationshipsXML),
		replaced:  make(map[string][]byte),
	}

	if err := r.validate(); err != nil {
		zr.Close()
		return nil, err
	}

	if err := r.parseSlides(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing slides: %w", err)
	}

	// Parse metadata (optional)
	r.parseCoreProperties()
	r.parseAppProperties()

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipReader != nil {
		err := r.zipReader.Close()
		r.zipReader = nil
		return err
	}
	return nil
}

// validate checks that required PPTX parts exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"ppt/presentation.xml",
	}

	fileMap := make(map[string]bool)
	for _, f := range r.zipReader.File {
		fileMap[f.Name] = true
	}

	for _, name := range required {
		if !fileMap[name] {
			return fmt.Errorf("missing required file: %s", name)
		}
	}

	hasSlide := false
	for name := range fileMap {
		if isSlidePart(name) {
			hasSlide = true
			break
		}
	}
	if !hasSlide {
		return fmt.Errorf("no slides found in presentation")
	}

	return nil
}

// isSlidePart reports whether a part name is a slide XML file.
func isSlidePart(name string) bool {
	return strings.HasPrefix(name, "ppt/slides/slide") &&
		strings.HasSuffix(name, ".xml") &&
		!strings.Contains(name, "_rels")
}

// getFileContent reads the content of a part from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	for _, f := range r.zipReader.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// parseSlides parses all slide parts in slide-number order.
func (r *Reader) parseSlides() error {
	slideFiles := make([]string, 0)
	for _, f := range r.zipReader.File {
		if isSlidePart(f.Name) {
			slideFiles = append(slideFiles, f.Name)
		}
	}

	sort.Slice(slideFiles, func(i, j int) bool {
		return extractSlideNumber(slideFiles[i]) < extractSlideNumber(slideFiles[j])
	})

	r.slides = make([]*Slide, 0, len(slideFiles))

	for i, slidePath := range slideFiles {
		slide, err := r.parseSlide(slidePath, i)
		if err != nil {
			return fmt.Errorf("slide %s: %w", slidePath, err)
		}
		r.slides = append(r.slides, slide)
	}

	if len(r.slides) == 0 {
		return fmt.Errorf("no slides could be parsed")
	}

	return nil
}

// extractSlideNumber extracts the slide number from a path like "ppt/slides/slide1.xml"
func extractSlideNumber(path string) int {
	name := strings.TrimPrefix(path, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}

// parseSlide parses a single slide part.
func (r *Reader) parseSlide(slidePath string, index int) (*Slide, error) {
	data, err := r.getFileContent(slidePath)
	if err != nil {
		return nil, err
	}

	runs, err := ParseRuns(data)
	if err != nil {
		return nil, err
	}

	var sx slideXML
	if err := xml.Unmarshal(data, &sx); err != nil {
		return nil, err
	}

	slide := &Slide{
		Index:   index,
		Number:  extractSlideNumber(slidePath),
		Path:    slidePath,
		Runs:    runs,
		Content: make([]TextBlock, 0),
	}

	r.extractShapes(&sx.CSld.SpTree, slide)
	r.parseSlideRelationships(slidePath, index)

	if err := r.extractPictures(&sx.CSld.SpTree, slide, index); err != nil {
		return nil, err
	}

	return slide, nil
}

// extractShapes collects shape-level text from the shape tree.
func (r *Reader) extractShapes(spTree *spTreeXML, slide *Slide) {
	for _, sp := range spTree.Sp {
		block := extractTextBlock(&sp)
		if block != nil {
			if block.IsTitle && slide.Title == "" {
				slide.Title = block.Text
			}
			slide.Content = append(slide.Content, *block)
		}
	}

	// Grouped shapes (recursive)
	for _, grpSp := range spTree.GrpSp {
		r.extractGroupedShapes(&grpSp, slide)
	}
}

// extractGroupedShapes collects text from a group of shapes.
func (r *Reader) extractGroupedShapes(grpSp *grpSpXML, slide *Slide) {
	for _, sp := range grpSp.Sp {
		block := extractTextBlock(&sp)
		if block != nil {
			slide.Content = append(slide.Content, *block)
		}
	}
	for _, nested := range grpSp.GrpSp {
		r.extractGroupedShapes(&nested, slide)
	}
}

// extractTextBlock extracts text from a shape.
func extractTextBlock(sp *spXML) *TextBlock {
	if sp.TxBody == nil || len(sp.TxBody.P) == 0 {
		return nil
	}

	block := &TextBlock{}

	if sp.NvSpPr.NvPr.Ph != nil {
		phType := sp.NvSpPr.NvPr.Ph.Type
		block.Placeholder = phType
		block.IsTitle = phType == "title" || phType == "ctrTitle"
	}

	var text strings.Builder
	for _, p := range sp.TxBody.P {
		var line strings.Builder
		for _, run := range p.R {
			line.WriteString(run.T)
		}
		for _, fld := range p.Fld {
			line.WriteString(fld.T)
		}
		if line.Len() == 0 {
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n")
		}
		text.WriteString(line.String())
	}

	block.Text = text.String()
	if block.Text == "" {
		return nil
	}

	return block
}

// extractPictures resolves the top-level picture shapes on a slide to
// their embedded media parts and decodes their pixel dimensions.
// Pictures whose media cannot be decoded keep zero dimensions.
func (r *Reader) extractPictures(spTree *spTreeXML, slide *Slide, index int) error {
	rels := r.slideRels[index]

	for _, pic := range spTree.Pic {
		p := Picture{
			Name:  pic.NvPicPr.CNvPr.Name,
			RelID: pic.BlipFill.Blip.Embed,
		}

		if p.RelID == "" || rels == nil {
			slide.Pictures = append(slide.Pictures, p)
			continue
		}

		target := ""
		for _, rel := range rels.Relationship {
			if rel.ID == p.RelID {
				target = rel.Target
				break
			}
		}
		if target == "" {
			slide.Pictures = append(slide.Pictures, p)
			continue
		}

		p.MediaPart = normalizeRelTarget(target)

		data, err := r.getFileContent(p.MediaPart)
		if err != nil {
			return fmt.Errorf("picture %s: %w", p.RelID, err)
		}
		p.data = data

		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			p.Width = cfg.Width
			p.Height = cfg.Height
		}

		slide.Pictures = append(slide.Pictures, p)
	}

	return nil
}

// normalizeRelTarget resolves a slide-relative relationship target like
// "../media/image1.png" to a package part name.
func normalizeRelTarget(target string) string {
	if strings.HasPrefix(target, "../") {
		return "ppt/" + strings.TrimPrefix(target, "../")
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	if !strings.HasPrefix(target, "ppt/") {
		return "ppt/slides/" + target
	}
	return target
}

// parseSlideRelationships parses the relationships for a slide.
func (r *Reader) parseSlideRelationships(slidePath string, index int) {
	dir := path.Dir(slidePath)
	base := path.Base(slidePath)
	relsPath := path.Join(dir, "_rels", base+".rels")

	data, err := r.getFileContent(relsPath)
	if err != nil {
		return // Relationships are optional
	}

	rels := &relationshipsXML{}
	if err := xml.Unmarshal(data, rels); err != nil {
		return
	}

	r.slideRels[index] = rels
}

// parseCoreProperties parses Dublin Core metadata.
func (r *Reader) parseCoreProperties() {
	data, err := r.getFileContent("docProps/core.xml")
	if err != nil {
		return
	}

	r.coreProps = &corePropertiesXML{}
	xml.Unmarshal(data, r.coreProps)
}

// parseAppProperties parses application metadata.
func (r *Reader) parseAppProperties() {
	data, err := r.getFileContent("docProps/app.xml")
	if err != nil {
		return
	}

	r.appProps = &appPropertiesXML{}
	xml.Unmarshal(data, r.appProps)
}

// SlideCount returns the number of slides.
func (r *Reader) SlideCount() int {
	return len(r.slides)
}

// Slide returns the slide at the given index (0-indexed).
func (r *Reader) Slide(index int) (*Slide, error) {
	if index < 0 || index >= len(r.slides) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", index, len(r.slides)-1)
	}
	return r.slides[index], nil
}

// Slides returns all slides in presentation order.
func (r *Reader) Slides() []*Slide {
	return r.slides
}

// Metadata holds document metadata from docProps.
type Metadata struct {
	Title    string
	Subject  string
	Author   string
	Creator  string
	Keywords []string
}

// Metadata returns document metadata.
func (r *Reader) Metadata() Metadata {
	meta := Metadata{}
	if r.coreProps != nil {
		meta.Title = r.coreProps.Title
		meta.Author = r.coreProps.Creator
		meta.Subject = r.coreProps.Subject
		if r.coreProps.Keywords != "" {
			meta.Keywords = strings.Split(r.coreProps.Keywords, ",")
			for i, kw := range meta.Keywords {
				meta.Keywords[i] = strings.TrimSpace(kw)
			}
		}
	}
	if r.appProps != nil {
		meta.Creator = r.appProps.Application
	}
	return meta
}
