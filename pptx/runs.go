package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html/charset"
)

// ParseRuns extracts the text content of every <a:t> element from one
// slide's raw XML, in document order. Runs inside tables and grouped
// shapes are included; empty runs are preserved as empty strings.
// Malformed XML propagates a parse error.
func ParseRuns(data []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	runs := make([]string, 0)
	inText := false
	var buf strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing slide XML: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space == nsDrawingML && el.Name.Local == "t" {
				inText = true
				buf.Reset()
			}
		case xml.CharData:
			if inText {
				buf.Write(el)
			}
		case xml.EndElement:
			if inText && el.Name.Space == nsDrawingML && el.Name.Local == "t" {
				inText = false
				runs = append(runs, buf.String())
			}
		}
	}

	return runs, nil
}

// SlidePath returns the package part name for a 1-based slide number,
// e.g. "ppt/slides/slide3.xml".
func SlidePath(number int) string {
	return path.Join("ppt", "slides", fmt.Sprintf("slide%d.xml", number))
}
