package pptx

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
)

// ReplaceMedia stages a replacement for an embedded media part. The
// change is applied when SaveAs writes the package; the open archive is
// never modified in place.
func (r *Reader) ReplaceMedia(part string, data []byte) error {
	found := false
	for _, f := range r.zipReader.File {
		if f.Name == part {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("media part not found: %s", part)
	}

	r.replaced[part] = data
	return nil
}

// SaveAs writes the package to a new file. Parts with staged
// replacements carry the new bytes; every other part is copied
// unchanged, preserving the original entry order.
func (r *Reader) SaveAs(filename string) error {
	out, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	for _, f := range r.zipReader.File {
		if data, ok := r.replaced[f.Name]; ok {
			w, err := zw.Create(f.Name)
			if err != nil {
				zw.Close()
				return fmt.Errorf("writing %s: %w", f.Name, err)
			}
			if _, err := w.Write(data); err != nil {
				zw.Close()
				return fmt.Errorf("writing %s: %w", f.Name, err)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			zw.Close()
			return fmt.Errorf("reading %s: %w", f.Name, err)
		}
		w, err := zw.Create(f.Name)
		if err != nil {
			rc.Close()
			zw.Close()
			return fmt.Errorf("writing %s: %w", f.Name, err)
		}
		if _, err := io.Copy(w, rc); err != nil {
			rc.Close()
			zw.Close()
			return fmt.Errorf("copying %s: %w", f.Name, err)
		}
		rc.Close()
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}

	return out.Close()
}
