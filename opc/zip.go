package opc

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// contentTypesPart must be stored first when repackaging (OPC convention).
const contentTypesPart = "[Content_Types].xml"

// ZipPackager implements Packager with archive/zip, requiring no
// external tool.
type ZipPackager struct{}

// Extract explodes the package at pptxPath into dir.
func (p *ZipPackager) Extract(ctx context.Context, pptxPath, dir string) error {
	zr, err := zip.OpenReader(pptxPath)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := extractEntry(f, dir); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractEntry(f *zip.File, dir string) error {
	if strings.HasSuffix(f.Name, "/") {
		return nil
	}

	dest, err := securePath(dir, f.Name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// securePath joins an archive entry name onto dir, rejecting entries
// that would escape it.
func securePath(dir, name string) (string, error) {
	dest := filepath.Join(dir, filepath.FromSlash(name))
	if !strings.HasPrefix(dest, filepath.Clean(dir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("entry escapes extraction directory: %s", name)
	}
	return dest, nil
}

// Repackage reassembles the tree under dir into a package at pptxPath.
// Entries are written in deterministic order with the content types
// part first.
func (p *ZipPackager) Repackage(ctx context.Context, dir, pptxPath string) error {
	names, err := collectParts(dir)
	if err != nil {
		return err
	}

	out, err := os.Create(pptxPath)
	if err != nil {
		return fmt.Errorf("creating package: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return err
		}

		w, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return fmt.Errorf("adding %s: %w", name, err)
		}

		src, err := os.Open(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			zw.Close()
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if _, err := io.Copy(w, src); err != nil {
			src.Close()
			zw.Close()
			return fmt.Errorf("writing %s: %w", name, err)
		}
		src.Close()
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing package: %w", err)
	}
	return out.Close()
}

// collectParts walks dir and returns slash-separated part names, the
// content types part first and the rest sorted.
func collectParts(dir string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	sort.Slice(names, func(i, j int) bool {
		if names[i] == contentTypesPart {
			return true
		}
		if names[j] == contentTypesPart {
			return false
		}
		return names[i] < names[j]
	})

	return names, nil
}
