// Package opc explodes PPTX packages to a working directory and
// reassembles them, either by invoking an external packaging tool or
// natively via archive/zip.
package opc

import (
	"context"
	"os/exec"
)

// Packager unpacks a package file to a directory tree and repacks a
// directory tree into a package file.
type Packager interface {
	// Extract explodes the package at pptxPath into dir, mirroring the
	// package's internal structure (e.g. dir/ppt/slides/slide1.xml).
	Extract(ctx context.Context, pptxPath, dir string) error

	// Repackage reassembles the tree under dir into a package at pptxPath.
	Repackage(ctx context.Context, dir, pptxPath string) error
}

// ToolName is the external packaging utility invoked by ExecPackager.
const ToolName = "opc"

// Default returns the exec-based packager when the external tool is on
// PATH, otherwise the native zip packager.
func Default() Packager {
	if _, err := exec.LookPath(ToolName); err == nil {
		return &ExecPackager{Tool: ToolName}
	}
	return &ZipPackager{}
}
