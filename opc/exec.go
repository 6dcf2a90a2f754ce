package opc

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// ExecPackager shells out to an external packaging utility with
// "extract" and "repackage" subcommands.
type ExecPackager struct {
	// Tool is the executable name or path. Defaults to ToolName.
	Tool string
}

func (p *ExecPackager) tool() string {
	if p.Tool != "" {
		return p.Tool
	}
	return ToolName
}

// Extract runs `<tool> extract <pptx> <dir>`.
func (p *ExecPackager) Extract(ctx context.Context, pptxPath, dir string) error {
	return p.run(ctx, "extract", pptxPath, dir)
}

// Repackage runs `<tool> repackage <dir> <pptx>`.
func (p *ExecPackager) Repackage(ctx context.Context, dir, pptxPath string) error {
	return p.run(ctx, "repackage", dir, pptxPath)
}

func (p *ExecPackager) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, p.tool(), args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("%s %s: %w: %s", p.tool(), args[0], err, stderr.String())
		}
		return fmt.Errorf("%s %s: %w", p.tool(), args[0], err)
	}
	return nil
}
