// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/arxiv-daily/internal/container"
)

const binPandoc = "pandoc"

// PandocTool runs a pandoc binary found on PATH.
type PandocTool struct {
	exec container.Executor
}

// NewPandocTool returns a PandocTool using the real os/exec executor.
func NewPandocTool() *PandocTool {
	return &PandocTool{exec: container.OSExecutor{}}
}

func (p *PandocTool) Name() string { return binPandoc }

// Run resolves pandoc on PATH and runs `pandoc <src> -o <dst>`.
func (p *PandocTool) Run(ctx context.Context, src, dst string, stderr io.Writer) (int, error) {
	path, err := p.exec.LookPath(binPandoc)
	if err != nil {
		return -1, fmt.Errorf("%w: %s is not on PATH", ErrToolNotFound, binPandoc)
	}

	code, err := p.exec.RunCapture(ctx, path, []string{src, "-o", dst}, stderr)
	if err != nil {
		return code, fmt.Errorf("starting %s: %w", binPandoc, err)
	}
	return code, nil
}
