// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pdiddy/arxiv-daily/internal/container"
)

// ContainerTool runs pandoc from a container image, for hosts that have
// docker or podman but no local pandoc. The runtime is detected on first use.
type ContainerTool struct {
	image  string
	detect func() (container.Runtime, error)
}

// NewContainerTool returns a ContainerTool for image.
func NewContainerTool(image string) *ContainerTool {
	return &ContainerTool{image: image, detect: container.DetectRuntime}
}

func (c *ContainerTool) Name() string { return "pandoc (" + c.image + ")" }

// Run mounts the directory holding src and converts inside the container.
// src and dst must share a directory, which OutputPath guarantees.
func (c *ContainerTool) Run(ctx context.Context, src, dst string, stderr io.Writer) (int, error) {
	rt, err := c.detect()
	if err != nil {
		return -1, fmt.Errorf("%w: %v", ErrToolNotFound, err)
	}
	if err := rt.ImageExists(c.image); err != nil {
		return -1, fmt.Errorf("%w: %v", ErrToolNotFound, err)
	}

	dir, err := filepath.Abs(filepath.Dir(src))
	if err != nil {
		return -1, fmt.Errorf("resolving %s: %w", src, err)
	}
	args := []string{filepath.Base(src), "-o", filepath.Base(dst)}
	return rt.Run(ctx, c.image, dir, args, stderr)
}
