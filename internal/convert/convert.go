// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns the Markdown digest into a PDF with an external
// tool. Conversion is best effort: callers log failures and carry on with
// the Markdown file.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

const (
	sourceExt = ".md"
	targetExt = ".pdf"
)

var (
	// ErrSourceNotFound means the input path does not exist.
	ErrSourceNotFound = errors.New("source document not found")
	// ErrNotRegularFile means the input path is a directory or other non-file.
	ErrNotRegularFile = errors.New("source is not a regular file")
	// ErrUnsupportedExtension means the input is not a Markdown file.
	ErrUnsupportedExtension = errors.New("source must be a Markdown (.md) file")
	// ErrToolNotFound means the conversion tool could not be located.
	ErrToolNotFound = errors.New("conversion tool not found")
)

// ConversionError reports a tool run that exited nonzero.
type ConversionError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s failed with exit code %d: %s", e.Tool, e.ExitCode, e.Stderr)
}

// Tool runs one conversion from src to dst, writing diagnostics to stderr.
// Each backend (local pandoc, containerized pandoc) implements it.
type Tool interface {
	Name() string
	Run(ctx context.Context, src, dst string, stderr io.Writer) (int, error)
}

// Converter validates inputs and drives a Tool.
type Converter struct {
	tool Tool
	log  *slog.Logger
}

// New returns a Converter backed by tool.
func New(tool Tool, log *slog.Logger) *Converter {
	return &Converter{tool: tool, log: log}
}

// Convert writes a PDF next to src (same stem) and returns its path.
func (c *Converter) Convert(ctx context.Context, src string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, src)
		}
		return "", fmt.Errorf("stat %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotRegularFile, src)
	}
	if !strings.EqualFold(filepath.Ext(src), sourceExt) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedExtension, src)
	}

	dst := OutputPath(src)
	c.log.Info("converting markdown to PDF", "tool", c.tool.Name(), "src", src, "dst", dst)

	var stderr bytes.Buffer
	code, err := c.tool.Run(ctx, src, dst, &stderr)
	if err != nil {
		return "", err
	}
	if code != 0 {
		convErr := &ConversionError{
			Tool:     c.tool.Name(),
			ExitCode: code,
			Stderr:   strings.TrimSpace(stderr.String()),
		}
		c.log.Error("PDF conversion failed", "tool", convErr.Tool, "exit_code", code, "stderr", convErr.Stderr)
		return "", convErr
	}

	c.log.Info("PDF generated", "path", dst)
	return dst, nil
}

// OutputPath returns src with its extension replaced by .pdf.
func OutputPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + targetExt
}

// ToolFor returns the Tool for the configured backend.
func ToolFor(cfg types.AppConfig) (Tool, error) {
	switch cfg.Converter {
	case types.BackendPandoc, "":
		return NewPandocTool(), nil
	case types.BackendContainer:
		return NewContainerTool(cfg.ContainerImage), nil
	default:
		return nil, fmt.Errorf("unsupported converter %q: use %s or %s", cfg.Converter, types.BackendPandoc, types.BackendContainer)
	}
}
