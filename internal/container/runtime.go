// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container detects a container runtime and runs one-shot tool
// containers against a host directory.
package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

const (
	binDocker = "docker"
	binPodman = "podman"

	// mountPoint is where the host work directory appears inside the container.
	mountPoint = "/data"
)

// Runtime provides container operations: checking availability, verifying
// images, and running containers.
type Runtime interface {
	// Name returns the runtime name ("docker" or "podman").
	Name() string

	// Available reports whether the runtime binary exists on PATH and
	// responds to an info command.
	Available() bool

	// ImageExists checks whether the named image exists locally.
	// Returns nil when the image is found, or an error describing the failure.
	ImageExists(image string) error

	// Run starts image with workDir bind-mounted as the container's working
	// directory and args as the command arguments. Standard error is copied
	// to stderr. It returns the container's exit code; the error is non-nil
	// only when the runtime itself could not be started.
	Run(ctx context.Context, image, workDir string, args []string, stderr io.Writer) (int, error)
}

// Executor abstracts command execution for testing.
type Executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	// RunCapture runs name with args, copying standard error to stderr. A
	// process that starts and exits nonzero returns its exit code and a nil
	// error.
	RunCapture(ctx context.Context, name string, args []string, stderr io.Writer) (int, error)
}

// OSExecutor is the production executor backed by os/exec.
type OSExecutor struct{}

func (OSExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (OSExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (OSExecutor) RunCapture(ctx context.Context, name string, args []string, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// runtime implements Runtime for a specific container binary. Both Docker
// and Podman share the same logic; they differ only in binary name and the
// subcommand used to check image existence.
type runtime struct {
	bin           string
	imageCheckCmd []string // e.g. ["image", "inspect"] for docker
	exec          Executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "info") == nil
}

func (r *runtime) ImageExists(image string) error {
	args := make([]string, 0, len(r.imageCheckCmd)+1)
	args = append(args, r.imageCheckCmd...)
	args = append(args, image)

	if err := r.exec.RunSilent(r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Run(ctx context.Context, image, workDir string, args []string, stderr io.Writer) (int, error) {
	full := []string{"run", "--rm", "-v", workDir + ":" + mountPoint, "-w", mountPoint, image}
	full = append(full, args...)

	code, err := r.exec.RunCapture(ctx, r.bin, full, stderr)
	if err != nil {
		return code, fmt.Errorf("running %s container %s: %w", r.bin, image, err)
	}
	return code, nil
}

func newDockerRuntime(exec Executor) *runtime {
	return &runtime{
		bin:           binDocker,
		imageCheckCmd: []string{"image", "inspect"},
		exec:          exec,
	}
}

func newPodmanRuntime(exec Executor) *runtime {
	return &runtime{
		bin:           binPodman,
		imageCheckCmd: []string{"image", "exists"},
		exec:          exec,
	}
}

// DetectRuntime tries docker first, falls back to podman. Returns an error
// if neither runtime is available.
func DetectRuntime() (Runtime, error) {
	return DetectRuntimeWith(OSExecutor{})
}

// DetectRuntimeWith is DetectRuntime with an explicit executor.
func DetectRuntimeWith(exec Executor) (Runtime, error) {
	docker := newDockerRuntime(exec)
	if docker.Available() {
		return docker, nil
	}

	podman := newPodmanRuntime(exec)
	if podman.Available() {
		return podman, nil
	}

	return nil, fmt.Errorf(
		"no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman,
	)
}
