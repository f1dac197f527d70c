// Package extractor runs the external media extractor (yt-dlp) in its two
// modes: filename probing and streaming media to stdout.
package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/jeeva562/Universal-Downloader/internal/config"
	"github.com/jeeva562/Universal-Downloader/internal/media"
)

// Output template and target used by the two modes
const (
	FilenameTemplate = "%(title)s.%(ext)s"
	StdoutTarget     = "-"
)

// DefaultWaitDelay bounds how long a killed extractor may keep its pipes open.
const DefaultWaitDelay = 5 * time.Second

var (
	// ErrSpawn indicates the extractor executable could not be started.
	ErrSpawn = errors.New("failed to start extractor")
	// ErrEmptyProbe indicates the probe exited cleanly without printing a name.
	ErrEmptyProbe = errors.New("extractor printed no filename")
)

// ExitError is returned when the extractor exits with a nonzero status.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("extractor exited with code %d", e.Code)
}

// Details returns the text surfaced to clients for this failure.
func (e *ExitError) Details() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return s
	}
	return fmt.Sprintf("Process exited with code %d", e.Code)
}

// Runner builds and runs extractor command lines.
type Runner struct {
	path      string
	hardening []string
	platforms []config.PlatformRule
	waitDelay time.Duration
}

// NewRunner returns a Runner for the executable at path.
func NewRunner(path string, cfg config.ExtractorConfig) *Runner {
	if path == "" {
		path = config.DefaultExtractorName
	}
	return &Runner{
		path:      path,
		hardening: cfg.HardeningFlags,
		platforms: cfg.Platforms,
		waitDelay: DefaultWaitDelay,
	}
}

// Path returns the executable the runner invokes.
func (r *Runner) Path() string {
	return r.path
}

// PlatformArgs returns the extra arguments of every platform rule matching
// rawURL's host, in rule order. A rule host matches itself and its
// subdomains.
func (r *Runner) PlatformArgs(rawURL string) []string {
	host := media.URLHost(rawURL)

	var args []string
	for _, rule := range r.platforms {
		for _, h := range rule.Hosts {
			if media.HostMatches(host, h) {
				args = append(args, rule.Args...)
				break
			}
		}
	}
	return args
}

// ProbeArgs returns the argument list of the filename probe.
func (r *Runner) ProbeArgs(req media.Request) []string {
	args := []string{
		"--get-filename",
		"-o", FilenameTemplate,
		"-f", req.Format.Selector(),
	}
	args = append(args, r.hardening...)
	args = append(args, r.PlatformArgs(req.URL)...)
	return append(args, "--", req.URL)
}

// StreamArgs returns the argument list of the streaming invocation.
func (r *Runner) StreamArgs(req media.Request) []string {
	args := []string{
		"-f", req.Format.Selector(),
		"-o", StdoutTarget,
	}
	args = append(args, r.hardening...)
	args = append(args, "--no-playlist")
	args = append(args, r.PlatformArgs(req.URL)...)
	return append(args, "--", req.URL)
}

// Probe runs the extractor in filename mode and returns its trimmed stdout.
func (r *Runner) Probe(ctx context.Context, req media.Request) (string, error) {
	var stdout, stderr bytes.Buffer

	cmd := r.command(ctx, r.ProbeArgs(req))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	if err := cmd.Wait(); err != nil {
		return "", exitError(err, stderr.String())
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", ErrEmptyProbe
	}
	return out, nil
}

func (r *Runner) command(ctx context.Context, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.path, args...)
	cmd.WaitDelay = r.waitDelay
	return cmd
}

func exitError(err error, stderr string) error {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{Code: ee.ExitCode(), Stderr: stderr}
	}
	return fmt.Errorf("extractor failed: %w", err)
}
