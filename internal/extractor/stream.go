package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/jeeva562/Universal-Downloader/internal/media"
)

// ChunkSize is the read size used when relaying extractor stdout.
const ChunkSize = 32 * 1024

// ErrWrite wraps failures writing relayed bytes to the destination.
var ErrWrite = errors.New("failed to write stream")

// Process is a running streaming invocation.
type Process struct {
	cmd    cmdWaiter
	stdout io.ReadCloser
	stderr *stderrBuffer
	cancel context.CancelFunc
	pid    int
}

type cmdWaiter interface {
	Wait() error
}

// Start launches the extractor in streaming mode. The process is killed when
// ctx is done. onStderr, when non-nil, receives each complete stderr line.
func (r *Runner) Start(ctx context.Context, req media.Request, onStderr func(line string)) (*Process, error) {
	ctx, cancel := context.WithCancel(ctx)

	stderr := &stderrBuffer{onLine: onStderr}
	cmd := r.command(ctx, r.StreamArgs(req))
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	return &Process{
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
		cancel: cancel,
		pid:    cmd.Process.Pid,
	}, nil
}

// Pid returns the operating system process id.
func (p *Process) Pid() int {
	return p.pid
}

// Kill terminates the process. It is safe to call more than once.
func (p *Process) Kill() {
	p.cancel()
}

// Stderr returns everything the process wrote to stderr so far.
func (p *Process) Stderr() string {
	return p.stderr.String()
}

// Relay copies stdout to dst chunk by chunk until the process closes it, then
// reaps the process. The returned count is the number of bytes written to
// dst. A failed write kills the process and is reported as ErrWrite; a nonzero
// exit is reported as *ExitError.
func (p *Process) Relay(dst io.Writer) (int64, error) {
	defer p.cancel()

	var written int64
	var writeErr error
	buf := make([]byte, ChunkSize)

	for {
		n, readErr := p.stdout.Read(buf)
		if n > 0 {
			m, err := dst.Write(buf[:n])
			written += int64(m)
			if err != nil {
				writeErr = fmt.Errorf("%w: %v", ErrWrite, err)
				p.cancel()
				break
			}
		}
		if readErr != nil {
			break
		}
	}

	waitErr := p.cmd.Wait()
	if writeErr != nil {
		return written, writeErr
	}
	if waitErr != nil {
		return written, exitError(waitErr, p.Stderr())
	}
	return written, nil
}

// stderrBuffer keeps the full stderr text and reports complete lines.
type stderrBuffer struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	pending []byte
	onLine  func(string)
}

func (b *stderrBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf.Write(p)
	if b.onLine == nil {
		return len(p), nil
	}

	b.pending = append(b.pending, p...)
	for {
		i := bytes.IndexAny(b.pending, "\r\n")
		if i < 0 {
			break
		}
		if line := bytes.TrimSpace(b.pending[:i]); len(line) > 0 {
			b.onLine(string(line))
		}
		b.pending = b.pending[i+1:]
	}
	return len(p), nil
}

func (b *stderrBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
