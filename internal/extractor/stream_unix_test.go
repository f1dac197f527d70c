//go:build unix

package extractor

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/jeeva562/Universal-Downloader/internal/extractor/extractortest"
	"github.com/jeeva562/Universal-Downloader/internal/media"
)

// cancelWriter cancels its context on the first write.
type cancelWriter struct {
	cancel context.CancelFunc
	n      int
}

func (w *cancelWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	w.cancel()
	return len(p), nil
}

// failWriter rejects every write, like a closed client connection.
type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func processGone(pid int) bool {
	return errors.Is(syscall.Kill(pid, 0), syscall.ESRCH)
}

func TestRelayContextCancelKillsProcess(t *testing.T) {
	r := newTestRunner(extractortest.Script(t, `printf 'first-chunk'; exec sleep 30`))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := r.Start(ctx, media.Request{URL: "https://example.com/v"}, nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	start := time.Now()
	w := &cancelWriter{cancel: cancel}
	_, err = p.Relay(w)

	var ee *ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExitError for killed process, got %v", err)
	}
	if time.Since(start) > 10*time.Second {
		t.Errorf("relay took %s, process was not killed promptly", time.Since(start))
	}
	if !processGone(p.Pid()) {
		t.Errorf("process %d still exists after cancel", p.Pid())
	}
}

func TestRelayWriteFailureKillsProcess(t *testing.T) {
	r := newTestRunner(extractortest.Script(t, `printf 'first-chunk'; exec sleep 30`))

	p, err := r.Start(context.Background(), media.Request{URL: "https://example.com/v"}, nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	_, err = p.Relay(failWriter{})
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
	if !processGone(p.Pid()) {
		t.Errorf("process %d still exists after failed write", p.Pid())
	}
}
