//go:build unix

package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/jeeva562/Universal-Downloader/internal/extractor/extractortest"
)

func TestDownloadClientAbortKillsExtractor(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "pid")
	script := extractortest.Modes(
		`echo "Long Video.mp4"`,
		`echo $$ > `+pidFile+`; printf 'first-chunk'; exec sleep 30`,
	)
	s := newTestServer(t, extractortest.Script(t, script))

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+downloadPath("https://media.example/v", "video"), nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	buf := make([]byte, len("first-chunk"))
	if _, err := io.ReadFull(resp.Body, buf); err != nil {
		t.Fatalf("failed to read first chunk: %v", err)
	}
	if resp.Header.Get("Content-Disposition") != `attachment; filename="Long Video.mp4"` {
		t.Errorf("unexpected Content-Disposition %q", resp.Header.Get("Content-Disposition"))
	}

	data, err := os.ReadFile(pidFile)
	if err != nil {
		t.Fatalf("extractor did not record its pid: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatalf("bad pid %q", data)
	}

	cancel()
	resp.Body.Close()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if errors.Is(syscall.Kill(pid, 0), syscall.ESRCH) {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("extractor process %d still running after client disconnect", pid)
}
