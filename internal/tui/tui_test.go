package tui

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jeeva562/Universal-Downloader/internal/client"
)

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(t *testing.T, serverURL, url string) Model {
	t.Helper()
	return NewModel(Options{
		Client: client.New(serverURL),
		URL:    url,
		Dir:    t.TempDir(),
	})
}

func TestNewModelHints(t *testing.T) {
	m := newTestModel(t, "", "https://soundcloud.com/artist/track")

	if m.opts.Format != "audio" {
		t.Errorf("expected default format audio, got %q", m.opts.Format)
	}
	view := m.View()
	for _, want := range []string{"soundcloud", "Best Audio Quality", "Downloading"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q:\n%s", want, view)
		}
	}
}

func TestEstimatedProgressIsLabelled(t *testing.T) {
	m := newTestModel(t, "", "https://example.com/v")

	updated, _ := m.Update(progressMsg{Progress: client.Progress{Received: 1024, Total: -1, Percent: 10, Estimated: true}})
	if !strings.Contains(updated.(Model).View(), "(estimated)") {
		t.Error("estimated progress should be labelled")
	}
}

func TestErrorThenRetry(t *testing.T) {
	m := newTestModel(t, "", "https://example.com/v")

	updated, _ := m.Update(doneMsg{Err: &client.RequestError{Status: 404, Message: "Failed to fetch image"}})
	m = updated.(Model)
	if m.State() != StateError {
		t.Fatalf("expected error state, got %v", m.State())
	}
	if !strings.Contains(m.View(), "not found") {
		t.Errorf("error view should show the friendly message:\n%s", m.View())
	}

	updated, cmd := m.Update(key('r'))
	m = updated.(Model)
	if m.State() != StateDownloading || m.Err() != nil {
		t.Errorf("retry should restart the download, state %v err %v", m.State(), m.Err())
	}
	if cmd == nil {
		t.Error("retry should schedule the download")
	}
}

func TestRetryOnlyAfterError(t *testing.T) {
	m := newTestModel(t, "", "https://example.com/v")
	events := m.events

	updated, _ := m.Update(key('r'))
	if updated.(Model).events != events {
		t.Error("r during a download should not start another one")
	}
}

func TestQuitAfterFailure(t *testing.T) {
	m := newTestModel(t, "", "https://example.com/v")
	updated, _ := m.Update(doneMsg{Err: errors.New("boom")})

	_, cmd := updated.(Model).Update(key('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit once the download has finished")
	}
}

func TestDownloadEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="clip.mp4"`)
		w.Write([]byte("video-bytes"))
	}))
	defer srv.Close()

	m := newTestModel(t, srv.URL, "https://www.youtube.com/watch?v=abc")
	m.startDownload()()

	deadline := time.After(10 * time.Second)
	for m.State() == StateDownloading {
		msgCh := make(chan tea.Msg, 1)
		go func() { msgCh <- waitForEvent(m.events)() }()

		select {
		case msg := <-msgCh:
			updated, _ := m.Update(msg)
			m = updated.(Model)
		case <-deadline:
			t.Fatal("download did not finish")
		}
	}

	if m.State() != StateComplete {
		t.Fatalf("expected completion, got error %v", m.Err())
	}
	if m.savedPath != filepath.Join(m.opts.Dir, "clip.mp4") {
		t.Errorf("unexpected saved path %s", m.savedPath)
	}
	data, err := os.ReadFile(m.savedPath)
	if err != nil || string(data) != "video-bytes" {
		t.Errorf("unexpected file content %q (%v)", data, err)
	}
	if !strings.Contains(m.View(), "Download Complete") {
		t.Errorf("unexpected view:\n%s", m.View())
	}
}
