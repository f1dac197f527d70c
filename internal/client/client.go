// Package client talks to the relay: it builds download requests, streams the
// response into memory with progress reporting and saves the result.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jeeva562/Universal-Downloader/internal/media"
)

const (
	// DefaultServerURL is where a locally started relay listens.
	DefaultServerURL = "http://localhost:3001"
	// DownloadPath is the relay's download endpoint.
	DownloadPath = "/api/download"

	readChunk = 32 * 1024
	// estimateBase is the size assumed when the response has no length.
	estimateBase = 10 * 1024 * 1024
	// maxPrealloc caps the buffer reserved up front from Content-Length.
	maxPrealloc = 64 << 20
	// maxSaveAttempts bounds the "name (N).ext" variants tried by Save.
	maxSaveAttempts = 1000
)

var dispositionFilename = regexp.MustCompile(`filename="?([^"]+)"?`)

// Progress is reported while a response body is read.
type Progress struct {
	Received int64
	// Total is -1 when the server did not send a Content-Length.
	Total   int64
	Percent float64
	// Estimated is set when Percent is a guess against a nominal size.
	Estimated bool
}

// RequestError is a non-2xx answer from the relay.
type RequestError struct {
	Status  int
	Message string
	Details string
}

func (e *RequestError) Error() string {
	if e.Details != "" && e.Details != e.Message {
		return fmt.Sprintf("HTTP %d: %s: %s", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// Result is a completed download held in memory.
type Result struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Client downloads through a relay server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the relay at baseURL. An empty baseURL means
// DefaultServerURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultServerURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Downloads may run for a long time; callers cancel through ctx.
		httpClient: &http.Client{},
	}
}

// RequestURL builds the relay URL for rawURL and a format picker value.
func (c *Client) RequestURL(rawURL, format string) string {
	q := url.Values{}
	q.Set("url", rawURL)
	q.Set("format", FormatParam(format))
	return c.baseURL + DownloadPath + "?" + q.Encode()
}

// Download asks the relay for rawURL in the given format and reads the whole
// response. onProgress may be nil. It reaches 100 only after the body has been
// read completely.
func (c *Client) Download(ctx context.Context, rawURL, format string, onProgress func(Progress)) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RequestURL(rawURL, format), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeRequestError(resp)
	}

	report := func(Progress) {}
	if onProgress != nil {
		report = onProgress
	}

	total := resp.ContentLength
	var data bytes.Buffer
	if total > 0 {
		data.Grow(int(min(total, maxPrealloc)))
	}

	buf := make([]byte, readChunk)
	var received int64
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			data.Write(buf[:n])
			received += int64(n)
			pct, estimated := progressPercent(received, total)
			report(Progress{Received: received, Total: total, Percent: pct, Estimated: estimated})
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading download: %w", err)
		}
	}
	report(Progress{Received: received, Total: total, Percent: 100})

	return &Result{
		Filename:    FilenameFromDisposition(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data.Bytes(),
	}, nil
}

func progressPercent(received, total int64) (float64, bool) {
	if total > 0 {
		return min(99, float64(received)/float64(total)*100), false
	}
	return min(90, float64(received)/estimateBase*100), true
}

func decodeRequestError(resp *http.Response) error {
	rerr := &RequestError{Status: resp.StatusCode}

	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&body); err == nil {
		rerr.Message = body.Error
		rerr.Details = body.Details
	}
	if rerr.Message == "" {
		rerr.Message = rerr.Details
	}
	if rerr.Message == "" {
		rerr.Message = fmt.Sprintf("Request failed (%d)", resp.StatusCode)
	}
	return rerr
}

// FilenameFromDisposition extracts the filename from a Content-Disposition
// header, or returns "download".
func FilenameFromDisposition(header string) string {
	if m := dispositionFilename.FindStringSubmatch(header); m != nil {
		return m[1]
	}
	return media.FallbackName
}

// Save writes the downloaded bytes into dir and returns the file path. An
// existing file is never replaced: the name gets a " (N)" suffix before its
// extension instead, so concurrent saves of the same name all survive.
func (r *Result) Save(dir string) (string, error) {
	name := media.SanitizeFilename(r.Filename)
	if name == "." || name == ".." {
		name = media.FallbackName
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	for n := 0; n < maxSaveAttempts; n++ {
		path := filepath.Join(dir, numberedName(name, n))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("saving %s: %w", name, err)
		}

		_, err = f.Write(r.Data)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
			return "", fmt.Errorf("saving %s: %w", name, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("saving %s: no free file name in %s", name, dir)
}

// numberedName returns name for n == 0 and "base (n).ext" otherwise.
func numberedName(name string, n int) string {
	if n == 0 {
		return name
	}
	base, ext := name, ""
	if i := strings.LastIndex(name, "."); i > 0 {
		base, ext = name[:i], name[i:]
	}
	return fmt.Sprintf("%s (%d)%s", base, n, ext)
}

// FriendlyMessage turns a download error into text for end users.
func FriendlyMessage(err error) string {
	const prefix = "Unable to download the media. "
	if err == nil {
		return ""
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "404"):
		return prefix + "The content was not found. It may be private or deleted."
	case strings.Contains(msg, "403"):
		return prefix + "Access denied. The content may be restricted."
	case strings.Contains(msg, "timeout"), errors.Is(err, context.DeadlineExceeded):
		return prefix + "Download timed out. Please try again."
	default:
		return prefix + "Please check the URL and try again."
	}
}
