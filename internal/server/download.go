package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jeeva562/Universal-Downloader/internal/config"
	"github.com/jeeva562/Universal-Downloader/internal/extractor"
	"github.com/jeeva562/Universal-Downloader/internal/media"
)

// handleDownload serves GET /download?url=&format=
func (s *Server) handleDownload(c *gin.Context) {
	rawURL := c.Query("url")
	if strings.TrimSpace(rawURL) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing or invalid URL"})
		return
	}

	req := media.Request{
		URL:    rawURL,
		Format: media.ParseFormat(c.Query("format")),
	}

	if req.Direct() {
		s.relayImage(c, req)
		return
	}
	s.relayMedia(c, req)
}

// relayImage fetches an image URL directly and pipes the body to the client.
// The outbound request shares the inbound request's context, so a client
// disconnect aborts it.
func (s *Server) relayImage(c *gin.Context, req media.Request) {
	ctx := c.Request.Context()
	logf(c, "Direct image download: %s", req.URL)

	upReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		logf(c, "Image request error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Image download failed", Details: err.Error()})
		return
	}
	upReq.Header.Set("User-Agent", config.DesktopUserAgent)

	resp, err := s.httpClient.Do(upReq)
	if err != nil {
		if ctx.Err() != nil {
			logf(c, "Client went away before image headers: %s", req.URL)
			return
		}
		logf(c, "Image download error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Image download failed", Details: err.Error()})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logf(c, "Image upstream returned %d: %s", resp.StatusCode, req.URL)
		c.JSON(resp.StatusCode, ErrorResponse{
			Error:   "Failed to fetch image",
			Details: fmt.Sprintf("HTTP %d", resp.StatusCode),
		})
		return
	}

	target := media.ImageTarget(req.URL, resp.Header.Get("Content-Type"))

	c.Header("Content-Type", target.ContentType)
	c.Header("Content-Disposition", media.DispositionHeader(target.Filename))
	c.Header("Cache-Control", "no-cache")
	if resp.ContentLength >= 0 {
		c.Header("Content-Length", strconv.FormatInt(resp.ContentLength, 10))
	}
	c.Status(http.StatusOK)

	logf(c, "Downloading image: %s", target.Filename)

	n, err := io.Copy(flushWriter{c.Writer}, resp.Body)
	if err != nil {
		logf(c, "Image stream interrupted after %d bytes: %v", n, err)
	}
}

// relayMedia runs the extractor twice: once to learn the filename, then to
// stream the media to the client.
func (s *Server) relayMedia(c *gin.Context, req media.Request) {
	ctx := c.Request.Context()
	logf(c, "Format requested: %s, selector: %s", req.Format, req.Format.Selector())

	target := s.resolveTarget(ctx, c, req)
	if ctx.Err() != nil {
		logf(c, "Client went away during filename probe: %s", req.URL)
		return
	}

	proc, err := s.extractor.Start(ctx, req, func(line string) {
		if strings.Contains(line, "ERROR") {
			logf(c, "extractor: %s", line)
		}
	})
	if err != nil {
		logf(c, "phase=stream url=%s format=%s: %v", req.URL, req.Format, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Download failed", Details: err.Error()})
		return
	}

	c.Header("Content-Type", target.ContentType)
	c.Header("Content-Disposition", media.DispositionHeader(target.Filename))
	logf(c, "Starting download: %s (pid %d)", target.Filename, proc.Pid())

	n, err := proc.Relay(flushWriter{c.Writer})

	var exitErr *extractor.ExitError
	switch {
	case err == nil && n == 0:
		logf(c, "Download completed but no data received: %s; stderr: %s", req.URL, strings.TrimSpace(proc.Stderr()))
		c.Status(http.StatusOK)
		c.Writer.WriteHeaderNow()
	case err == nil:
		logf(c, "Download completed successfully: %s (%d bytes)", target.Filename, n)
	case errors.Is(err, extractor.ErrWrite) || ctx.Err() != nil:
		logf(c, "Stream interrupted by client after %d bytes: %s", n, target.Filename)
	case errors.As(err, &exitErr) && !c.Writer.Written():
		logf(c, "phase=stream url=%s format=%s: %v\n%s", req.URL, req.Format, err, exitErr.Stderr)
		c.Header("Content-Type", "")
		c.Header("Content-Disposition", "")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Download failed", Details: exitErr.Details()})
	default:
		logf(c, "Stream failed after %d bytes, response truncated: %v\n%s", n, err, proc.Stderr())
	}
}

// resolveTarget runs the filename probe. Probe failures are not fatal: the
// format's default name is used instead.
func (s *Server) resolveTarget(ctx context.Context, c *gin.Context, req media.Request) media.Target {
	out, err := s.extractor.Probe(ctx, req)
	if err != nil {
		var exitErr *extractor.ExitError
		if errors.As(err, &exitErr) {
			logf(c, "phase=probe url=%s format=%s: %v\n%s", req.URL, req.Format, err, exitErr.Stderr)
		} else {
			logf(c, "phase=probe url=%s format=%s: %v", req.URL, req.Format, err)
		}
		return media.DefaultTarget(req.Format)
	}
	return media.ResolveProbedName(out, req.Format)
}

// flushWriter pushes every chunk to the client as soon as it is written.
type flushWriter struct {
	w gin.ResponseWriter
}

func (f flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err == nil {
		f.w.Flush()
	}
	return n, err
}
