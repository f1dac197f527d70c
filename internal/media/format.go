// Package media holds the request-level vocabulary of the relay: requested
// formats, extractor selectors, filename sanitization and content-type lookup.
package media

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the broad class of media a client asked for.
type Kind string

const (
	KindVideo   Kind = "video"
	KindAudio   Kind = "audio"
	KindImage   Kind = "image"
	KindQuality Kind = "quality"
)

// Wire values of the format query parameter
const (
	FormatBest    = "best"
	FormatVideo   = "video"
	FormatAudio   = "audio"
	FormatImage   = "image"
	QualityPrefix = "quality:"
)

// Default extensions per kind
const (
	DefaultVideoExt = "mp4"
	DefaultAudioExt = "m4a"
)

// imageURLPattern matches URLs that point straight at an image file.
var imageURLPattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp|svg|bmp)(\?.*)?$`)

// Format is a parsed format query value.
type Format struct {
	Kind Kind
	// Height is the height ceiling for KindQuality, zero otherwise.
	Height int
}

// ParseFormat interprets the format query parameter. Absent, unknown and
// malformed values all collapse to video.
func ParseFormat(s string) Format {
	switch s {
	case FormatAudio:
		return Format{Kind: KindAudio}
	case FormatImage:
		return Format{Kind: KindImage}
	case FormatVideo, FormatBest, "":
		return Format{Kind: KindVideo}
	}

	if rest, ok := strings.CutPrefix(s, QualityPrefix); ok {
		rest = strings.TrimSuffix(rest, "p")
		if h, err := strconv.Atoi(rest); err == nil && h > 0 {
			return Format{Kind: KindQuality, Height: h}
		}
	}
	return Format{Kind: KindVideo}
}

// String returns the canonical wire form of f.
func (f Format) String() string {
	if f.Kind == KindQuality {
		return fmt.Sprintf("%s%dp", QualityPrefix, f.Height)
	}
	return string(f.Kind)
}

// Selector returns the extractor format-selector expression for f.
// An image request that reached the extractor is treated as video.
func (f Format) Selector() string {
	switch f.Kind {
	case KindAudio:
		return "bestaudio"
	case KindQuality:
		return fmt.Sprintf("best[height<=%d][ext=mp4]/best[height<=%d]", f.Height, f.Height)
	default:
		return "best[ext=mp4]/best"
	}
}

// DefaultExt is the extension assumed when the extractor does not tell us better.
func (f Format) DefaultExt() string {
	if f.Kind == KindAudio {
		return DefaultAudioExt
	}
	return DefaultVideoExt
}

// IsImageURL reports whether rawURL ends in a known image file extension,
// optionally followed by a query string.
func IsImageURL(rawURL string) bool {
	return imageURLPattern.MatchString(rawURL)
}

// Request is one download request as received by the relay.
type Request struct {
	URL    string
	Format Format
}

// Direct reports whether r is served by a plain HTTP fetch instead of the extractor.
func (r Request) Direct() bool {
	return r.Format.Kind == KindImage && IsImageURL(r.URL)
}
