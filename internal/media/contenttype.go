package media

import "strings"

// Fallback content types
const (
	OctetStream      = "application/octet-stream"
	DefaultImageType = "image/jpeg"
)

// mediaContentTypes maps extractor output extensions to response content
// types. Its keys double as the allow-list for probed extensions.
var mediaContentTypes = map[string]string{
	"mp4":  "video/mp4",
	"m4v":  "video/mp4",
	"webm": "video/webm",
	"mkv":  "video/x-matroska",
	"mov":  "video/quicktime",
	"m4a":  "audio/mp4",
	"aac":  "audio/mp4",
	"mp3":  "audio/mpeg",
	"opus": "audio/opus",
	"ogg":  "audio/ogg",
	"wav":  "audio/wav",
	"flac": "audio/flac",
}

// imageExts is checked in order against the upstream content type; jpg is the
// fallback.
var imageExts = []struct {
	needle string
	ext    string
}{
	{"png", "png"},
	{"gif", "gif"},
	{"webp", "webp"},
	{"svg", "svg"},
	{"bmp", "bmp"},
}

// ContentTypeForExt returns the content type for a media extension, or
// OctetStream when the extension is unknown.
func ContentTypeForExt(ext string) string {
	if ct, ok := mediaContentTypes[strings.ToLower(ext)]; ok {
		return ct
	}
	return OctetStream
}

// IsMediaExt reports whether ext is an extension the extractor is trusted to
// produce.
func IsMediaExt(ext string) bool {
	_, ok := mediaContentTypes[strings.ToLower(ext)]
	return ok
}

// ImageExtForContentType returns the canonical file extension for an image
// content type.
func ImageExtForContentType(contentType string) string {
	ct := strings.ToLower(contentType)
	for _, e := range imageExts {
		if strings.Contains(ct, e.needle) {
			return e.ext
		}
	}
	return "jpg"
}

// ImageTarget resolves the download name for a direct image fetch. The final
// path segment of rawURL is used when it looks like a filename; otherwise a
// name is synthesized from the content type.
func ImageTarget(rawURL, contentType string) Target {
	if contentType == "" {
		contentType = DefaultImageType
	}
	name := "image." + ImageExtForContentType(contentType)
	if seg := lastPathSegment(rawURL); strings.Contains(seg, ".") {
		name = SanitizeFilename(seg)
	}
	_, ext := SplitExt(name)
	return Target{Filename: name, Extension: ext, ContentType: contentType}
}

func lastPathSegment(rawURL string) string {
	s, _, _ := strings.Cut(rawURL, "#")
	s, _, _ = strings.Cut(s, "?")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	return s
}
