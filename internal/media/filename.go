package media

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxFilenameLength is the rune limit applied by SanitizeFilename.
const MaxFilenameLength = 120

// FallbackName is used whenever no usable name can be derived.
const FallbackName = "download"

var (
	illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F\x7F]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes name safe for a Content-Disposition header and a
// local filesystem. Applying it twice yields the same result.
func SanitizeFilename(name string) string {
	if name == "" {
		return FallbackName
	}

	name = illegalChars.ReplaceAllString(name, "_")
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return '_'
		}
		return r
	}, name)
	name = whitespace.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	if runes := []rune(name); len(runes) > MaxFilenameLength {
		name = strings.TrimSpace(string(runes[:MaxFilenameLength]))
	}
	if name == "" {
		return FallbackName
	}
	return name
}

// SplitExt splits name at its last dot. ext is lower-cased and has no dot.
func SplitExt(name string) (base, ext string) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return name, ""
	}
	return name[:i], strings.ToLower(name[i+1:])
}

// Target is the resolved name and type of the file sent to the client.
type Target struct {
	Filename    string
	Extension   string
	ContentType string
}

// NewTarget builds a Target for filename, deriving the content type from its
// extension.
func NewTarget(filename string) Target {
	_, ext := SplitExt(filename)
	return Target{
		Filename:    filename,
		Extension:   ext,
		ContentType: ContentTypeForExt(ext),
	}
}

// DefaultTarget is the target used when the probe produced nothing usable.
func DefaultTarget(f Format) Target {
	return NewTarget(FallbackName + "." + f.DefaultExt())
}

// ResolveProbedName turns the extractor's probe output into a Target. Output
// that is empty after sanitizing falls back to DefaultTarget. Extensions
// outside the media allow-list are replaced with the format default while
// keeping the base name.
func ResolveProbedName(output string, f Format) Target {
	line := firstLine(output)
	if line == "" {
		return DefaultTarget(f)
	}

	name := SanitizeFilename(line)
	base, ext := SplitExt(name)
	if IsMediaExt(ext) {
		return NewTarget(name)
	}

	base = strings.TrimSpace(base)
	if ext == "" {
		base = name
	}
	if base == "" {
		return DefaultTarget(f)
	}
	return NewTarget(withExt(base, f.DefaultExt()))
}

// withExt joins base and ext, shortening base so the extension survives the
// length limit.
func withExt(base, ext string) string {
	limit := MaxFilenameLength - len([]rune(ext)) - 1
	if runes := []rune(base); len(runes) > limit {
		base = strings.TrimSpace(string(runes[:limit]))
	}
	return SanitizeFilename(base + "." + ext)
}

// DispositionHeader formats an attachment Content-Disposition value.
func DispositionHeader(filename string) string {
	return `attachment; filename="` + filename + `"`
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
