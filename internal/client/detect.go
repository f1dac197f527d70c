package client

import (
	"net/url"
	"regexp"

	"github.com/jeeva562/Universal-Downloader/internal/media"
)

// MediaType is the client's guess at what a URL points to. It only picks the
// default format; the server decides for itself.
type MediaType string

const (
	MediaUnknown MediaType = ""
	MediaVideo   MediaType = "video"
	MediaAudio   MediaType = "audio"
	MediaImage   MediaType = "image"
)

// Platform is a display hint and is never sent to the server.
type Platform string

const (
	PlatformUnknown    Platform = ""
	PlatformYouTube    Platform = "youtube"
	PlatformInstagram  Platform = "instagram"
	PlatformFacebook   Platform = "facebook"
	PlatformTikTok     Platform = "tiktok"
	PlatformTwitter    Platform = "twitter"
	PlatformVimeo      Platform = "vimeo"
	PlatformSoundCloud Platform = "soundcloud"
)

var audioFilePattern = regexp.MustCompile(`(?i)\.(mp3|wav|flac|m4a|aac|ogg)(\?|$)`)

// first match wins
var platformDomains = []struct {
	platform Platform
	domains  []string
}{
	{PlatformYouTube, []string{"youtube.com", "youtu.be"}},
	{PlatformInstagram, []string{"instagram.com"}},
	{PlatformFacebook, []string{"facebook.com"}},
	{PlatformTikTok, []string{"tiktok.com"}},
	{PlatformTwitter, []string{"twitter.com", "x.com"}},
	{PlatformVimeo, []string{"vimeo.com"}},
	{PlatformSoundCloud, []string{"soundcloud.com"}},
}

// DetectMediaType guesses the media type of rawURL. Anything that is not a
// direct image link or a known audio source is treated as video.
func DetectMediaType(rawURL string) MediaType {
	if rawURL == "" {
		return MediaUnknown
	}
	host := media.URLHost(rawURL)
	switch {
	case media.IsImageURL(rawURL):
		return MediaImage
	case media.HostMatches(host, "soundcloud.com"),
		media.HostMatches(host, "spotify.com"),
		audioFilePattern.MatchString(rawURL):
		return MediaAudio
	default:
		return MediaVideo
	}
}

// DetectPlatform reports which known site rawURL belongs to.
func DetectPlatform(rawURL string) Platform {
	host := media.URLHost(rawURL)
	for _, p := range platformDomains {
		for _, d := range p.domains {
			if media.HostMatches(host, d) {
				return p.platform
			}
		}
	}
	return PlatformUnknown
}

// FormatOption is one entry of the format picker.
type FormatOption struct {
	Value string
	Label string
}

// DefaultFormat returns the preselected format for t.
func DefaultFormat(t MediaType) string {
	switch t {
	case MediaAudio:
		return media.FormatAudio
	case MediaImage:
		return media.FormatImage
	default:
		return media.FormatVideo
	}
}

// FormatOptions lists the formats offered for t, default first.
func FormatOptions(t MediaType) []FormatOption {
	switch t {
	case MediaVideo:
		return []FormatOption{
			{media.FormatVideo, "Best Quality (with audio)"},
			{"720p", "720p (with audio)"},
			{"480p", "480p (with audio)"},
			{"360p", "360p (with audio)"},
			{media.FormatAudio, "Audio Only"},
			{media.FormatImage, "Image/Thumbnail (if available)"},
		}
	case MediaAudio:
		return []FormatOption{
			{media.FormatAudio, "Best Audio Quality"},
		}
	case MediaImage:
		return []FormatOption{
			{media.FormatImage, "Original Quality (up to 4K)"},
			{media.FormatVideo, "Video (if this is actually a video)"},
		}
	default:
		return []FormatOption{
			{media.FormatVideo, "Best Quality (with audio)"},
			{media.FormatAudio, "Audio Only"},
			{media.FormatImage, "Image (if available)"},
		}
	}
}

// FormatParam converts a picker value into the server's format parameter.
func FormatParam(value string) string {
	switch value {
	case "720p", "480p", "360p":
		return media.QualityPrefix + value
	}
	return value
}

// ValidURL reports whether rawURL is an absolute http or https URL.
func ValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
