package media

import "testing"

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Format
	}{
		{name: "empty defaults to video", input: "", expected: Format{Kind: KindVideo}},
		{name: "best is video", input: "best", expected: Format{Kind: KindVideo}},
		{name: "video", input: "video", expected: Format{Kind: KindVideo}},
		{name: "audio", input: "audio", expected: Format{Kind: KindAudio}},
		{name: "image", input: "image", expected: Format{Kind: KindImage}},
		{name: "quality 720p", input: "quality:720p", expected: Format{Kind: KindQuality, Height: 720}},
		{name: "quality without suffix", input: "quality:480", expected: Format{Kind: KindQuality, Height: 480}},
		{name: "quality not a number", input: "quality:hdp", expected: Format{Kind: KindVideo}},
		{name: "quality zero", input: "quality:0p", expected: Format{Kind: KindVideo}},
		{name: "quality negative", input: "quality:-1p", expected: Format{Kind: KindVideo}},
		{name: "unknown value", input: "flac", expected: Format{Kind: KindVideo}},
		{name: "case sensitive", input: "AUDIO", expected: Format{Kind: KindVideo}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFormat(tt.input)
			if got != tt.expected {
				t.Errorf("ParseFormat(%q) = %+v, expected %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatSelector(t *testing.T) {
	tests := []struct {
		format   Format
		selector string
		ext      string
	}{
		{Format{Kind: KindVideo}, "best[ext=mp4]/best", "mp4"},
		{Format{Kind: KindImage}, "best[ext=mp4]/best", "mp4"},
		{Format{Kind: KindAudio}, "bestaudio", "m4a"},
		{Format{Kind: KindQuality, Height: 360}, "best[height<=360][ext=mp4]/best[height<=360]", "mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.Selector(); got != tt.selector {
				t.Errorf("Selector() = %q, expected %q", got, tt.selector)
			}
			if got := tt.format.DefaultExt(); got != tt.ext {
				t.Errorf("DefaultExt() = %q, expected %q", got, tt.ext)
			}
		})
	}
}

func TestQualityMatchesVideoDefaults(t *testing.T) {
	video := DefaultTarget(ParseFormat("video"))
	for _, q := range []string{"quality:1080p", "quality:720p", "quality:480p", "quality:360p", "quality:144p"} {
		got := DefaultTarget(ParseFormat(q))
		if got.Extension != video.Extension || got.ContentType != video.ContentType {
			t.Errorf("%s: got ext=%q type=%q, expected ext=%q type=%q",
				q, got.Extension, got.ContentType, video.Extension, video.ContentType)
		}
	}
}

func TestFormatStringRoundTrip(t *testing.T) {
	for _, s := range []string{"video", "audio", "image", "quality:720p"} {
		if got := ParseFormat(s).String(); got != s {
			t.Errorf("ParseFormat(%q).String() = %q", s, got)
		}
	}
}

func TestIsImageURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://example.com/photo.jpg", true},
		{"https://example.com/photo.JPG", true},
		{"https://example.com/a/b.jpeg?w=100&h=200", true},
		{"https://example.com/icon.svg", true},
		{"https://example.com/pic.webp", true},
		{"https://example.com/pic.bmp", true},
		{"https://example.com/pic.tiff", false},
		{"https://www.youtube.com/watch?v=abc", false},
		{"https://example.com/photo.jpg/page", false},
		{"https://example.com/photo.jpgx", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsImageURL(tt.url); got != tt.expected {
				t.Errorf("IsImageURL(%q) = %v, expected %v", tt.url, got, tt.expected)
			}
		})
	}
}

func TestRequestDirect(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		expected bool
	}{
		{"image format and image url", Request{URL: "https://x.test/a.png", Format: ParseFormat("image")}, true},
		{"image format and page url", Request{URL: "https://x.test/watch", Format: ParseFormat("image")}, false},
		{"video format and image url", Request{URL: "https://x.test/a.png", Format: ParseFormat("video")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Direct(); got != tt.expected {
				t.Errorf("Direct() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
