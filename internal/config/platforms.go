package config

// Browser user agents handed to sites that reject the extractor's default one.
const (
	DesktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	MobileUserAgent  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
)

// DefaultPlatforms returns the built-in platform rules, in evaluation order.
func DefaultPlatforms() []PlatformRule {
	return []PlatformRule{
		{
			Name:  "youtube",
			Hosts: []string{"youtube.com", "youtu.be"},
			Args:  []string{"--extractor-args", "youtube:player_client=android,web"},
		},
		{
			Name:  "instagram",
			Hosts: []string{"instagram.com"},
			Args:  []string{"--user-agent", MobileUserAgent},
		},
		{
			Name:  "tiktok",
			Hosts: []string{"tiktok.com"},
			Args:  []string{"--user-agent", DesktopUserAgent},
		},
		{
			Name:  "twitter",
			Hosts: []string{"twitter.com", "x.com"},
			Args:  []string{"--user-agent", DesktopUserAgent},
		},
	}
}
