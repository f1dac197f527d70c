package media

import (
	"net/url"
	"strings"
)

// URLHost returns the lower-cased host name of rawURL without port. URLs
// without a scheme ("youtu.be/abc") are read as if they had one. It returns
// "" when no host can be found.
func URLHost(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if !strings.Contains(s, "://") {
		s = "//" + strings.TrimPrefix(s, "//")
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// HostMatches reports whether host is domain or one of its subdomains.
// "x.com" matches "mobile.x.com" but not "dropbox.com".
func HostMatches(host, domain string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	domain = strings.ToLower(domain)
	if host == "" || domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
