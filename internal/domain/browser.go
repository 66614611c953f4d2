package domain

import "strings"

// Browser is an identity source: a locally installed browser whose stored
// session cookie authenticates the upstream service.
type Browser string

const (
	BrowserChrome   Browser = "chrome"
	BrowserFirefox  Browser = "firefox"
	BrowserBrave    Browser = "brave"
	BrowserEdge     Browser = "edge"
	BrowserChromium Browser = "chromium"
	BrowserSafari   Browser = "safari"
)

// DefaultBrowserCandidates returns the fixed candidate list used when the
// fetch script does not report its own supported set.
func DefaultBrowserCandidates() []Browser {
	return []Browser{
		BrowserChrome,
		BrowserFirefox,
		BrowserBrave,
		BrowserEdge,
		BrowserChromium,
		BrowserSafari,
	}
}

// ParseBrowser translates a script-provided identity-source name.
// Unrecognized names report ok=false and are dropped by callers.
func ParseBrowser(name string) (Browser, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "chrome", "google-chrome", "google chrome":
		return BrowserChrome, true
	case "firefox", "mozilla firefox":
		return BrowserFirefox, true
	case "brave", "brave-browser":
		return BrowserBrave, true
	case "edge", "microsoft-edge", "microsoft edge":
		return BrowserEdge, true
	case "chromium":
		return BrowserChromium, true
	case "safari":
		return BrowserSafari, true
	default:
		return "", false
	}
}

func (b Browser) DisplayName() string {
	switch b {
	case BrowserChrome:
		return "Chrome"
	case BrowserFirefox:
		return "Firefox"
	case BrowserBrave:
		return "Brave"
	case BrowserEdge:
		return "Edge"
	case BrowserChromium:
		return "Chromium"
	case BrowserSafari:
		return "Safari"
	default:
		return string(b)
	}
}
