package ports

import "github.com/bnema/quotabar/internal/domain"

// BrowserDetector answers which candidate identity sources are installed
// locally. Used to narrow remediation suggestions, never to read cookies.
type BrowserDetector interface {
	Installed(candidates []domain.Browser) []domain.Browser
}
