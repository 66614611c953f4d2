package browsers

import (
	"os"
	"os/exec"

	"github.com/bnema/quotabar/internal/domain"
	"github.com/bnema/quotabar/internal/ports"
)

type probe struct {
	appPaths []string
	binaries []string
}

var probes = map[domain.Browser]probe{
	domain.BrowserChrome: {
		appPaths: []string{"/Applications/Google Chrome.app"},
		binaries: []string{"google-chrome", "google-chrome-stable"},
	},
	domain.BrowserFirefox: {
		appPaths: []string{"/Applications/Firefox.app"},
		binaries: []string{"firefox"},
	},
	domain.BrowserBrave: {
		appPaths: []string{"/Applications/Brave Browser.app"},
		binaries: []string{"brave-browser", "brave"},
	},
	domain.BrowserEdge: {
		appPaths: []string{"/Applications/Microsoft Edge.app"},
		binaries: []string{"microsoft-edge", "msedge"},
	},
	domain.BrowserChromium: {
		appPaths: []string{"/Applications/Chromium.app"},
		binaries: []string{"chromium", "chromium-browser"},
	},
	domain.BrowserSafari: {
		appPaths: []string{"/Applications/Safari.app"},
	},
}

// Detector reports which candidate browsers are installed on this machine,
// by app-bundle path on macOS and PATH lookup elsewhere. Synchronous local
// checks only.
type Detector struct {
	stat     func(name string) (os.FileInfo, error)
	lookPath func(file string) (string, error)
}

var _ ports.BrowserDetector = (*Detector)(nil)

func NewDetector() *Detector {
	return &Detector{
		stat:     os.Stat,
		lookPath: exec.LookPath,
	}
}

func (d *Detector) Installed(candidates []domain.Browser) []domain.Browser {
	installed := make([]domain.Browser, 0, len(candidates))
	for _, candidate := range candidates {
		if d.isInstalled(candidate) {
			installed = append(installed, candidate)
		}
	}

	return installed
}

func (d *Detector) isInstalled(browser domain.Browser) bool {
	p, ok := probes[browser]
	if !ok {
		return false
	}

	for _, appPath := range p.appPaths {
		if _, err := d.stat(appPath); err == nil {
			return true
		}
	}

	for _, binary := range p.binaries {
		if _, err := d.lookPath(binary); err == nil {
			return true
		}
	}

	return false
}
