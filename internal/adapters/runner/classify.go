package runner

import (
	"bufio"
	"encoding/json"
	"strings"

	"github.com/bnema/quotabar/internal/domain"
	"github.com/bnema/quotabar/internal/ports"
)

const criticalMarker = "CRITICAL ERROR"

type scriptFailure struct {
	Error             string   `json:"error"`
	SupportedBrowsers []string `json:"supported_browsers"`
}

type classifyRule struct {
	substr string
	kind   domain.ErrorKind
}

// Ordered table, first match wins. Matching another program's free-text
// diagnostics is brittle: upstream wording changes silently break
// classification. Keep the table in sync with the fetch script.
var classifyRules = []classifyRule{
	{"cookie read failure", domain.ErrKindCredentialMissing},
	{"no valid cookies", domain.ErrKindCredentialMissing},
	{"403 forbidden", domain.ErrKindForbidden},
	{"request failed", domain.ErrKindNetworkFailure},
	{"connection", domain.ErrKindNetworkFailure},
	{"timeout", domain.ErrKindNetworkFailure},
	{"missing organization marker", domain.ErrKindForbidden},
}

// Classify maps the fetch script's stderr onto the error taxonomy. The
// preferred path is a stderr line that is itself a JSON failure report; the
// fallback applies the same rules to cleaned freeform stderr with the fixed
// default candidate list.
func Classify(stderrText string, detector ports.BrowserDetector) *domain.FetchError {
	if failure, ok := findFailureReport(stderrText); ok {
		return classifyMessage(failure.Error, parseCandidates(failure.SupportedBrowsers), detector)
	}

	cleaned := cleanStderr(stderrText)
	if cleaned == "" {
		return &domain.FetchError{Kind: domain.ErrKindUnknown}
	}

	return classifyMessage(cleaned, domain.DefaultBrowserCandidates(), detector)
}

func classifyMessage(message string, candidates []domain.Browser, detector ports.BrowserDetector) *domain.FetchError {
	lowered := strings.ToLower(message)
	for _, rule := range classifyRules {
		if !strings.Contains(lowered, rule.substr) {
			continue
		}

		switch rule.kind {
		case domain.ErrKindCredentialMissing:
			return credentialMissing(candidates, detector)
		case domain.ErrKindNetworkFailure:
			return &domain.FetchError{Kind: rule.kind, Detail: message}
		default:
			return &domain.FetchError{Kind: rule.kind}
		}
	}

	return &domain.FetchError{Kind: domain.ErrKindExecutionFailure, Detail: message}
}

func credentialMissing(candidates []domain.Browser, detector ports.BrowserDetector) *domain.FetchError {
	installed := candidates
	if detector != nil {
		installed = detector.Installed(candidates)
	}

	return &domain.FetchError{
		Kind:       domain.ErrKindCredentialMissing,
		Installed:  installed,
		Candidates: candidates,
	}
}

func findFailureReport(stderrText string) (scriptFailure, bool) {
	scanner := bufio.NewScanner(strings.NewReader(stderrText))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "{") {
			continue
		}

		var failure scriptFailure
		if err := json.Unmarshal([]byte(line), &failure); err != nil {
			continue
		}
		if failure.Error == "" {
			continue
		}

		return failure, true
	}

	return scriptFailure{}, false
}

func parseCandidates(names []string) []domain.Browser {
	if len(names) == 0 {
		return domain.DefaultBrowserCandidates()
	}

	candidates := make([]domain.Browser, 0, len(names))
	for _, name := range names {
		if browser, ok := domain.ParseBrowser(name); ok {
			candidates = append(candidates, browser)
		}
	}

	if len(candidates) == 0 {
		return domain.DefaultBrowserCandidates()
	}

	return candidates
}

// cleanStderr returns the first line carrying the critical-error marker with
// the prefix stripped, or the whole trimmed stderr when no marker is found.
func cleanStderr(stderrText string) string {
	scanner := bufio.NewScanner(strings.NewReader(stderrText))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		idx := markerIndex(line)
		if idx < 0 {
			continue
		}

		rest := line[idx+len(criticalMarker):]
		return strings.TrimSpace(strings.TrimLeft(rest, ": "))
	}

	return strings.TrimSpace(stderrText)
}

// markerIndex finds the critical-error marker case-insensitively and returns
// its byte offset in line. Folding is done window by window so the offset
// stays valid even when the line holds runes whose upper-case form has a
// different UTF-8 width.
func markerIndex(line string) int {
	for i := 0; i+len(criticalMarker) <= len(line); i++ {
		if strings.EqualFold(line[i:i+len(criticalMarker)], criticalMarker) {
			return i
		}
	}

	return -1
}
