package domain

import (
	"fmt"
	"strings"
)

type ErrorKind string

const (
	ErrKindCredentialMissing ErrorKind = "credential_missing"
	ErrKindRunnerNotFound    ErrorKind = "runner_not_found"
	ErrKindNetworkFailure    ErrorKind = "network_failure"
	ErrKindForbidden         ErrorKind = "forbidden"
	ErrKindExecutionFailure  ErrorKind = "execution_failure"
	ErrKindParseFailure      ErrorKind = "parse_failure"
	ErrKindUnknown           ErrorKind = "unknown"
)

// FetchError is the classified outcome of a failed fetch cycle. Kind is the
// closed taxonomy; the remaining fields carry just enough context to render
// a remediation hint. Installed and Candidates are populated for
// ErrKindCredentialMissing only.
type FetchError struct {
	Kind       ErrorKind
	Detail     string
	Installed  []Browser
	Candidates []Browser
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case ErrKindCredentialMissing:
		return "no usable browser session found"
	case ErrKindRunnerNotFound:
		return "script runner not found"
	case ErrKindNetworkFailure:
		return withDetail("network failure", e.Detail)
	case ErrKindForbidden:
		return "access forbidden by upstream service"
	case ErrKindExecutionFailure:
		return withDetail("fetch script failed", e.Detail)
	case ErrKindParseFailure:
		return withDetail("unreadable fetch output", e.Detail)
	default:
		return withDetail("fetch failed", e.Detail)
	}
}

// Remediation suggests the next user action for this failure.
func (e *FetchError) Remediation() string {
	switch e.Kind {
	case ErrKindCredentialMissing:
		if len(e.Installed) > 0 {
			return fmt.Sprintf("open %s and sign in, then refresh", browserList(e.Installed))
		}
		if len(e.Candidates) > 0 {
			return fmt.Sprintf("install a supported browser (%s) and sign in", browserList(e.Candidates))
		}
		return "install a supported browser and sign in"
	case ErrKindRunnerNotFound:
		return "install uv (https://docs.astral.sh/uv/) or point runner.name at an installed runner"
	case ErrKindNetworkFailure:
		return "check your network connection and refresh"
	case ErrKindForbidden:
		return "sign in to the service again in your browser"
	case ErrKindExecutionFailure:
		return "run the fetch script by hand to inspect its output"
	case ErrKindParseFailure:
		return "the fetch script output changed shape; update quotabar or the script"
	default:
		return "refresh and check the debug log if it persists"
	}
}

func withDetail(msg, detail string) string {
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return msg
	}

	return msg + ": " + detail
}

func browserList(browsers []Browser) string {
	names := make([]string, 0, len(browsers))
	for _, b := range browsers {
		names = append(names, b.DisplayName())
	}

	return strings.Join(names, ", ")
}
