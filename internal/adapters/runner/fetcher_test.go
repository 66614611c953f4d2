package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/quotabar/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// realExitError produces a genuine *exec.ExitError for the non-zero-exit
// code path.
func realExitError(t *testing.T) error {
	t.Helper()

	err := exec.Command("/bin/sh", "-c", "exit 3").Run()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	return err
}

func newTestFetcher(t *testing.T) *ScriptFetcher {
	t.Helper()

	return NewScriptFetcher(
		"uv",
		"/tmp/fetch_usage.py",
		nil,
		fakeDetector{},
		fixedClock{now: parseFetchedAt},
		zerolog.Nop(),
	)
}

func TestFetchSuccess(t *testing.T) {
	fetcher := newTestFetcher(t)
	fetcher.locate = func(string, []string) (string, error) {
		return "/opt/homebrew/bin/uv", nil
	}
	fetcher.invoke = func(_ context.Context, runnerPath, scriptPath string) (string, string, error) {
		assert.Equal(t, "/opt/homebrew/bin/uv", runnerPath)
		assert.Equal(t, "/tmp/fetch_usage.py", scriptPath)
		return `{"five_hour":{"utilization":42.5},"seven_day":{"utilization":10}}` + "\nAll good", "", nil
	}

	snapshot, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snapshot.FiveHour)
	assert.InDelta(t, 42.5, snapshot.FiveHour.Utilization, 0.001)
	assert.Equal(t, parseFetchedAt, snapshot.FetchedAt)
}

func TestFetchRunnerNotFound(t *testing.T) {
	fetcher := newTestFetcher(t)
	fetcher.locate = func(string, []string) (string, error) {
		return "", ErrRunnerNotFound
	}
	fetcher.invoke = func(context.Context, string, string) (string, string, error) {
		t.Fatal("invoke must not run without a runner")
		return "", "", nil
	}

	_, err := fetcher.Fetch(context.Background())
	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, domain.ErrKindRunnerNotFound, fetchErr.Kind)
}

func TestFetchNonZeroExitClassifiesStderr(t *testing.T) {
	exitErr := realExitError(t)

	fetcher := newTestFetcher(t)
	fetcher.locate = func(string, []string) (string, error) { return "/usr/bin/uv", nil }
	fetcher.invoke = func(context.Context, string, string) (string, string, error) {
		return "", `{"error": "request failed: 403 Forbidden"}`, exitErr
	}

	_, err := fetcher.Fetch(context.Background())
	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, domain.ErrKindForbidden, fetchErr.Kind)
}

func TestFetchStartFailureIsExecutionFailure(t *testing.T) {
	fetcher := newTestFetcher(t)
	fetcher.locate = func(string, []string) (string, error) { return "/usr/bin/uv", nil }
	fetcher.invoke = func(context.Context, string, string) (string, string, error) {
		return "", "", errors.New("fork/exec: permission denied")
	}

	_, err := fetcher.Fetch(context.Background())
	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, domain.ErrKindExecutionFailure, fetchErr.Kind)
	assert.Contains(t, fetchErr.Detail, "permission denied")
}

func TestFetchUndecodableStdoutIsParseFailure(t *testing.T) {
	fetcher := newTestFetcher(t)
	fetcher.locate = func(string, []string) (string, error) { return "/usr/bin/uv", nil }
	fetcher.invoke = func(context.Context, string, string) (string, string, error) {
		return "\xff\xfe{broken", "", nil
	}

	_, err := fetcher.Fetch(context.Background())
	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, domain.ErrKindParseFailure, fetchErr.Kind)
}

func TestInvokeScriptRunsInScriptDirectory(t *testing.T) {
	scriptDir := t.TempDir()
	script := filepath.Join(scriptDir, "fetch_usage.py")
	require.NoError(t, os.WriteFile(script, nil, 0o644))

	runnerPath := filepath.Join(t.TempDir(), "fake-uv")
	require.NoError(t, os.WriteFile(runnerPath, []byte("#!/bin/sh\npwd\necho \"$@\" >&2\n"), 0o755))

	stdout, stderr, err := invokeScript(context.Background(), runnerPath, script)
	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Base(scriptDir))
	assert.Contains(t, stderr, "run python "+script)
}
