package status

import (
	"testing"
	"time"

	"github.com/bnema/quotabar/internal/application"
	"github.com/bnema/quotabar/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var renderNow = time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)

func snapshotForRender() *domain.UsageSnapshot {
	limit := 500
	used := 212
	fiveReset := renderNow.Add(3 * time.Hour)
	sevenReset := renderNow.Add(2 * 24 * time.Hour)

	return &domain.UsageSnapshot{
		FiveHour: &domain.UsageWindow{
			Utilization: 43.2,
			Limit:       &limit,
			Used:        &used,
			ResetsAt:    &fiveReset,
		},
		SevenDay:  &domain.UsageWindow{Utilization: 10, ResetsAt: &sevenReset},
		FetchedAt: renderNow.Add(-2 * time.Minute),
	}
}

func TestRenderSnapshot(t *testing.T) {
	output, err := Render(application.State{
		Snapshot:    snapshotForRender(),
		LastSuccess: renderNow.Add(-2 * time.Minute),
	}, RenderOptions{Now: renderNow, StaleAfter: 6 * time.Hour})

	require.NoError(t, err)
	assert.Contains(t, output, "Usage")
	assert.Contains(t, output, "43%")
	assert.Contains(t, output, "(5h window)")
	assert.Contains(t, output, "5h")
	assert.Contains(t, output, "7d")
	assert.Contains(t, output, "43% used")
	assert.Contains(t, output, "10% used")
	assert.Contains(t, output, "212/500")
	assert.Contains(t, output, "resets in 3 hours (14:00)")
	assert.Contains(t, output, "resets in 2 days")
	assert.Contains(t, output, "fetched 2 minutes ago")
	assert.NotContains(t, output, "stale")
}

func TestRenderHeadlineSwitchesToSevenDay(t *testing.T) {
	snapshot := snapshotForRender()
	snapshot.SevenDay.Utilization = 85

	output, err := Render(application.State{
		Snapshot:    snapshot,
		LastSuccess: renderNow,
	}, RenderOptions{Now: renderNow})

	require.NoError(t, err)
	assert.Contains(t, output, "85%")
	assert.Contains(t, output, "(7d window)")
}

func TestRenderErrorWithRemediation(t *testing.T) {
	output, err := Render(application.State{
		Snapshot:    snapshotForRender(),
		LastSuccess: renderNow.Add(-2 * time.Minute),
		Err: &domain.FetchError{
			Kind:       domain.ErrKindCredentialMissing,
			Installed:  []domain.Browser{domain.BrowserFirefox},
			Candidates: domain.DefaultBrowserCandidates(),
		},
	}, RenderOptions{Now: renderNow, StaleAfter: 6 * time.Hour})

	require.NoError(t, err)
	// Prior snapshot stays on display next to the error.
	assert.Contains(t, output, "43% used")
	assert.Contains(t, output, "no usable browser session found")
	assert.Contains(t, output, "open Firefox and sign in")
}

func TestRenderRestoredSnapshotIsStale(t *testing.T) {
	output, err := Render(application.State{
		Snapshot: snapshotForRender(),
	}, RenderOptions{Now: renderNow, StaleAfter: 6 * time.Hour})

	require.NoError(t, err)
	assert.Contains(t, output, "[stale]")
}

func TestRenderEmptyState(t *testing.T) {
	output, err := Render(application.State{}, RenderOptions{Now: renderNow})

	require.NoError(t, err)
	assert.Contains(t, output, "0%")
	assert.Contains(t, output, "No usage data yet.")
	assert.Contains(t, output, "never fetched")
}

func TestRenderLoadingState(t *testing.T) {
	output, err := Render(application.State{Loading: true}, RenderOptions{Now: renderNow})

	require.NoError(t, err)
	assert.Contains(t, output, "refreshing...")
}

func TestRenderMissingResetTimePlaceholder(t *testing.T) {
	snapshot := snapshotForRender()
	snapshot.FiveHour.ResetsAt = nil

	output, err := Render(application.State{
		Snapshot:    snapshot,
		LastSuccess: renderNow,
	}, RenderOptions{Now: renderNow})

	require.NoError(t, err)
	assert.Contains(t, output, "resets n/a")
}

func TestFormatResetRelative(t *testing.T) {
	in30m := renderNow.Add(30 * time.Minute)
	in1h := renderNow.Add(time.Hour)
	in13h := renderNow.Add(13 * time.Hour)
	in3d := renderNow.Add(3 * 24 * time.Hour)
	past := renderNow.Add(-time.Minute)

	tests := []struct {
		name     string
		resetsAt *time.Time
		want     string
	}{
		{name: "absent", resetsAt: nil, want: "resets n/a"},
		{name: "minutes", resetsAt: &in30m, want: "resets in 30 min (11:30)"},
		{name: "single hour", resetsAt: &in1h, want: "resets in 1 hour (12:00)"},
		{name: "hours", resetsAt: &in13h, want: "resets in 13 hours (00:00)"},
		{name: "days", resetsAt: &in3d, want: "resets in 3 days (11:00 on 02 Sep)"},
		{name: "already passed", resetsAt: &past, want: "reset now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatResetRelative(tt.resetsAt, renderNow))
		})
	}
}
