package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOfThresholds(t *testing.T) {
	tests := []struct {
		name        string
		utilization float64
		want        UsageStatus
	}{
		{name: "exactly zero is ready not low", utilization: 0, want: StatusReady},
		{name: "just above zero", utilization: 0.1, want: StatusLow},
		{name: "below fifty", utilization: 49.9, want: StatusLow},
		{name: "fifty boundary", utilization: 50, want: StatusMedium},
		{name: "below eighty", utilization: 79.9, want: StatusMedium},
		{name: "eighty boundary", utilization: 80, want: StatusHigh},
		{name: "just below hundred", utilization: 99.9, want: StatusHigh},
		{name: "hundred boundary", utilization: 100, want: StatusExhausted},
		{name: "over quota", utilization: 130, want: StatusExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.utilization))
		})
	}
}

func TestPrimaryWindowSelection(t *testing.T) {
	tests := []struct {
		name     string
		fiveHour float64
		sevenDay float64
		want     WindowKind
	}{
		{name: "both low picks five hour", fiveHour: 40, sevenDay: 10, want: WindowFiveHour},
		{name: "seven day below threshold picks five hour", fiveHour: 95, sevenDay: 79.9, want: WindowFiveHour},
		{name: "seven day at threshold picks seven day", fiveHour: 5, sevenDay: 80, want: WindowSevenDay},
		{name: "seven day above threshold picks seven day", fiveHour: 99, sevenDay: 100, want: WindowSevenDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := UsageSnapshot{
				FiveHour: &UsageWindow{Utilization: tt.fiveHour},
				SevenDay: &UsageWindow{Utilization: tt.sevenDay},
			}

			kind, window := snapshot.Primary()
			assert.Equal(t, tt.want, kind)
			assert.Equal(t, snapshot.Window(tt.want).Utilization, window.Utilization)
		})
	}
}

func TestPrimaryWindowMissingWindows(t *testing.T) {
	snapshot := UsageSnapshot{SevenDay: &UsageWindow{Utilization: 90}}
	kind, window := snapshot.Primary()
	assert.Equal(t, WindowSevenDay, kind)
	assert.InDelta(t, 90.0, window.Utilization, 0.001)

	empty := UsageSnapshot{}
	kind, window = empty.Primary()
	assert.Equal(t, WindowFiveHour, kind)
	assert.Zero(t, window.Utilization)
	assert.Equal(t, StatusReady, window.Status())
}

func TestWindowDefaultsWhenAbsent(t *testing.T) {
	snapshot := UsageSnapshot{FiveHour: &UsageWindow{Utilization: 42}}

	window := snapshot.Window(WindowSevenDay)
	assert.Zero(t, window.Utilization)
	assert.Equal(t, StatusReady, window.Status())
	assert.Nil(t, window.ResetsAt)
}

func TestSnapshotStaleDetection(t *testing.T) {
	fetchedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	snapshot := UsageSnapshot{FetchedAt: fetchedAt}

	assert.False(t, snapshot.IsStale(fetchedAt.Add(5*time.Minute), 10*time.Minute))
	assert.True(t, snapshot.IsStale(fetchedAt.Add(11*time.Minute), 10*time.Minute))
	assert.False(t, snapshot.IsStale(fetchedAt.Add(24*time.Hour), 0))
	assert.True(t, UsageSnapshot{}.IsStale(fetchedAt, time.Minute))
}

func TestWindowKindLabel(t *testing.T) {
	assert.Equal(t, "5h", WindowFiveHour.Label())
	assert.Equal(t, "7d", WindowSevenDay.Label())
	assert.Equal(t, "rolling_30m", WindowKind("rolling_30m").Label())
}

func TestParseBrowser(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Browser
		wantOK bool
	}{
		{name: "plain chrome", input: "chrome", want: BrowserChrome, wantOK: true},
		{name: "chrome binary name", input: "google-chrome", want: BrowserChrome, wantOK: true},
		{name: "uppercase", input: "Firefox", want: BrowserFirefox, wantOK: true},
		{name: "padded", input: " brave ", want: BrowserBrave, wantOK: true},
		{name: "edge long form", input: "microsoft-edge", want: BrowserEdge, wantOK: true},
		{name: "unrecognized is dropped", input: "netscape", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBrowser(tt.input)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFetchErrorRemediation(t *testing.T) {
	withInstalled := &FetchError{
		Kind:       ErrKindCredentialMissing,
		Installed:  []Browser{BrowserFirefox},
		Candidates: []Browser{BrowserChrome, BrowserFirefox, BrowserBrave},
	}
	assert.Contains(t, withInstalled.Remediation(), "Firefox")
	assert.Contains(t, withInstalled.Remediation(), "sign in")

	noneInstalled := &FetchError{
		Kind:       ErrKindCredentialMissing,
		Candidates: []Browser{BrowserChrome, BrowserFirefox},
	}
	assert.Contains(t, noneInstalled.Remediation(), "install a supported browser")
	assert.Contains(t, noneInstalled.Remediation(), "Chrome, Firefox")

	runner := &FetchError{Kind: ErrKindRunnerNotFound}
	assert.Contains(t, runner.Remediation(), "uv")
}

func TestFetchErrorMessages(t *testing.T) {
	network := &FetchError{Kind: ErrKindNetworkFailure, Detail: "connection refused"}
	assert.Equal(t, "network failure: connection refused", network.Error())

	unknown := &FetchError{Kind: ErrKindUnknown}
	assert.Equal(t, "fetch failed", unknown.Error())
}
