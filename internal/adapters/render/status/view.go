package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/quotabar/internal/application"
	"github.com/bnema/quotabar/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

type RenderOptions struct {
	Now        time.Time
	StaleAfter time.Duration
}

func renderView(state application.State, opts RenderOptions, s styles) string {
	primaryKind, primary := state.Primary()

	lines := []string{
		s.title.Render("Usage ") + s.forStatus(primary.Status()).Render(fmt.Sprintf("%.0f%%", clampPercent(primary.Utilization))) + s.header.Render(fmt.Sprintf(" (%s window)", primaryKind.Label())),
	}

	if state.Snapshot == nil && state.Err == nil && !state.Loading {
		lines = append(lines, s.empty.Render("No usage data yet."))
	}

	if state.Snapshot != nil {
		for _, kind := range []domain.WindowKind{domain.WindowFiveHour, domain.WindowSevenDay} {
			lines = append(lines, windowLine(kind, state.Snapshot.Window(kind), opts, s))
		}
	}

	if state.Err != nil {
		lines = append(lines,
			s.errorText.Render(state.Err.Error()),
			s.hint.Render(state.Err.Remediation()),
		)
	}

	lines = append(lines, footerLine(state, opts, s))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func windowLine(kind domain.WindowKind, window domain.UsageWindow, opts RenderOptions, s styles) string {
	status := window.Status()
	bar := renderUsageBar(window.Utilization, 24, status, s)

	label := s.windowKey.Render(fmt.Sprintf("%-2s", kind.Label()))
	percent := s.forStatus(status).Render(fmt.Sprintf("%3.0f%% used", clampPercent(window.Utilization)))

	parts := []string{label, " ", bar, " ", percent}

	if window.Used != nil && window.Limit != nil {
		parts = append(parts, " ", s.meta.Render(fmt.Sprintf("%d/%d", *window.Used, *window.Limit)))
	}

	parts = append(parts, " ", s.meta.Render("("+formatResetRelative(window.ResetsAt, opts.Now)+")"))

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderUsageBar(usedPercent float64, width int, status domain.UsageStatus, s styles) string {
	if width <= 0 {
		return ""
	}

	used := clampPercent(usedPercent)
	filled := int(math.Round(float64(width) * used / 100.0))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	fillSegment := s.forStatus(status).Render(strings.Repeat("=", filled))
	emptySegment := s.barEmpty.Render(strings.Repeat("-", width-filled))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fillSegment,
		emptySegment,
		s.barBracket.Render("]"),
	)
}

func footerLine(state application.State, opts RenderOptions, s styles) string {
	if state.Loading {
		return s.header.Render("refreshing...")
	}

	if state.Snapshot == nil {
		return s.empty.Render("never fetched")
	}

	fetched := "fetched " + humanize.RelTime(state.Snapshot.FetchedAt, opts.Now, "ago", "from now")
	line := s.header.Render(fetched)

	if state.Snapshot.IsStale(opts.Now, opts.StaleAfter) || state.LastSuccess.IsZero() {
		line += " " + s.warning.Render("[stale]")
	}

	return line
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// formatResetRelative renders the window's reset countdown. A missing reset
// time degrades to a neutral placeholder.
func formatResetRelative(resetsAt *time.Time, now time.Time) string {
	if resetsAt == nil || resetsAt.IsZero() {
		return "resets n/a"
	}
	if now.IsZero() {
		return "resets " + resetsAt.Format(time.RFC3339)
	}

	if resetsAt.Before(now) {
		return "reset now"
	}

	remaining := resetsAt.Sub(now)
	if remaining < time.Hour {
		minutes := int(math.Ceil(remaining.Minutes()))
		if minutes < 1 {
			minutes = 1
		}
		return fmt.Sprintf("resets in %d min (%s)", minutes, resetsAt.Format("15:04"))
	}

	if remaining < 24*time.Hour {
		hours := int(math.Ceil(remaining.Hours()))
		suffix := "hours"
		if hours == 1 {
			suffix = "hour"
		}
		return fmt.Sprintf("resets in %d %s (%s)", hours, suffix, resetsAt.Format("15:04"))
	}

	days := int(math.Ceil(remaining.Hours() / 24))
	suffix := "days"
	if days == 1 {
		suffix = "day"
	}

	return fmt.Sprintf("resets in %d %s (%s)", days, suffix, resetsAt.Format("15:04 on 02 Jan"))
}
