package domain

import "time"

// UsageSnapshot is the latest successfully fetched pair of usage windows,
// held as one atomic unit. A snapshot replaces the prior one wholesale; a
// missing window reads as zero utilization and ready status.
type UsageSnapshot struct {
	FiveHour  *UsageWindow
	SevenDay  *UsageWindow
	FetchedAt time.Time
}

func (s UsageSnapshot) Window(kind WindowKind) UsageWindow {
	var w *UsageWindow
	switch kind {
	case WindowFiveHour:
		w = s.FiveHour
	case WindowSevenDay:
		w = s.SevenDay
	}

	if w == nil {
		return UsageWindow{}
	}

	return *w
}

// Primary selects the window behind the headline percentage: the seven-day
// window once it is at or past 80% utilization, the five-hour window
// otherwise.
func (s UsageSnapshot) Primary() (WindowKind, UsageWindow) {
	if s.SevenDay != nil && s.SevenDay.Utilization >= 80 {
		return WindowSevenDay, *s.SevenDay
	}

	return WindowFiveHour, s.Window(WindowFiveHour)
}

func (s UsageSnapshot) IsStale(now time.Time, maxAge time.Duration) bool {
	if s.FetchedAt.IsZero() {
		return true
	}

	if maxAge <= 0 {
		return false
	}

	return now.Sub(s.FetchedAt) > maxAge
}
