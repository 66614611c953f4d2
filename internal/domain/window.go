package domain

import "time"

type WindowKind string

const (
	WindowFiveHour WindowKind = "five_hour"
	WindowSevenDay WindowKind = "seven_day"
)

func (w WindowKind) Label() string {
	switch w {
	case WindowFiveHour:
		return "5h"
	case WindowSevenDay:
		return "7d"
	default:
		return string(w)
	}
}

// UsageWindow is one rolling rate-limit accounting period as reported by a
// single fetch. Immutable once constructed.
type UsageWindow struct {
	Utilization float64
	Limit       *int
	Used        *int
	ResetsAt    *time.Time
}

func (w UsageWindow) Status() UsageStatus {
	return StatusOf(w.Utilization)
}

type UsageStatus string

const (
	StatusReady     UsageStatus = "ready"
	StatusLow       UsageStatus = "low"
	StatusMedium    UsageStatus = "medium"
	StatusHigh      UsageStatus = "high"
	StatusExhausted UsageStatus = "exhausted"
)

// StatusOf maps a utilization percentage onto the display status. Exactly
// zero is ready, not low.
func StatusOf(utilization float64) UsageStatus {
	switch {
	case utilization <= 0:
		return StatusReady
	case utilization < 50:
		return StatusLow
	case utilization < 80:
		return StatusMedium
	case utilization < 100:
		return StatusHigh
	default:
		return StatusExhausted
	}
}
