package runner

import (
	"bufio"
	"encoding/json"
	"strings"
	"time"

	"github.com/bnema/quotabar/internal/domain"
)

type windowPayload struct {
	Utilization float64 `json:"utilization"`
	Limit       *int    `json:"limit"`
	Used        *int    `json:"used"`
	ResetsAt    string  `json:"resets_at"`
}

type snapshotPayload struct {
	FiveHour *windowPayload `json:"five_hour"`
	SevenDay *windowPayload `json:"seven_day"`
}

// ParseSnapshot extracts the single JSON object from the script's stdout and
// decodes it. Trailing human-readable text after the object is discarded.
func ParseSnapshot(raw string, fetchedAt time.Time) (domain.UsageSnapshot, error) {
	captured, ok := extractObject(raw)
	if !ok {
		return domain.UsageSnapshot{}, &domain.FetchError{
			Kind:   domain.ErrKindParseFailure,
			Detail: "no JSON object found in script output",
		}
	}

	var payload snapshotPayload
	if err := json.Unmarshal([]byte(captured), &payload); err != nil {
		return domain.UsageSnapshot{}, &domain.FetchError{
			Kind:   domain.ErrKindParseFailure,
			Detail: err.Error(),
		}
	}

	return domain.UsageSnapshot{
		FiveHour:  payload.FiveHour.toDomain(),
		SevenDay:  payload.SevenDay.toDomain(),
		FetchedAt: fetchedAt,
	}, nil
}

// extractObject scans line by line with a running brace-depth counter,
// capturing from the first '{' until depth returns to zero. Braces inside
// JSON string values desynchronize the counter; the upstream script never
// emits such values and hardening this would change which inputs are
// accepted, so the naive counter is kept.
func extractObject(raw string) (string, bool) {
	var captured strings.Builder
	depth := 0
	started := false

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		for _, r := range line {
			if !started {
				if r != '{' {
					continue
				}
				started = true
			}

			switch r {
			case '{':
				depth++
			case '}':
				depth--
			}
			captured.WriteRune(r)

			if depth == 0 {
				return captured.String(), true
			}
		}

		if started {
			captured.WriteRune('\n')
		}
	}

	return "", false
}

func (p *windowPayload) toDomain() *domain.UsageWindow {
	if p == nil {
		return nil
	}

	window := &domain.UsageWindow{
		Utilization: p.Utilization,
		Limit:       p.Limit,
		Used:        p.Used,
	}

	// An unparseable reset time degrades to absent rather than failing the
	// whole snapshot.
	if t, ok := parseResetTime(p.ResetsAt); ok {
		window.ResetsAt = &t
	}

	return window
}

func parseResetTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
