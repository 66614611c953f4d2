package status

import (
	"github.com/bnema/quotabar/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	windowKey  lipgloss.Style
	meta       lipgloss.Style
	detail     lipgloss.Style
	errorText  lipgloss.Style
	hint       lipgloss.Style
	empty      lipgloss.Style
	warning    lipgloss.Style
	barBracket lipgloss.Style
	barEmpty   lipgloss.Style
	status     map[domain.UsageStatus]lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		windowKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		meta:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		errorText:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		hint:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		empty:      lipgloss.NewStyle().Faint(true),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		status: map[domain.UsageStatus]lipgloss.Style{
			domain.StatusReady:     lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
			domain.StatusLow:       lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
			domain.StatusMedium:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
			domain.StatusHigh:      lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
			domain.StatusExhausted: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		},
	}
}

func (s styles) forStatus(status domain.UsageStatus) lipgloss.Style {
	if style, ok := s.status[status]; ok {
		return style
	}

	return s.detail
}
