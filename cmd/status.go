package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bnema/quotabar/internal/application"
	"github.com/bnema/quotabar/internal/domain"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"usage"},
		Short:   "Fetch usage once and display it",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, app, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func runStatus(cmd *cobra.Command, app *app, asJSON bool) error {
	reconciler := app.newReconciler()
	reconciler.Restore(cmd.Context())

	var state application.State
	if asJSON {
		state = reconciler.Refresh(cmd.Context())

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(toStatusReport(state))
	}

	err := runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context) error {
		state = reconciler.Refresh(ctx)
		return nil
	})
	if err != nil {
		return err
	}

	rendered, err := app.renderer(state, app.renderOptions())
	if err != nil {
		return fmt.Errorf("render status: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

type statusReport struct {
	Snapshot    *snapshotReport `json:"snapshot,omitempty"`
	Error       *errorReport    `json:"error,omitempty"`
	LastSuccess *time.Time      `json:"last_success,omitempty"`
}

type snapshotReport struct {
	FiveHour  *windowReport `json:"five_hour,omitempty"`
	SevenDay  *windowReport `json:"seven_day,omitempty"`
	Primary   string        `json:"primary_window"`
	FetchedAt time.Time     `json:"fetched_at"`
}

type windowReport struct {
	Utilization float64    `json:"utilization"`
	Status      string     `json:"status"`
	Limit       *int       `json:"limit,omitempty"`
	Used        *int       `json:"used,omitempty"`
	ResetsAt    *time.Time `json:"resets_at,omitempty"`
}

type errorReport struct {
	Kind        string   `json:"kind"`
	Message     string   `json:"message"`
	Remediation string   `json:"remediation"`
	Installed   []string `json:"installed_browsers,omitempty"`
	Candidates  []string `json:"candidate_browsers,omitempty"`
}

func toStatusReport(state application.State) statusReport {
	report := statusReport{}

	if state.Snapshot != nil {
		primaryKind, _ := state.Snapshot.Primary()
		report.Snapshot = &snapshotReport{
			FiveHour:  toWindowReport(state.Snapshot.FiveHour),
			SevenDay:  toWindowReport(state.Snapshot.SevenDay),
			Primary:   string(primaryKind),
			FetchedAt: state.Snapshot.FetchedAt,
		}
	}

	if state.Err != nil {
		report.Error = &errorReport{
			Kind:        string(state.Err.Kind),
			Message:     state.Err.Error(),
			Remediation: state.Err.Remediation(),
			Installed:   browserNames(state.Err.Installed),
			Candidates:  browserNames(state.Err.Candidates),
		}
	}

	if !state.LastSuccess.IsZero() {
		lastSuccess := state.LastSuccess
		report.LastSuccess = &lastSuccess
	}

	return report
}

func toWindowReport(window *domain.UsageWindow) *windowReport {
	if window == nil {
		return nil
	}

	return &windowReport{
		Utilization: window.Utilization,
		Status:      string(window.Status()),
		Limit:       window.Limit,
		Used:        window.Used,
		ResetsAt:    window.ResetsAt,
	}
}

func browserNames(browsers []domain.Browser) []string {
	if len(browsers) == 0 {
		return nil
	}

	names := make([]string, 0, len(browsers))
	for _, b := range browsers {
		names = append(names, string(b))
	}

	return names
}
