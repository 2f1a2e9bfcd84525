package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/prajeetp/blackhole-cli/internal/adapters/portal"
	"github.com/prajeetp/blackhole-cli/internal/adapters/render/report"
	"github.com/prajeetp/blackhole-cli/internal/adapters/sessionlog"
	"github.com/prajeetp/blackhole-cli/internal/application"
	"github.com/prajeetp/blackhole-cli/internal/domain"
	"github.com/prajeetp/blackhole-cli/internal/ports"
)

// loadSession resolves the persisted session and attaches the runtime
// password from the environment, since it is never stored.
func loadSession(cmd *cobra.Command, app *app) (domain.Credentials, error) {
	creds, err := app.store.Load(cmd.Context())
	if err != nil {
		return domain.Credentials{}, err
	}
	if pass := os.Getenv(envPass); pass != "" {
		creds.Password = pass
	}
	return creds, nil
}

// runBatch executes ops against the portal with a fresh session log and a
// SIGINT-driven cooperative abort: in-flight units finish, queued units are
// skipped.
func runBatch(cmd *cobra.Command, app *app, ops []domain.Operation, exec ports.UnitExecutor, workers int, showProgress bool) (application.BatchReport, error) {
	creds, err := loadSession(cmd, app)
	if err != nil {
		return application.BatchReport{}, err
	}

	recorder, err := sessionlog.New(app.logsDir, creds.Username)
	if err != nil {
		return application.BatchReport{}, err
	}
	defer func() { _ = recorder.Close() }()

	pool, err := portal.NewClient(creds)
	if err != nil {
		return application.BatchReport{}, err
	}

	svc := application.NewBatchService(pool, recorder)

	cancel := application.NewCancellation()
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signals)
		close(signals)
	}()
	go func() {
		for range signals {
			cancel.Cancel()
		}
	}()

	if workers <= 0 {
		workers = app.workers
	}

	runCtx := cmd.Context()
	if app.timeout > 0 {
		// A whole-batch deadline from config; past it, queued units report
		// as aborted.
		var cancelCtx context.CancelFunc
		runCtx, cancelCtx = context.WithTimeout(runCtx, app.timeout)
		defer cancelCtx()
	}

	var batchReport application.BatchReport
	run := func(ctx context.Context, progress application.ProgressFunc) {
		batchReport = svc.Run(ctx, ops, exec, application.BatchOptions{
			Workers:  workers,
			Progress: progress,
			Cancel:   cancel,
		})
	}

	if showProgress {
		label := fmt.Sprintf("Processing %d units...", len(ops))
		if err := runBatchProgress(runCtx, cmd.ErrOrStderr(), label, len(ops), run); err != nil {
			return application.BatchReport{}, err
		}
	} else {
		run(runCtx, nil)
	}

	recorder.Record("session log: " + recorder.Path())
	return batchReport, nil
}

type unitJSON struct {
	Target    string  `json:"target"`
	Action    string  `json:"action"`
	Success   bool    `json:"success"`
	Status    int     `json:"status,omitempty"`
	Message   string  `json:"message,omitempty"`
	ElapsedMS float64 `json:"elapsed_ms,omitempty"`
}

type reportJSON struct {
	RunID     string     `json:"run_id"`
	State     string     `json:"state"`
	Processed int        `json:"processed"`
	Successes int        `json:"successes"`
	Failures  int        `json:"failures"`
	Aborted   int        `json:"aborted,omitempty"`
	Units     []unitJSON `json:"units"`
	Rows      [][]string `json:"rows,omitempty"`
}

func writeBatchOutput(cmd *cobra.Command, batchReport application.BatchReport, rows []domain.Row, asJSON, failuresOnly bool) error {
	if asJSON {
		payload := reportJSON{
			RunID:     batchReport.RunID,
			State:     string(batchReport.State),
			Processed: batchReport.Processed,
			Successes: batchReport.Successes,
			Failures:  batchReport.Failures,
			Aborted:   batchReport.Aborted,
			Units:     make([]unitJSON, 0, len(batchReport.Results)),
		}
		for _, res := range batchReport.Results {
			payload.Units = append(payload.Units, unitJSON{
				Target:    res.TargetID,
				Action:    string(res.Action),
				Success:   res.Success,
				Status:    res.StatusCode,
				Message:   res.Message,
				ElapsedMS: float64(res.Elapsed) / float64(time.Millisecond),
			})
		}
		for _, row := range rows {
			payload.Rows = append(payload.Rows, row.Cells)
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	output, err := report.Render(batchReport, rows, report.RenderOptions{FailuresOnly: failuresOnly})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
	return err
}

// batchError maps a setup-level batch failure to a non-zero exit; unit-level
// failures are reported in the output only.
func batchError(batchReport application.BatchReport) error {
	if batchReport.State == application.BatchFailed {
		return errors.New(batchReport.Summary())
	}
	return nil
}
