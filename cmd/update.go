package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/prajeetp/blackhole-cli/internal/adapters/portal"
	"github.com/prajeetp/blackhole-cli/internal/domain"
)

func newUpdateCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update or close existing blackhole entries",
	}

	cmd.AddCommand(
		newUpdateDescriptionCmd(app),
		newUpdateAutocloseCmd(app),
		newUpdateTicketCmd(app),
		newUpdateCloseCmd(app),
	)

	return cmd
}

func newUpdateDescriptionCmd(app *app) *cobra.Command {
	var text string
	var workers int
	var asJSON, failuresOnly bool

	cmd := &cobra.Command{
		Use:   "description <id...>",
		Short: "Set the description on entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops := updateOps(args, domain.ActionSetDescription, map[string]string{
				domain.ParamDescription: text,
			})
			return runUpdateBatch(cmd, app, ops, workers, asJSON, failuresOnly)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "New description")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent workers (0 = auto)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&failuresOnly, "failures-only", false, "Show only failed units")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func newUpdateAutocloseCmd(app *app) *cobra.Command {
	var closeTime string
	var workers int
	var asJSON, failuresOnly bool

	cmd := &cobra.Command{
		Use:   "autoclose <id...>",
		Short: "Set or clear the auto-close time on entries",
		Long:  "autoclose sets the auto-close time on each entry. An empty --time removes the auto-close.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops := updateOps(args, domain.ActionSetAutoclose, map[string]string{
				domain.ParamCloseText: closeTime,
			})
			return runUpdateBatch(cmd, app, ops, workers, asJSON, failuresOnly)
		},
	}

	cmd.Flags().StringVar(&closeTime, "time", "", "Auto-close time (portal syntax, empty to clear)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent workers (0 = auto)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&failuresOnly, "failures-only", false, "Show only failed units")

	return cmd
}

func newUpdateTicketCmd(app *app) *cobra.Command {
	var ticket, ticketSystem string
	var workers int
	var asJSON, failuresOnly bool

	cmd := &cobra.Command{
		Use:   "ticket <id...>",
		Short: "Associate entries with a ticket",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ticket == "" {
				return errors.New("--ticket is required")
			}
			ops := updateOps(args, domain.ActionAssociateTicket, map[string]string{
				domain.ParamTicketSystem: ticketSystem,
				domain.ParamTicketNumber: ticket,
			})
			return runUpdateBatch(cmd, app, ops, workers, asJSON, failuresOnly)
		},
	}

	cmd.Flags().StringVar(&ticket, "ticket", "", "Ticket number")
	cmd.Flags().StringVar(&ticketSystem, "ticket-system", portal.DefaultTicketSystem, "Ticket system name")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent workers (0 = auto)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&failuresOnly, "failures-only", false, "Show only failed units")

	return cmd
}

func newUpdateCloseCmd(app *app) *cobra.Command {
	var workers int
	var asJSON, failuresOnly bool

	cmd := &cobra.Command{
		Use:   "close <id...>",
		Short: "Close entries now",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops := updateOps(args, domain.ActionClose, nil)
			return runUpdateBatch(cmd, app, ops, workers, asJSON, failuresOnly)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent workers (0 = auto)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&failuresOnly, "failures-only", false, "Show only failed units")

	return cmd
}

func updateOps(ids []string, action domain.Action, params map[string]string) []domain.Operation {
	ops := make([]domain.Operation, 0, len(ids))
	for _, id := range ids {
		ops = append(ops, domain.Operation{
			TargetID: id,
			Action:   action,
			Params:   params,
		})
	}
	return ops
}

func runUpdateBatch(cmd *cobra.Command, app *app, ops []domain.Operation, workers int, asJSON, failuresOnly bool) error {
	batchReport, err := runBatch(cmd, app, ops, portal.NewUpdateExecutor(), workers, !asJSON)
	if err != nil {
		return err
	}
	if err := writeBatchOutput(cmd, batchReport, nil, asJSON, failuresOnly); err != nil {
		return err
	}
	return batchError(batchReport)
}
