package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prajeetp/blackhole-cli/internal/adapters/portal"
	"github.com/prajeetp/blackhole-cli/internal/domain"
)

func newCreateCmd(app *app) *cobra.Command {
	var (
		file         string
		ticket       string
		ticketSystem string
		autoclose    string
		description  string
		workers      int
		asJSON       bool
		failuresOnly bool
	)

	cmd := &cobra.Command{
		Use:   "create [ip...]",
		Short: "Open blackhole routes for one or more IP addresses",
		Long:  "create submits one portal request per IP address. IPs come from the arguments, from --file (one per line, # comments), or both. Each submission is retried up to 3 times; a rejected login is never retried.",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := collectTargets(args, file)
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				return errors.New("no ip addresses given")
			}

			exec, err := portal.NewCreateExecutor(portal.CreateDefaults{
				TicketSystem:  ticketSystem,
				TicketNumber:  ticket,
				AutocloseTime: autoclose,
				Description:   description,
			})
			if err != nil {
				return err
			}

			ops := make([]domain.Operation, 0, len(targets))
			for _, target := range targets {
				ops = append(ops, domain.Operation{
					TargetID: target,
					Action:   domain.ActionCreate,
				})
			}

			batchReport, err := runBatch(cmd, app, ops, exec, workers, !asJSON)
			if err != nil {
				return err
			}
			if err := writeBatchOutput(cmd, batchReport, nil, asJSON, failuresOnly); err != nil {
				return err
			}
			return batchError(batchReport)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "File with one IP address per line")
	cmd.Flags().StringVar(&ticket, "ticket", "", "Ticket number to associate")
	cmd.Flags().StringVar(&ticketSystem, "ticket-system", portal.DefaultTicketSystem, "Ticket system name")
	cmd.Flags().StringVar(&autoclose, "autoclose", "", "Auto-close time (portal syntax, e.g. 4h)")
	cmd.Flags().StringVar(&description, "description", "", "Entry description (default: CASE #<ticket>)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent workers (0 = auto)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&failuresOnly, "failures-only", false, "Show only failed units")

	return cmd
}

// collectTargets merges argument IPs with the optional --file list,
// preserving order and dropping duplicates.
func collectTargets(args []string, file string) ([]string, error) {
	targets := make([]string, 0, len(args))
	seen := make(map[string]struct{})
	add := func(target string) {
		target = strings.TrimSpace(target)
		if target == "" || strings.HasPrefix(target, "#") {
			return
		}
		if _, ok := seen[target]; ok {
			return
		}
		seen[target] = struct{}{}
		targets = append(targets, target)
	}

	for _, arg := range args {
		add(arg)
	}

	if file != "" {
		data, err := os.ReadFile(file) // #nosec G304 -- user-supplied list path
		if err != nil {
			return nil, fmt.Errorf("read ip list: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			add(line)
		}
	}

	return targets, nil
}
