package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/prajeetp/blackhole-cli/internal/adapters/portal"
	"github.com/prajeetp/blackhole-cli/internal/application"
	"github.com/prajeetp/blackhole-cli/internal/domain"
)

func newSearchCmd(app *app) *cobra.Command {
	var (
		ids          []string
		ips          []string
		ticket       string
		ticketSystem string
		opener       string
		month        string
		year         string
		description  string
		active       bool
		workers      int
		asJSON       bool
		failuresOnly bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search blackhole entries",
		Long:  "search runs one portal lookup per filter and merges the scraped tables into a single result set, de-duplicated by entry ID. Repeat --id or --ip for multiple lookups in one batch.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters := make([]portal.Filters, 0, len(ids)+len(ips)+4)
			for _, id := range ids {
				filters = append(filters, portal.Filters{BlackholeID: id})
			}
			for _, ip := range ips {
				filters = append(filters, portal.Filters{IPAddress: ip})
			}
			if ticket != "" {
				filters = append(filters, portal.Filters{
					TicketSystem: ticketSystem,
					TicketNumber: ticket,
				})
			}
			if opener != "" {
				filters = append(filters, portal.Filters{OpenedBy: opener})
			}
			if month != "" || year != "" {
				filters = append(filters, portal.Filters{
					Month:       month,
					Year:        year,
					Description: description,
				})
			}
			if active {
				filters = append(filters, portal.Filters{})
			}
			if len(filters) == 0 {
				return errors.New("no search filters given (try --active for all active holes)")
			}

			ops := make([]domain.Operation, 0, len(filters))
			for _, filter := range filters {
				ops = append(ops, filter.Operation())
			}

			batchReport, err := runBatch(cmd, app, ops, portal.NewRetrieveExecutor(), workers, !asJSON)
			if err != nil {
				return err
			}

			rows := application.MergeRows(batchReport.Results)
			if err := writeBatchOutput(cmd, batchReport, rows, asJSON, failuresOnly); err != nil {
				return err
			}
			return batchError(batchReport)
		},
	}

	cmd.Flags().StringArrayVar(&ids, "id", nil, "Blackhole entry ID (repeatable)")
	cmd.Flags().StringArrayVar(&ips, "ip", nil, "IP address (repeatable)")
	cmd.Flags().StringVar(&ticket, "ticket", "", "Ticket number")
	cmd.Flags().StringVar(&ticketSystem, "ticket-system", portal.DefaultTicketSystem, "Ticket system name")
	cmd.Flags().StringVar(&opener, "opener", "", "User who opened the entries")
	cmd.Flags().StringVar(&month, "month", "", "Open month (name or number)")
	cmd.Flags().StringVar(&year, "year", "", "Open year")
	cmd.Flags().StringVar(&description, "description", "", "Description filter for date searches")
	cmd.Flags().BoolVar(&active, "active", false, "List all active holes")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent workers (0 = auto)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&failuresOnly, "failures-only", false, "Show only failed units")

	return cmd
}
