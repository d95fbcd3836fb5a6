package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradedash/calc"
	"github.com/rustyeddy/tradedash/journal"
)

func newHistoryCmd(rc *RootConfig) *cobra.Command {
	var (
		fromStr string
		toStr   string
		csvPath string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded balance updates",
		Example: `  tradedash history --from 2026-10-01
  tradedash -i V75 history --from 2026-10-01 --to 2026-10-31 --csv october.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := rc.Config().Location()
			now := time.Now().In(loc)
			from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
			to := from.AddDate(0, 0, 1)

			var err error
			if fromStr != "" {
				if from, err = time.ParseInLocation(time.DateOnly, fromStr, loc); err != nil {
					return fmt.Errorf("bad --from: %w", err)
				}
			}
			if toStr != "" {
				if to, err = time.ParseInLocation(time.DateOnly, toStr, loc); err != nil {
					return fmt.Errorf("bad --to: %w", err)
				}
				to = to.AddDate(0, 0, 1)
			}
			if !to.After(from) {
				return fmt.Errorf("--to must not be before --from")
			}

			if err := rc.open(cmd.Context()); err != nil {
				return err
			}
			if rc.journal == nil {
				return fmt.Errorf("history needs the sqlite store (got %q)", rc.Config().Store.Type)
			}

			inst := rc.instrument()
			recs, err := rc.journal.ListBetween(inst, from, to)
			if err != nil {
				return fmt.Errorf("list history: %w", err)
			}

			if csvPath != "" {
				w, err := journal.NewCSV(csvPath)
				if err != nil {
					return err
				}
				if err := w.WriteAll(recs); err != nil {
					_ = w.Close()
					return err
				}
				if err := w.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d updates to %s\n", len(recs), csvPath)
				return nil
			}

			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintf(out, "No balance updates for %s.\n", inst)
				return nil
			}
			for _, r := range recs {
				fmt.Fprintf(out, "%s  %s -> %s  (%+.2f)  trade %d\n",
					r.Time.In(loc).Format("2006-01-02 15:04"),
					calc.Money(r.Previous), calc.Money(r.Balance), r.Change(), r.TradesToday)
			}
			sum := journal.Summarize(recs)
			fmt.Fprintf(out, "%d updates, net %+.2f\n", sum.Updates, sum.NetChange)
			return nil
		},
	}
	cmd.Flags().StringVar(&fromStr, "from", "", "First day, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&toStr, "to", "", "Last day, YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write the updates to a CSV file instead")
	return cmd
}
