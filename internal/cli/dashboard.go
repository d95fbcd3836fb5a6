package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradedash/calc"
	"github.com/rustyeddy/tradedash/dashboard"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

func newShowCmd(rc *RootConfig) *cobra.Command {
	var copyLabel string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the dashboard metrics and today's plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := rc.controller(cmd.Context())
			if err != nil {
				return err
			}
			snap := ctrl.Snapshot(cmd.Context())
			out := cmd.OutOrStdout()

			if copyLabel != "" {
				m, ok := snap.Metric(copyLabel)
				if !ok {
					return fmt.Errorf("no metric named %q", copyLabel)
				}
				if !m.Copyable {
					return fmt.Errorf("metric %q cannot be copied", m.Label)
				}
				if err := copyToClipboard(m.Value); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintf(out, "Copied %s: %s\n", m.Label, m.Value)
				return nil
			}

			printMetrics(out, snap)
			fmt.Fprintln(out)
			printPlan(out, snap.Plan)
			return nil
		},
	}
	cmd.Flags().StringVar(&copyLabel, "copy", "", "Copy a metric value to the clipboard (e.g. \"Recommended Lot\")")
	return cmd
}

func newBalanceCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show or update the account balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := rc.controller(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), calc.Money(ctrl.Balance(cmd.Context())))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <balance>",
		Short: "Record a new balance; a changed value counts as a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseAmount(args[0])
			if err != nil {
				return fmt.Errorf("invalid balance: %w", err)
			}
			ctrl, err := rc.controller(cmd.Context())
			if err != nil {
				return err
			}
			snap, err := ctrl.UpdateBalance(cmd.Context(), v)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Balance: %s\n", calc.Money(snap.Balance))
			if snap.Plan != nil {
				fmt.Fprintf(out, "Trades today: %d of %d\n", snap.TradesToday, snap.Plan.TotalTradesRequired)
			} else {
				fmt.Fprintf(out, "Trades today: %d\n", snap.TradesToday)
			}
			return nil
		},
	})
	return cmd
}

func newPlanCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show today's trade plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := rc.controller(cmd.Context())
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), ctrl.Plan(cmd.Context()))
			return nil
		},
	}
}

func printMetrics(w io.Writer, snap dashboard.Snapshot) {
	fmt.Fprintln(w, titleStyle.Render(string(snap.Instrument)))
	for _, m := range snap.Metrics {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", m.Label+":")), m.Value)
	}
}

func printPlan(w io.Writer, plan *calc.TradePlan) {
	if plan == nil || plan.Empty() {
		fmt.Fprintln(w, "No plan: set a balance first.")
		return
	}
	fmt.Fprintf(w, "%s  target %s  trades %d/%d\n",
		titleStyle.Render("Today's plan"),
		calc.Money(plan.DailyTargetAmount),
		plan.CompletedTrades, plan.TotalTradesRequired)

	for _, g := range plan.Groups {
		fmt.Fprintln(w, labelStyle.Render(g.Name))
		for _, t := range g.Trades {
			status := t.Status.String()
			if t.Status == calc.Completed {
				status = doneStyle.Render(status)
			}
			fmt.Fprintf(w, "  #%d  lots %s  profit %s (%s)  %s\n",
				t.TradeNumber, strconv.FormatFloat(t.Lots, 'f', -1, 64),
				calc.Money(t.Profit), calc.Percent(t.Percent), status)
		}
	}
}

// parseAmount accepts plain numbers and tolerates a leading '$' and thousands
// separators.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(s, 64)
}
