package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradedash/calc"
	"github.com/rustyeddy/tradedash/config"
	"github.com/rustyeddy/tradedash/risk"
)

func calcEngine(cfg *config.Config) *calc.Engine {
	return calc.NewEngine(cfg.Engine)
}

func newLevelsCmd(rc *RootConfig) *cobra.Command {
	var (
		entryStr  string
		direction string
		tpPips    float64
		slPips    float64
	)

	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Take-profit, stop-loss and lot size for a manual trade",
		Example: `  tradedash levels --entry 2350.40 --direction rise
  tradedash -i V75 levels --entry 412000 --direction fall --sl 800`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := calc.ParseDirection(direction)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("tp") && tpPips <= 0 {
				return fmt.Errorf("--tp must be positive")
			}
			if cmd.Flags().Changed("sl") && slPips <= 0 {
				return fmt.Errorf("--sl must be positive")
			}
			var entry float64
			if entryStr != "" {
				if entry, err = parseAmount(entryStr); err != nil {
					return fmt.Errorf("invalid --entry: %w", err)
				}
				if entry < 0 {
					return fmt.Errorf("invalid --entry: must be non-negative")
				}
			}

			ctrl, err := rc.controller(cmd.Context())
			if err != nil {
				return err
			}
			balance := ctrl.Balance(cmd.Context())
			levels := ctrl.Engine().ComputeTradeLevels(calc.TradeLevelsInput{
				EntryPrice:     entry,
				Direction:      dir,
				TakeProfitPips: tpPips,
				StopLossPips:   slPips,
				Balance:        balance,
			}, ctrl.Spec())

			d := levels.Display()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Take profit: %s\n", d.TakeProfit)
			fmt.Fprintf(out, "Stop loss:   %s\n", d.StopLoss)
			fmt.Fprintf(out, "Lot size:    %s\n", d.LotSize)

			dec := risk.Evaluate(rc.Config().Risk, levels, balance, ctrl.Spec())
			if levels.LotSet {
				fmt.Fprintf(out, "Risk:        %s (%s)  RR %.2f\n",
					calc.Money(dec.PlannedRisk), calc.Percent(dec.PlannedRiskPct*100), dec.PlannedRR)
			}
			for _, v := range dec.Violations {
				fmt.Fprintf(out, "warning: %s\n", v.Msg)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&entryStr, "entry", "", "Entry price")
	cmd.Flags().StringVarP(&direction, "direction", "d", "rise", "Trade direction: rise|fall")
	cmd.Flags().Float64Var(&tpPips, "tp", 0, "Take-profit distance in pips (default from instrument)")
	cmd.Flags().Float64Var(&slPips, "sl", 0, "Stop-loss distance in pips (default from instrument)")
	return cmd
}

func newCompoundCmd(rc *RootConfig) *cobra.Command {
	var (
		frequency string
		periods   int
	)

	cmd := &cobra.Command{
		Use:   "compound <initial-balance>",
		Short: "Project a balance forward at the daily growth rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initial, err := parseAmount(args[0])
			if err != nil {
				return fmt.Errorf("invalid initial balance: %w", err)
			}
			f, err := calc.ParseFrequency(frequency)
			if err != nil {
				return err
			}

			d := calcEngine(rc.Config()).ComputeCompounding(initial, f, periods).Display()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Projected balance: %s\n", d.ProjectedBalance)
			fmt.Fprintf(out, "Total growth:      %s\n", d.TotalGrowth)
			return nil
		},
	}
	cmd.Flags().StringVarP(&frequency, "frequency", "f", "daily", "Period length: daily|monthly|yearly")
	cmd.Flags().IntVarP(&periods, "periods", "n", 1, "Number of periods")
	return cmd
}

func newWithdrawCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <current-balance>",
		Short: "Growth over the withdrawal window and the safe amount to withdraw",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := parseAmount(args[0])
			if err != nil {
				return fmt.Errorf("invalid current balance: %w", err)
			}

			d := calcEngine(rc.Config()).ComputeWithdrawal(current).Display()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total growth:        %s\n", d.TotalGrowth)
			fmt.Fprintf(out, "Withdrawable amount: %s\n", d.WithdrawableAmount)
			return nil
		},
	}
}
