package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradedash/internal/api"
	"github.com/rustyeddy/tradedash/sched"
	"github.com/rustyeddy/tradedash/worldclock"
)

func newServeCmd(rc *RootConfig) *cobra.Command {
	var (
		addr    string
		origins []string
		release bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reg, err := rc.Registry(ctx)
			if err != nil {
				return err
			}
			// Load the configured instrument up front so its reminder runs.
			if _, err := reg.Get(ctx, rc.instrument()); err != nil {
				return err
			}
			reg.Start(ctx)

			if addr == "" {
				addr = rc.Config().Server.Addr
			}
			var history api.History
			if rc.journal != nil {
				history = rc.journal
			}
			srv := api.NewServer(api.ServerConfig{
				Addr:           addr,
				AllowedOrigins: origins,
				ProductionMode: release,
				Risk:           rc.Config().Risk,
				Location:       rc.Config().Location(),
			}, reg, history, rc.log)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().StringSliceVar(&origins, "cors", nil, "Allowed CORS origins")
	cmd.Flags().BoolVar(&release, "release", false, "Run gin in release mode")
	return cmd
}

func newClockCmd(rc *RootConfig) *cobra.Command {
	var (
		watch bool
		local bool
	)

	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Show the time in the major FX session centres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wc, err := worldclock.New(worldclock.Sessions, local)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			show := func(now time.Time) {
				for _, r := range wc.Readings(now) {
					state := "closed"
					if r.Open {
						state = doneStyle.Render("open")
					}
					fmt.Fprintf(out, "%-9s %s  %s  %s\n", r.Label, r.Time, r.Date, state)
				}
			}

			var clock sched.System
			show(clock.Now())
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			cancel := clock.Every(time.Second, func() {
				fmt.Fprintln(out)
				show(clock.Now())
			})
			defer cancel()
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Refresh every second until interrupted")
	cmd.Flags().BoolVar(&local, "local", true, "Include the local time zone")
	return cmd
}
