package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradedash/config"
	"github.com/rustyeddy/tradedash/dashboard"
	"github.com/rustyeddy/tradedash/internal/logging"
	"github.com/rustyeddy/tradedash/journal"
	"github.com/rustyeddy/tradedash/kv"
	"github.com/rustyeddy/tradedash/market"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// RootConfig carries the global flags and the resources opened for a single
// command run.
type RootConfig struct {
	ConfigPath string
	EnvFile    string
	Store      string
	DBPath     string
	RedisAddr  string
	LogLevel   string
	Instrument string

	cfg *config.Config
	log zerolog.Logger

	db      *sql.DB
	store   kv.Store
	journal *journal.SQLite
	reg     *dashboard.Registry
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "tradedash",
		Short:         "Daily trade planning for XAUUSD and V75",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.EnvFile, "env-file", ".env", "Environment file loaded before the config")
	cmd.PersistentFlags().StringVar(&rc.Store, "store", "", "Store backend: sqlite|redis|memory")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "", "SQLite database for the store and journal")
	cmd.PersistentFlags().StringVar(&rc.RedisAddr, "redis", "", "Redis address for the redis store")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().StringVarP(&rc.Instrument, "instrument", "i", "", "Instrument: XAUUSD or V75")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return rc.load(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return rc.Close()
	}

	cmd.AddCommand(
		newShowCmd(rc),
		newBalanceCmd(rc),
		newPlanCmd(rc),
		newLevelsCmd(rc),
		newCompoundCmd(rc),
		newWithdrawCmd(rc),
		newClockCmd(rc),
		newServeCmd(rc),
		newHistoryCmd(rc),
		newConfigCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tradedash (%s)\n", Version)
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// load resolves configuration in order: defaults, env file, config file,
// TRADEDASH_* variables, flags.
func (rc *RootConfig) load(cmd *cobra.Command) error {
	if err := config.LoadEnv(rc.EnvFile); err != nil {
		return err
	}

	cfg := config.Default()
	if rc.ConfigPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(rc.ConfigPath); err != nil {
			return err
		}
	}
	cfg.ApplyEnv()

	if rc.Store != "" {
		cfg.Store.Type = rc.Store
	}
	if rc.DBPath != "" {
		cfg.Store.DBPath = rc.DBPath
	}
	if rc.RedisAddr != "" {
		cfg.Store.Redis.Address = rc.RedisAddr
	}
	if rc.LogLevel != "" {
		cfg.Log.Level = rc.LogLevel
	}
	if rc.Instrument != "" {
		cfg.Instrument = rc.Instrument
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	rc.cfg = cfg
	rc.log = logging.New(cfg.Log.Level, cmd.ErrOrStderr())
	return nil
}

// Config is the resolved configuration. Only valid after the root
// PersistentPreRunE has run.
func (rc *RootConfig) Config() *config.Config {
	if rc.cfg == nil {
		return config.Default()
	}
	return rc.cfg
}

func (rc *RootConfig) instrument() market.Instrument {
	inst, err := market.Parse(rc.Config().Instrument)
	if err != nil {
		return market.XAUUSD
	}
	return inst
}

// open connects the configured store. The sqlite backend shares one handle
// between the key-value store and the balance journal.
func (rc *RootConfig) open(ctx context.Context) error {
	if rc.store != nil {
		return nil
	}
	cfg := rc.Config()

	switch cfg.Store.Type {
	case "sqlite":
		db, err := sql.Open("sqlite3", cfg.Store.DBPath)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		store, err := kv.NewSQLiteFromDB(db)
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("open store: %w", err)
		}
		j, err := journal.NewSQLiteFromDB(db)
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("open journal: %w", err)
		}
		rc.db, rc.store, rc.journal = db, store, j
	case "redis":
		store, err := kv.NewRedis(ctx, cfg.Store.Redis)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		rc.store = store
	default:
		rc.store = kv.NewMemory()
	}

	rc.log.Debug().Str("store", cfg.Store.Type).Msg("store opened")
	return nil
}

// Registry opens the store on first use and returns the shared controllers.
func (rc *RootConfig) Registry(ctx context.Context) (*dashboard.Registry, error) {
	if rc.reg != nil {
		return rc.reg, nil
	}
	if err := rc.open(ctx); err != nil {
		return nil, err
	}
	cfg := rc.Config()

	opts := dashboard.Options{
		Store:    rc.store,
		Engine:   calcEngine(cfg),
		Logger:   rc.log,
		Location: cfg.Location(),
	}
	if rc.journal != nil {
		opts.Journal = rc.journal
	}
	rc.reg = dashboard.NewRegistry(opts)
	return rc.reg, nil
}

func (rc *RootConfig) controller(ctx context.Context) (*dashboard.Controller, error) {
	reg, err := rc.Registry(ctx)
	if err != nil {
		return nil, err
	}
	return reg.Get(ctx, rc.instrument())
}

func (rc *RootConfig) Close() error {
	var errs []error
	if rc.store != nil {
		errs = append(errs, rc.store.Close())
	}
	if rc.db != nil {
		errs = append(errs, rc.db.Close())
	}
	rc.db, rc.store, rc.journal, rc.reg = nil, nil, nil, nil
	return errors.Join(errs...)
}
