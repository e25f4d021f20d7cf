package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amonks/tasklab/actions"
	"github.com/amonks/tasklab/catalog"
	"github.com/amonks/tasklab/internal/config"
	"github.com/amonks/tasklab/internal/logging"
	"github.com/amonks/tasklab/server"
	"github.com/amonks/tasklab/task"
	"github.com/amonks/tasklab/viewcache"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the task server and web UI",
	Long: `Start the task server and web UI.

The store lives in memory and is discarded when the server stops. Settings come
from tasklab.toml, ~/.config/tasklab/config.toml and TASKLAB_* environment
variables; flags override all of them.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr         string
	serveLogLevel     string
	serveLogFormat    string
	serveSeedTasks    int
	serveSeedItems    int
	serveLooseUpdates bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address or port")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&serveLogFormat, "log-format", "", "Log format (console, json)")
	serveCmd.Flags().IntVar(&serveSeedTasks, "seed-tasks", 0, "Number of demo tasks to load at startup")
	serveCmd.Flags().IntVar(&serveSeedItems, "seed-items", 0, "Number of catalog items to generate (0 uses the default)")
	serveCmd.Flags().BoolVar(&serveLooseUpdates, "loose-updates", false, "Skip re-validating tasks on update")
}

// applyServeFlags overrides cfg with the flags that were set.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = serveLogLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = serveLogFormat
	}
	if cmd.Flags().Changed("seed-tasks") {
		cfg.Store.SeedTasks = serveSeedTasks
	}
	if cmd.Flags().Changed("seed-items") {
		cfg.Store.SeedItems = serveSeedItems
	}
	if cmd.Flags().Changed("loose-updates") {
		cfg.Store.LooseUpdates = serveLooseUpdates
	}
	return cfg.Validate()
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyServeFlags(cmd, cfg); err != nil {
		return err
	}
	addr, err := server.ResolveAddr(cfg.Server.Port, serveAddr)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	now := time.Now()
	views := viewcache.New(logger.Named("views"))
	store := task.NewStore(task.Options{
		Invalidator:  views,
		Logger:       logger.Named("store"),
		LooseUpdates: cfg.Store.LooseUpdates,
	})
	defer store.Close()

	if cfg.Store.SeedTasks > 0 {
		if err := store.Seed(task.MockTasks(cfg.Store.SeedTasks, now)); err != nil {
			return fmt.Errorf("seed tasks: %w", err)
		}
	}

	itemCount := cfg.Store.SeedItems
	if itemCount == 0 {
		itemCount = catalog.DefaultCount
	}

	srv, err := server.NewServer(server.Options{
		Actions: actions.New(store, logger.Named("actions")),
		Items:   catalog.Generate(itemCount, now),
		Views:   views,
		Logger:  logger.Named("server"),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting tasklab",
		zap.String("version", buildVersion),
		zap.Int("tasks", store.Len()),
		zap.Int("items", itemCount),
		zap.Bool("loose_updates", cfg.Store.LooseUpdates))
	return srv.Serve(ctx, addr)
}
