package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"trade-checker-go/internal/app"
	"trade-checker-go/internal/client"
	"trade-checker-go/internal/config"
	"trade-checker-go/internal/logger"
	"trade-checker-go/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	server     string
	json       bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "tradechecker",
		Short: "Record trade setups and check them against your history",
		Long: `Tradechecker records labeled trade observations (15 yes/no setup
parameters plus an outcome) per strategy, and looks up how the exact same
setup played out before.

Parameters are written as a compact 15-symbol vector, y/n per parameter,
grouped in threes for readability:

  tradechecker record -s "Strategy A" -p "yny nyy nnn yyy nny" -r Win
  tradechecker check  -s "Strategy A" -p "yny nyy nnn yyy nny"

By default commands work on the local store configured in config.yml. Pass
--server to talk to a running tradechecker server instead.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "./configs", "directory holding config.yml")
	root.PersistentFlags().StringVar(&opts.server, "server", "", "base URL of a tradechecker server (remote mode)")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print machine-readable JSON")

	root.AddCommand(
		newRecordCmd(opts),
		newCheckCmd(opts),
		newHistoryCmd(opts),
		newStatsCmd(opts),
		newListCmd(opts),
		newDeleteCmd(opts),
		newClearCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newParamsCmd(opts),
		newStrategiesCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// session is an open TradeChecker plus whatever must be released after use.
type session struct {
	checker service.TradeChecker
	cfg     config.Config
	log     *zap.Logger
	close   func()
}

// open loads configuration and connects to the local store or, with
// --server, to a remote server.
func (o *options) open() (*session, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if o.server != "" {
		cfg.Client.BaseURL = o.server
		return &session{
			checker: client.NewRestClient(cfg.Client, log),
			cfg:     cfg,
			log:     log,
			close:   func() { _ = log.Sync() },
		}, nil
	}

	a, err := app.New(cfg, log)
	if err != nil {
		return nil, err
	}
	return &session{
		checker: a.Service,
		cfg:     cfg,
		log:     log,
		close: func() {
			if err := a.Close(); err != nil {
				log.Warn("Failed to close storage", zap.Error(err))
			}
			_ = log.Sync()
		},
	}, nil
}

// run opens a session for the duration of fn.
func (o *options) run(fn func(s *session) error) error {
	s, err := o.open()
	if err != nil {
		return err
	}
	defer s.close()
	return fn(s)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
