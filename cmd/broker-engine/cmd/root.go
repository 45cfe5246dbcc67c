// Package cmd implements the broker-engine command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/broker-engine/internal/config"
	"github.com/iwvelando/broker-engine/internal/engine"
	"github.com/iwvelando/broker-engine/internal/logging"
	"github.com/iwvelando/broker-engine/internal/store"
	"github.com/iwvelando/broker-engine/pkg/constants"
	"github.com/iwvelando/broker-engine/pkg/currency"
	"github.com/iwvelando/broker-engine/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries state shared by every command once the root has run.
type app struct {
	version      string
	configPath   string
	logLevel     string
	outputFormat string

	conf   *config.Configuration
	logger *zap.Logger
}

// Execute runs the root command.
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{version: version}

	root := &cobra.Command{
		Use:   "broker-engine",
		Short: "Pricing, financing and conversion calculators for vehicle brokerage",
		Long: `broker-engine prices cross-border used-vehicle deals from Canada to Africa.

It provides:
  - currency conversion against a CAD rate table
  - loan amortization and vehicle financing
  - financing pre-qualification
  - shipping and landed-cost estimates
  - broker and dealer commissions
  - a JSON HTTP API and a journal of computed quotes`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to configuration file (default "+constants.DefaultConfigFile+" if present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.outputFormat, "output-format", "", "type of output override: pretty, csv")

	root.AddCommand(
		newServeCmd(a),
		newAmortizeCmd(a),
		newFinanceCmd(a),
		newQualifyCmd(a),
		newConvertCmd(a),
		newRatesCmd(a),
		newShipCmd(a),
		newCommissionCmd(a),
		newQuotesCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.configPath
	if path == "" {
		if _, err := os.Stat(constants.DefaultConfigFile); err == nil {
			path = constants.DefaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", constants.DefaultConfigFile, err)
		}
	}

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %q: %w", path, err)
	}
	if a.outputFormat != "" {
		conf.Output.Format = a.outputFormat
	}
	if err := validation.ValidateOutputFormat(conf.Output.Format); err != nil {
		return err
	}

	logger, err := logging.New(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	warnings, err := conf.Validate()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, warning := range warnings {
		logger.Debug("Configuration warning: "+warning,
			zap.String("op", "cmd.setup"),
		)
	}

	a.conf = conf
	a.logger = logger
	return nil
}

func (a *app) rates() currency.Table {
	if a.conf.Currency.StrictCodes {
		return currency.DefaultTable.WithPolicy(currency.Strict)
	}
	return currency.DefaultTable
}

// openStore opens the quote journal, or returns nil when it is disabled.
func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	if a.conf.Storage.DBPath == "" {
		return nil, nil
	}
	s, err := store.Open(ctx, a.logger, a.conf.Storage.DBPath, a.conf.Storage.Migrate)
	if err != nil {
		return nil, fmt.Errorf("failed to open quote journal: %w", err)
	}
	return s, nil
}

// engine builds a calculator engine. With save set, quotes are journaled and
// the returned close function releases the journal.
func (a *app) engine(ctx context.Context, save bool) (*engine.Engine, func(), error) {
	if !save {
		return engine.New(a.logger, a.rates(), nil), func() {}, nil
	}
	s, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if s == nil {
		return engine.New(a.logger, a.rates(), nil), func() {}, nil
	}
	return engine.New(a.logger, a.rates(), s), func() { _ = s.Close() }, nil
}
