// Package cli implements the printquote command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/PrintQuote/internal/engine"
	"github.com/piwi3910/PrintQuote/internal/logging"
	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/piwi3910/PrintQuote/internal/project"
)

// Version information, set by the main package.
var (
	Version = "dev"
	Commit  = "unknown"
)

// app carries the state shared by every command of one invocation.
type app struct {
	verbose       bool
	configPath    string
	inventoryPath string

	log    *zap.Logger
	config model.AppConfig
	memo   *engine.Memo
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree. Each call returns a fresh tree, so
// flags never leak between invocations.
func NewRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "printquote",
		Short: "Print layout and cost estimator",
		Long: `printquote lays pieces out on press sheets, picks the cheapest offset
cut size or digital sheet arrangement, and prices whole quotes.

Quotes are described in YAML or JSON job files. Paper prices come from the
inventory at ~/.printquote/inventory.json unless --inventory is given.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(a.verbose)
			if err != nil {
				return err
			}
			a.log = logger

			if a.configPath == "" {
				a.configPath = project.DefaultConfigPath()
			}
			cfg, err := project.LoadAppConfig(a.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.config = cfg
			if cfg.MemoMaxEntries > 0 {
				a.memo = engine.NewMemo(cfg.MemoMaxEntries)
			}
			a.log.Debug("config loaded", zap.String("path", a.configPath))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.printquote/config.json)")
	root.PersistentFlags().StringVar(&a.inventoryPath, "inventory", "", "Inventory file (default ~/.printquote/inventory.json)")

	root.AddCommand(
		newLayoutCmd(a),
		newEstimateCmd(a),
		newCompareCmd(a),
		newCatalogCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "printquote %s (%s)\n", Version, Commit)
		},
	}
}

// loadInventory reads the inventory from --inventory or the default path.
func (a *app) loadInventory() (model.Inventory, string, error) {
	path := a.inventoryPath
	if path == "" {
		p, err := project.DefaultInventoryPath()
		if err != nil {
			return model.DefaultInventory(), "", err
		}
		path = p
	}
	inv, err := project.LoadInventory(path)
	if err != nil {
		return inv, path, fmt.Errorf("failed to load inventory: %w", err)
	}
	return inv, path, nil
}

func (a *app) estimator(settings model.Settings, inv model.Inventory) *engine.Estimator {
	return engine.New(settings, inv.Candidates, inv.PriceLookup()).
		WithMemo(a.memo).
		WithLogger(a.log)
}
