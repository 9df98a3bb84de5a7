// Package cli implements the gravel command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dukaforge/gravel/internal/paths"
	"github.com/dukaforge/gravel/internal/sqlite"
	"github.com/dukaforge/gravel/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	verbose   bool
}

var flags rootFlags

// NewRootCmd creates the top-level "gravel" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gravel",
		Short: "An embedded graph-of-values store",
		Long: "Gravel stores typed scalar facts as addressable records and relates\n" +
			"them through directed, optionally-labeled links, forming a property graph.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .gravel-db)")
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "verbose logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newSetCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newFindCmd())
	root.AddCommand(newLinkCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps a command error to the process exit code: store and
// migration failures exit 2, anything else (bad input, missing records)
// exits 1.
func exitCode(err error) int {
	switch {
	case errors.Is(err, types.ErrMigrationFailed),
		errors.Is(err, types.ErrStoreDetached),
		errors.Is(err, types.ErrAlreadyAttached):
		return exitSysError
	default:
		return exitUserError
	}
}

// newLogger builds the CLI logger. Verbose mode uses the human-oriented
// development encoder at debug level.
func newLogger() *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if flags.verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		logger, err = cfg.Build()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// storeConfig resolves directories and the config file into the Config
// passed to the backend.
func storeConfig() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("load config: %w", err)
	}
	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}, nil
}

// openStore attaches a backend for the duration of one command. The caller
// must Detach it.
func openStore() (*sqlite.Backend, error) {
	cfg, err := storeConfig()
	if err != nil {
		return nil, err
	}
	backend := sqlite.NewBackend(newLogger())
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}
	return backend, nil
}
