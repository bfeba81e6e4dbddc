// runtimezero is a terminal platformer: eight hand-built stages, a tuned
// movement model and a local run log.
//
// Usage:
//
//	runtimezero stages             - List available stages
//	runtimezero play <stage>       - Play a stage
//	runtimezero menu               - Start the stage select
//	runtimezero serve              - Start SSH server for remote play
//	runtimezero scores [stage]     - Show the run log
//	runtimezero tuning ...         - Inspect or override movement tuning
//	runtimezero replay ...         - Verify or inspect recorded runs
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--db <path>          - Set database path (default: ~/.runtimezero/runs.db)
//	--config <path>      - Tuning YAML to use instead of the search path
//	--stages <dir>       - Extra stage YAML directory
//	--log-level <level>  - debug, info, warn or error
//	--log-file <path>    - Write logs to a file while the TUI is running
//	--collider <name>    - Collision backend: resolv (default) or aabb
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/runtime-zero/internal/config"
	"github.com/vovakirdan/runtime-zero/internal/core"
	"github.com/vovakirdan/runtime-zero/internal/physics"
	"github.com/vovakirdan/runtime-zero/internal/platform/tui"
	"github.com/vovakirdan/runtime-zero/internal/registry"
	"github.com/vovakirdan/runtime-zero/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagDBPath   string
	flagConfig   string
	flagStages   string
	flagLogLevel string
	flagLogFile  string
	flagCollider string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runtimezero",
	Short: "Runtime Zero - a platformer in your terminal",
	Long: `Runtime Zero is a side-scrolling platformer played in the terminal.
Clear stages, collect gems and chase S ranks.

Available commands:
  stages   - Show all available stages
  play     - Play a specific stage directly
  menu     - Interactive stage select
  serve    - Start SSH server for remote play
  scores   - View the run log
  tuning   - Inspect and override movement tuning
  replay   - Verify or inspect recorded runs

Examples:
  runtimezero stages
  runtimezero play stage-1
  runtimezero play stage-3 --difficulty mean --mirror
  runtimezero menu
  runtimezero serve --ssh :2222
  runtimezero scores stage-1`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.runtimezero/runs.db", "Path to run database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to tuning YAML")
	rootCmd.PersistentFlags().StringVar(&flagStages, "stages", "", "Directory with extra stage YAML files")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file used while the TUI is running")
	rootCmd.PersistentFlags().StringVar(&flagCollider, "collider", physics.BackendResolv, "Collision backend: resolv, aabb")

	// Add subcommands
	rootCmd.AddCommand(stagesCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(tuningCmd)
	rootCmd.AddCommand(replayCmd)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// newLogger builds the command logger. Interactive commands own the
// terminal, so they log to --log-file or nowhere.
func newLogger(interactive bool) (*log.Logger, func()) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fail("invalid --log-level %q", flagLogLevel)
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if interactive {
		w = io.Discard
		if flagLogFile != "" {
			f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				fail("could not open log file: %v", err)
			}
			w = f
			closeFn = func() { _ = f.Close() }
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "runtimezero",
		Level:           level,
	})
	return logger, closeFn
}

// loadCatalog loads the built-in stages plus --stages.
func loadCatalog() *registry.Catalog {
	catalog, err := registry.Load(flagStages)
	if err != nil {
		fail("could not load stages: %v", err)
	}
	return catalog
}

// openStore opens the run database. With required unset a failure is a
// warning and the returned store is nil.
func openStore(required bool) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		if required {
			fail("could not open run database: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Warning: could not open run database: %v\n", err)
		return nil
	}
	return store
}

// newApp wires catalog, tuning, store and logger for the TUI.
// The returned cleanup closes the store and the log file.
func newApp(interactive bool, cfg core.RuntimeConfig) (*tui.App, func()) {
	logger, closeLog := newLogger(interactive)

	tuning, err := config.LoadTuning(flagConfig)
	if err != nil {
		fail("could not load tuning: %v", err)
	}

	if _, err := physics.NewCollider(flagCollider); err != nil {
		fail("%v", err)
	}

	app := &tui.App{
		Catalog:  loadCatalog(),
		Store:    openStore(false),
		Tuning:   tuning,
		Logger:   logger,
		Config:   cfg,
		Collider: flagCollider,
	}
	return app, func() {
		if app.Store != nil {
			app.Store.Close()
		}
		closeLog()
	}
}

func parseDifficulty(s string) config.Difficulty {
	d, err := config.ParseDifficulty(s)
	if err != nil {
		fail("%v", err)
	}
	return d
}
