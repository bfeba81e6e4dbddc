package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/runtime-zero/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the stage select",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to play a stage.
After a run ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Play stage
  D            - Cycle difficulty
  M            - Toggle mirror mode
  Tab          - Run log
  Q            - Quit

Examples:
  runtimezero menu
  runtimezero menu --fps 30
  runtimezero menu --db ./runs.db`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().BoolVar(&flagFixedStep, "fixed", false, "Advance the simulation in fixed steps")
	menuCmd.Flags().StringVar(&flagRecordDir, "record", "", "Directory to write a replay of every run to")
}

func runMenu(_ *cobra.Command, _ []string) {
	app, cleanup := newApp(true, terminalConfig())
	defer cleanup()
	app.RecordDir = flagRecordDir

	var last tui.RunRequest

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(app, last)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Keep the config in step with any resize
		if menuResult.Width > 0 && menuResult.Height > 0 {
			app.Config.ScreenW, app.Config.ScreenH = menuResult.Width, menuResult.Height
		}
		last = menuResult.Request

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(app.Catalog, app.Store, app.Config.ScreenW, app.Config.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		if last.StageID == "" {
			break
		}

		res, err := tui.Run(app, last)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running stage: %v\n", err)
			continue
		}
		app.Logger.Info("run ended", "stage", res.StageID, "reason", res.Reason, "score", res.Score)
	}
}
