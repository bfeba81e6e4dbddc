package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/runtime-zero/internal/core"
	"github.com/vovakirdan/runtime-zero/internal/platform/tui"
)

var (
	flagDifficulty string
	flagMirror     bool
	flagRecordDir  string
	flagFixedStep  bool

	flagHeadless  bool
	flagFrames    int
	flagEvery     int
	flagHold      string
	flagJumpEvery int
)

var playCmd = &cobra.Command{
	Use:   "play <stage>",
	Short: "Play a stage",
	Long: `Start playing the specified stage.

Controls:
  Left/Right, A/D   - Move
  Space, Up, W      - Jump (Up also swims)
  X, Shift+Arrow    - Run
  Down, S           - Slide on the ground, ground pound in the air
  F                 - Fire (once the compiler is collected)
  P                 - Pause
  R                 - Restart
  Esc               - Back
  Q/Ctrl+C          - Quit

Difficulty options:
  chill     - Slower enemies, more backups
  standard  - The intended experience
  mean      - Faster enemies, extra spawns, fewer backups

Examples:
  runtimezero play stage-1
  runtimezero play stage-2 --difficulty chill
  runtimezero play stage-5 --mirror
  runtimezero play stage-4 --record ./replays
  runtimezero play stage-1 --fixed --fps 30
  runtimezero play stage-1 --headless --hold right,run --jump-every 40 --every 60`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "standard", "Difficulty: chill, standard, mean")
	playCmd.Flags().BoolVar(&flagMirror, "mirror", false, "Play the stage mirrored left to right")
	playCmd.Flags().StringVar(&flagRecordDir, "record", "", "Directory to write a replay of the run to")
	playCmd.Flags().BoolVar(&flagFixedStep, "fixed", false, "Advance the simulation in fixed steps")
	playCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run a scripted input without the TUI and print JSON snapshots")
	playCmd.Flags().IntVar(&flagFrames, "frames", 600, "Headless: number of frames to simulate")
	playCmd.Flags().IntVar(&flagEvery, "every", 0, "Headless: print a snapshot every N frames (0 = final only)")
	playCmd.Flags().StringVar(&flagHold, "hold", "right", "Headless: comma-separated actions held every frame")
	playCmd.Flags().IntVar(&flagJumpEvery, "jump-every", 0, "Headless: press jump every N frames (0 = never)")
}

// terminalConfig returns a runtime config sized to the current terminal.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.FixedStep = flagFixedStep
	return cfg
}

func runPlay(_ *cobra.Command, args []string) {
	stageID := args[0]
	difficulty := parseDifficulty(flagDifficulty)

	if flagHeadless {
		runHeadless(tui.RunRequest{StageID: stageID, Difficulty: difficulty, Mirror: flagMirror})
		return
	}

	app, cleanup := newApp(true, terminalConfig())
	app.RecordDir = flagRecordDir

	// Check if stage exists
	if !app.Catalog.Exists(stageID) {
		cleanup()
		fmt.Fprintf(os.Stderr, "Error: unknown stage %q\n", stageID)
		fmt.Fprintln(os.Stderr, "Run 'runtimezero stages' to see available stages.")
		os.Exit(1)
	}

	res, runErr := tui.Run(app, tui.RunRequest{
		StageID:    stageID,
		Difficulty: difficulty,
		Mirror:     flagMirror,
	})
	cleanup()

	if runErr != nil {
		fail("running stage: %v", runErr)
	}
	if res.StageID == "" {
		return
	}

	if res.Success {
		fmt.Printf("%s cleared in %s - score %d, rank %s\n", res.StageName, formatMillis(res.ElapsedMs), res.Score, res.Rank)
	} else {
		fmt.Printf("%s: %s after %s - score %d\n", res.StageName, res.Reason, formatMillis(res.ElapsedMs), res.Score)
	}
}

var actionNames = map[string]core.Action{
	"left":  core.ActionLeft,
	"right": core.ActionRight,
	"up":    core.ActionUp,
	"down":  core.ActionDown,
	"jump":  core.ActionJump,
	"run":   core.ActionRun,
	"fire":  core.ActionFire,
}

func parseActions(list string) []core.Action {
	var out []core.Action
	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		a, ok := actionNames[name]
		if !ok {
			fail("unknown action %q (want left, right, up, down, jump, run or fire)", name)
		}
		out = append(out, a)
	}
	return out
}

// runHeadless drives a run with a scripted input at the nominal tick and
// prints snapshots as JSON lines. Headless runs are not stored.
func runHeadless(req tui.RunRequest) {
	rt := core.DefaultConfig()
	rt.TickRate = flagFPS
	rt.FixedStep = flagFixedStep

	app, cleanup := newApp(false, rt)
	defer cleanup()
	if app.Store != nil {
		app.Store.Close()
		app.Store = nil
	}
	app.RecordDir = flagRecordDir

	run, err := app.NewRun(req)
	if err != nil {
		cleanup()
		fail("%v", err)
	}

	held := parseActions(flagHold)
	enc := json.NewEncoder(os.Stdout)
	dt := rt.TickMillis()

	for frame := 1; frame <= flagFrames && !run.Sim.Finished(); frame++ {
		in := core.NewInputFrame()
		for _, a := range held {
			in.Hold(a)
		}
		if flagJumpEvery > 0 && frame%flagJumpEvery == 0 {
			in.Press(core.ActionJump)
		}
		run.Advance(in, dt)

		if flagEvery > 0 && frame%flagEvery == 0 {
			_ = enc.Encode(run.Sim.Snapshot())
		}
	}

	if !run.Sim.Finished() {
		run.Sim.Abandon()
	}
	_ = enc.Encode(run.Sim.Snapshot())

	if flagRecordDir != "" {
		path, err := run.SaveRecording(flagRecordDir)
		if err != nil {
			cleanup()
			fail("saving replay: %v", err)
		}
		fmt.Fprintf(os.Stderr, "replay written to %s\n", path)
	}
}
