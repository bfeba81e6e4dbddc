package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/runtime-zero/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Verify or inspect recorded runs",
	Long: `Replays are written by 'play --record <dir>'. A replay stores the
run configuration and every simulation step, so re-simulating it must
reproduce the recorded final state exactly.

Examples:
  runtimezero replay show ./replays/stage-1_standard_1a2b3c4d.rzr
  runtimezero replay verify ./replays/stage-1_standard_1a2b3c4d.rzr`,
}

var replayShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a replay's header",
	Args:  cobra.ExactArgs(1),
	Run:   runReplayShow,
}

var replayVerifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Re-simulate a replay and check its final state",
	Args:  cobra.ExactArgs(1),
	Run:   runReplayVerify,
}

func init() {
	replayCmd.AddCommand(replayShowCmd, replayVerifyCmd)
}

func runReplayShow(_ *cobra.Command, args []string) {
	rec, err := replay.Load(args[0])
	if err != nil {
		fail("%v", err)
	}

	var totalMs float64
	for _, f := range rec.Frames {
		totalMs += f.DtMs
	}

	h := rec.Header
	fmt.Printf("Stage:       %s\n", h.StageID)
	fmt.Printf("Difficulty:  %s\n", h.Difficulty.Title())
	fmt.Printf("Mirror:      %v\n", h.Mirror)
	fmt.Printf("Recorded:    %s\n", h.RecordedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Frames:      %d (%s of input)\n", len(rec.Frames), formatMillis(totalMs))
	fmt.Printf("Final tick:  %d\n", rec.FinalTick)
	fmt.Printf("Final hash:  %016x\n", rec.FinalHash)
	if rec.Reason != "" {
		fmt.Printf("Ended by:    %s\n", rec.Reason)
	}
}

func runReplayVerify(_ *cobra.Command, args []string) {
	rec, err := replay.Load(args[0])
	if err != nil {
		fail("%v", err)
	}

	def, err := loadCatalog().Get(rec.Header.StageID)
	if err != nil {
		fail("%v", err)
	}

	snap, err := replay.Verify(rec, &def)
	if errors.Is(err, replay.ErrMismatch) {
		fmt.Fprintf(os.Stderr, "MISMATCH: %v\n", err)
		os.Exit(2)
	}
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("OK: %s replayed %d frames to tick %d", def.Title(), len(rec.Frames), snap.Tick)
	if snap.Reason != "" {
		fmt.Printf(", ended by %s", snap.Reason)
	}
	fmt.Println()
}
