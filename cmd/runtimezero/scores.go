package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/runtime-zero/internal/sim"
)

var (
	flagScoresLimit  int
	flagScoresRecent bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [stage]",
	Short: "Show the run log",
	Long: `Without a stage, shows a per-stage summary: runs, clears, best score
and best clear time. With a stage, shows its best runs.

Examples:
  runtimezero scores
  runtimezero scores stage-1
  runtimezero scores stage-1 --limit 25
  runtimezero scores --recent`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresRecent, "recent", false, "Show the most recent runs across all stages")
}

func runScores(_ *cobra.Command, args []string) {
	catalog := loadCatalog()
	store := openStore(true)
	defer store.Close()

	switch {
	case flagScoresRecent:
		runs, err := store.RecentRuns(flagScoresLimit)
		if err != nil {
			fail("retrieving runs: %v", err)
		}
		fmt.Println("Recent runs")
		fmt.Println()
		printRuns(runs, true)

	case len(args) == 1:
		stageID := args[0]
		def, err := catalog.Get(stageID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: unknown stage %q\n", stageID)
			fmt.Fprintln(os.Stderr, "Run 'runtimezero stages' to see available stages.")
			os.Exit(1)
		}

		runs, err := store.TopRuns(stageID, flagScoresLimit)
		if err != nil {
			fail("retrieving runs: %v", err)
		}
		fmt.Printf("Best runs - %s\n", def.Title())
		fmt.Println()
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			fmt.Println()
			fmt.Printf("Play 'runtimezero play %s' to log the first run!\n", stageID)
			return
		}
		printRuns(runs, false)

		if best, err := store.BestScore(stageID); err == nil {
			fmt.Println()
			fmt.Printf("Best: %d\n", best)
		}

	default:
		stats, err := store.AllStageStats()
		if err != nil {
			fail("retrieving stats: %v", err)
		}
		fmt.Println("Run log")
		fmt.Println()
		fmt.Printf("  %-10s  %-22s  %-5s  %-6s  %-5s  %s\n", "Stage", "Name", "Runs", "Clears", "Best", "Best time")
		fmt.Printf("  %-10s  %-22s  %-5s  %-6s  %-5s  %s\n", "-----", "----", "----", "------", "----", "---------")
		for _, st := range catalog.List() {
			s, ok := stats[st.ID]
			if !ok {
				fmt.Printf("  %-10s  %-22s  %-5d  %-6d  %-5s  %s\n", st.ID, st.Name, 0, 0, "--", "--")
				continue
			}
			bestTime := "--"
			if s.BestTimeMs > 0 {
				bestTime = formatMillis(s.BestTimeMs)
			}
			fmt.Printf("  %-10s  %-22s  %-5d  %-6d  %-5d  %s\n", st.ID, st.Name, s.Runs, s.Clears, s.BestScore, bestTime)
		}
	}
}

func printRuns(runs []sim.RunResult, withStage bool) {
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	if withStage {
		fmt.Printf("  %-4s  %-10s  ", "#", "Stage")
	} else {
		fmt.Printf("  %-4s  ", "Rank")
	}
	fmt.Printf("%-6s  %-4s  %-8s  %-5s  %-12s  %-12s  %s\n", "Score", "Rank", "Time", "Gems", "Result", "Mode", "Date")

	for i, r := range runs {
		if withStage {
			fmt.Printf("  %-4d  %-10s  ", i+1, r.StageID)
		} else {
			fmt.Printf("  %-4d  ", i+1)
		}
		mode := r.Difficulty.Title()
		if r.Mirror {
			mode += " mirror"
		}
		fmt.Printf("%-6d  %-4s  %-8s  %-5s  %-12s  %-12s  %s\n",
			r.Score, r.Rank, formatMillis(r.ElapsedMs), fmt.Sprintf("%d/%d", r.Gems, r.GemsTotal),
			r.Reason, mode, r.FinishedAt.Local().Format("2006-01-02 15:04"))
	}
}
