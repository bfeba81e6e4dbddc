package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/runtime-zero/internal/config"
)

var flagTuningDifficulty string

var tuningCmd = &cobra.Command{
	Use:   "tuning",
	Short: "Inspect and override movement tuning",
	Long: `Movement tuning is layered: built-in defaults, the tuning file
(--config or ~/.runtimezero/configs/tuning.yaml), the difficulty layer
and finally your stored overrides. Stored overrides are clamped to each
field's range and snapped to its step.

Examples:
  runtimezero tuning show
  runtimezero tuning show --difficulty mean
  runtimezero tuning set coyote_time_ms 120
  runtimezero tuning reset --difficulty chill
  runtimezero tuning defaults > tuning.yaml`,
}

var tuningShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved tuning for a difficulty",
	Args:  cobra.NoArgs,
	Run:   runTuningShow,
}

var tuningSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store an override for a tuning field",
	Args:  cobra.ExactArgs(2),
	Run:   runTuningSet,
}

var tuningResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every stored override for a difficulty",
	Args:  cobra.NoArgs,
	Run:   runTuningReset,
}

var tuningDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the built-in tuning file",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		os.Stdout.Write(config.DefaultTuningYAML())
	},
}

func init() {
	tuningCmd.PersistentFlags().StringVar(&flagTuningDifficulty, "difficulty", "standard", "Difficulty: chill, standard, mean")
	tuningCmd.AddCommand(tuningShowCmd, tuningSetCmd, tuningResetCmd, tuningDefaultsCmd)
}

func runTuningShow(_ *cobra.Command, _ []string) {
	d := parseDifficulty(flagTuningDifficulty)

	file, err := config.LoadTuning(flagConfig)
	if err != nil {
		fail("could not load tuning: %v", err)
	}
	store := openStore(true)
	defer store.Close()

	user, err := store.Overrides(d)
	if err != nil {
		fail("reading overrides: %v", err)
	}
	resolved := config.NewResolver(file, d, user).Tuning()

	fmt.Printf("Movement tuning - %s\n", d.Title())
	fmt.Println()
	fmt.Printf("  %-24s  %-22s  %-9s  %s\n", "Key", "Field", "Value", "Range")
	fmt.Printf("  %-24s  %-22s  %-9s  %s\n", "---", "-----", "-----", "-----")
	for _, f := range config.TuningFields {
		v, _ := resolved.Get(f.Key)
		mark := ""
		if _, ok := user[f.Key]; ok {
			mark = " *"
		}
		fmt.Printf("  %-24s  %-22s  %-9s  %g..%g step %g\n", f.Key, f.Label, strconv.FormatFloat(v, 'f', -1, 64)+mark, f.Min, f.Max, f.Step)
	}
	if len(user) > 0 {
		fmt.Println()
		fmt.Println("* stored override")
	}
}

func runTuningSet(_ *cobra.Command, args []string) {
	d := parseDifficulty(flagTuningDifficulty)
	key := args[0]

	if err := config.ValidateOverrideKey(key); err != nil {
		fail("%v", err)
	}
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fail("invalid value %q: %v", args[1], err)
	}

	store := openStore(true)
	defer store.Close()

	stored, err := store.SaveOverride(d, key, v)
	if err != nil {
		fail("saving override: %v", err)
	}
	if stored != v {
		fmt.Printf("%s = %g for %s (adjusted from %g)\n", key, stored, d.Title(), v)
		return
	}
	fmt.Printf("%s = %g for %s\n", key, stored, d.Title())
}

func runTuningReset(_ *cobra.Command, _ []string) {
	d := parseDifficulty(flagTuningDifficulty)

	store := openStore(true)
	defer store.Close()

	if err := store.ResetOverrides(d); err != nil {
		fail("resetting overrides: %v", err)
	}
	fmt.Printf("Overrides for %s cleared.\n", d.Title())
}
