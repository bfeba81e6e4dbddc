package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stagesCmd = &cobra.Command{
	Use:     "stages",
	Aliases: []string{"list"},
	Short:   "List all available stages",
	Long:    `Shows the built-in stages plus any loaded with --stages.`,
	Run:     runStages,
}

func runStages(_ *cobra.Command, _ []string) {
	stages := loadCatalog().List()

	if len(stages) == 0 {
		fmt.Println("No stages available.")
		return
	}

	fmt.Println("Available stages:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	maxNameLen := 4
	for _, st := range stages {
		maxIDLen = max(maxIDLen, len(st.ID))
		maxNameLen = max(maxNameLen, len(st.Name))
	}

	fmt.Printf("  %-*s  %-*s  %-8s  %-5s  %s\n", maxIDLen, "ID", maxNameLen, "Name", "Target", "Gems", "Gimmick")
	fmt.Printf("  %-*s  %-*s  %-8s  %-5s  %s\n", maxIDLen, "--", maxNameLen, "----", "------", "----", "-------")

	for _, st := range stages {
		fmt.Printf("  %-*s  %-*s  %-8s  %-5d  %s\n",
			maxIDLen, st.ID, maxNameLen, st.Name, formatMillis(st.TimeTargetMs), st.Gems, st.Gimmick)
	}

	fmt.Println()
	fmt.Println("Run 'runtimezero play <id>' to play a stage.")
}

// formatMillis renders a duration as m:ss.t.
func formatMillis(ms float64) string {
	if ms < 0 {
		ms = 0
	}
	total := int(ms / 100)
	return fmt.Sprintf("%d:%02d.%d", total/600, (total/10)%60, total%10)
}
