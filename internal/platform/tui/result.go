package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/runtime-zero/internal/sim"
)

var rankColors = map[sim.Rank]lipgloss.Color{
	sim.RankS: lipgloss.Color("11"),
	sim.RankA: lipgloss.Color("10"),
	sim.RankB: lipgloss.Color("12"),
	sim.RankC: lipgloss.Color("245"),
}

// reasonText describes how a run ended.
func reasonText(r sim.Reason) string {
	switch r {
	case sim.ReasonGoal:
		return "STAGE CLEAR"
	case sim.ReasonNullPointer:
		return "NULL POINTER - fell out of the world"
	case sim.ReasonGlitch:
		return "GLITCH - process terminated"
	case sim.ReasonExit:
		return "RUN ABANDONED"
	default:
		return string(r)
	}
}

// renderResult renders the result screen of a finished run.
func renderResult(res sim.RunResult, title string, best int, replayPath string, err error, width, height int) string {
	rankStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(rankColors[res.Rank]).
		Padding(0, 2).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(rankColors[res.Rank])

	headStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var stats strings.Builder
	fmt.Fprintf(&stats, "%-10s %s\n", "Time", formatMillis(res.ElapsedMs))
	fmt.Fprintf(&stats, "%-10s %d / %d\n", "Gems", res.Gems, res.GemsTotal)
	fmt.Fprintf(&stats, "%-10s %d\n", "Cycles", res.Cycles)
	fmt.Fprintf(&stats, "%-10s %d\n", "Hits", res.Hits)
	fmt.Fprintf(&stats, "%-10s %d\n", "Backups", res.BackupsUsed)
	fmt.Fprintf(&stats, "%-10s %s", "Difficulty", res.Difficulty.Title())
	if res.Mirror {
		stats.WriteString(" (mirror)")
	}
	stats.WriteString("\n")
	fmt.Fprintf(&stats, "%-10s %d", "Score", res.Score)
	if best > 0 {
		fmt.Fprintf(&stats, "   best %d", best)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Center,
		rankStyle.Render(string(res.Rank)),
		"   ",
		stats.String(),
	)

	lines := []string{
		headStyle.Render(title),
		headStyle.Render(reasonText(res.Reason)),
		"",
		body,
		"",
	}
	if replayPath != "" {
		lines = append(lines, dimStyle.Render("replay saved to "+replayPath))
	}
	if err != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("Error: "+err.Error()))
	}
	lines = append(lines, dimStyle.Render("r: retry  |  enter/esc: back  |  q: quit"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 3).
		Render(lipgloss.JoinVertical(lipgloss.Center, lines...))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
