// Package tui provides the Bubble Tea presenter for runtime-zero.
// It handles the terminal UI loop, input mapping, stage select, the play
// view and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// frameMillis returns the elapsed wall time between two ticks. The first
// tick of a run uses the nominal interval.
func frameMillis(prev, now time.Time, tickRate int) float64 {
	if prev.IsZero() || !now.After(prev) {
		if tickRate <= 0 {
			tickRate = 60
		}
		return 1000 / float64(tickRate)
	}
	return float64(now.Sub(prev)) / float64(time.Millisecond)
}
