package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/runtime-zero/internal/core"
)

// DefaultHoldWindow is how long a key counts as held after its last key
// event. Terminals report presses and auto-repeats but no releases.
const DefaultHoldWindow = 220 * time.Millisecond

// PlayKeyMap defines the key bindings used while a stage is running.
type PlayKeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Jump    key.Binding
	Run     key.Binding
	Fire    key.Binding
	Pause   key.Binding
	Restart key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Jump, k.Run, k.Down, k.Fire, k.Pause, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Jump, k.Run, k.Fire},
		{k.Pause, k.Restart, k.Back, k.Quit},
	}
}

// DefaultPlayKeyMap returns default key bindings.
func DefaultPlayKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "jump/swim"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "slide/pound"),
		),
		Jump: key.NewBinding(
			key.WithKeys(" ", "k"),
			key.WithHelp("space", "jump"),
		),
		Run: key.NewBinding(
			key.WithKeys("shift+left", "shift+right", "x", "X"),
			key.WithHelp("x", "run"),
		),
		Fire: key.NewBinding(
			key.WithKeys("f", "c"),
			key.WithHelp("f", "fire"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Actions translates a key message to the game actions it drives.
// Up also jumps, and shifted arrows also run.
func (k PlayKeyMap) Actions(msg tea.KeyMsg) []core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return []core.Action{core.ActionQuit}
	case key.Matches(msg, k.Back):
		return []core.Action{core.ActionBack}
	case key.Matches(msg, k.Pause):
		return []core.Action{core.ActionPause}
	case key.Matches(msg, k.Restart):
		return []core.Action{core.ActionRestart}
	case key.Matches(msg, k.Run):
		switch msg.String() {
		case "shift+left":
			return []core.Action{core.ActionRun, core.ActionLeft}
		case "shift+right":
			return []core.Action{core.ActionRun, core.ActionRight}
		}
		return []core.Action{core.ActionRun}
	case key.Matches(msg, k.Left):
		return []core.Action{core.ActionLeft}
	case key.Matches(msg, k.Right):
		return []core.Action{core.ActionRight}
	case key.Matches(msg, k.Up):
		return []core.Action{core.ActionUp, core.ActionJump}
	case key.Matches(msg, k.Down):
		return []core.Action{core.ActionDown}
	case key.Matches(msg, k.Jump):
		return []core.Action{core.ActionJump}
	case key.Matches(msg, k.Fire):
		return []core.Action{core.ActionFire}
	}
	return nil
}

// HoldTracker turns a stream of key events into held levels and press
// edges. An action stays held for the hold window after its most recent
// key event; a key event for an action that is not held is a press edge.
type HoldTracker struct {
	window  time.Duration
	until   map[core.Action]time.Time
	pending map[core.Action]bool
}

// NewHoldTracker creates a tracker. A non-positive window uses
// DefaultHoldWindow.
func NewHoldTracker(window time.Duration) *HoldTracker {
	if window <= 0 {
		window = DefaultHoldWindow
	}
	return &HoldTracker{
		window:  window,
		until:   make(map[core.Action]time.Time),
		pending: make(map[core.Action]bool),
	}
}

// Observe records a key event for a at time now.
func (h *HoldTracker) Observe(a core.Action, now time.Time) {
	if !h.held(a, now) {
		h.pending[a] = true
	}
	h.until[a] = now.Add(h.window)
}

// Release drops a hold immediately.
func (h *HoldTracker) Release(a core.Action) {
	delete(h.until, a)
}

// Reset forgets every hold and pending edge.
func (h *HoldTracker) Reset() {
	clear(h.until)
	clear(h.pending)
}

// Frame builds the input frame for a tick at time now and consumes the
// pending press edges.
func (h *HoldTracker) Frame(now time.Time) core.InputFrame {
	f := core.NewInputFrame()
	for a := range h.pending {
		f.Press(a)
	}
	clear(h.pending)
	for a := range h.until {
		if h.held(a, now) {
			f.Hold(a)
		} else {
			delete(h.until, a)
		}
	}
	return f
}

func (h *HoldTracker) held(a core.Action, now time.Time) bool {
	until, ok := h.until[a]
	return ok && now.Before(until)
}

// MenuKeyMap defines the key bindings for the stage select screen.
type MenuKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Difficulty key.Binding
	Mirror     key.Binding
	Scores     key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Difficulty, k.Mirror, k.Scores, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		Difficulty: key.NewBinding(
			key.WithKeys("d", "right"),
			key.WithHelp("d", "difficulty"),
		),
		Mirror: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mirror"),
		),
		Scores: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scores"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}
