package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/runtime-zero/internal/core"
	"github.com/vovakirdan/runtime-zero/internal/sim"
)

// flashDuration is how long the last gameplay event stays on the HUD.
const flashDuration = 900 * time.Millisecond

// PlayModel is the Bubble Tea model for one stage: the live viewport and,
// once the run ends, the result screen.
type PlayModel struct {
	app    *App
	req    RunRequest
	run    *LiveRun
	keys   PlayKeyMap
	holds  *HoldTracker
	help   help.Model
	screen *core.Screen
	width  int
	height int

	lastTick   time.Time
	flash      string
	flashUntil time.Time

	result     *sim.RunResult
	best       int
	replayPath string
	err        error

	ticking    bool // a tick chain is in flight
	standalone bool // back quits the program instead of returning to a menu
	quitting   bool
	backToMenu bool
}

// NewPlayModel creates a play model for req. The run is built
// immediately so configuration errors surface before the first frame.
func NewPlayModel(app *App, req RunRequest) (PlayModel, error) {
	run, err := app.NewRun(req)
	if err != nil {
		return PlayModel{}, err
	}
	h := help.New()
	h.ShowAll = false

	w, ht := app.Config.ScreenW, app.Config.ScreenH
	return PlayModel{
		app:     app,
		req:     req,
		run:     run,
		keys:    DefaultPlayKeyMap(),
		holds:   NewHoldTracker(DefaultHoldWindow),
		help:    h,
		screen:  core.NewScreen(w, max(ht-1, 1)),
		width:   w,
		height:  ht,
		ticking: true,
	}, nil
}

// Init starts the tick loop.
func (m PlayModel) Init() tea.Cmd {
	return tickCmd(m.app.Config.TickRate)
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.result != nil {
			return m.handleResultKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input while the run is live.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := time.Now()
	for _, a := range m.keys.Actions(msg) {
		switch a {
		case core.ActionQuit:
			m.endRun()
			m.quitting = true
			return m, tea.Quit
		case core.ActionBack:
			m.endRun()
			return m.leave()
		case core.ActionRestart:
			m.endRun()
			return m.restart()
		default:
			m.holds.Observe(a, now)
		}
	}
	return m, nil
}

// handleResultKey processes keyboard input on the result screen.
func (m PlayModel) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Restart):
		return m.restart()
	case key.Matches(msg, m.keys.Back), msg.String() == "enter":
		return m.leave()
	}
	return m, nil
}

func (m PlayModel) leave() (tea.Model, tea.Cmd) {
	m.backToMenu = true
	if m.standalone {
		return m, tea.Quit
	}
	return m, nil
}

// handleTick advances the simulation by the wall time since the last tick.
func (m PlayModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.result != nil || m.backToMenu || m.quitting {
		m.ticking = false
		return m, nil
	}

	frameMs := frameMillis(m.lastTick, now, m.app.Config.TickRate)
	m.lastTick = now
	m.run.Advance(m.holds.Frame(now), frameMs)

	if evs := m.run.Events.Drain(); len(evs) > 0 {
		m.flash = string(evs[len(evs)-1])
		m.flashUntil = now.Add(flashDuration)
	}

	if m.run.Sim.Finished() {
		m.finish()
		m.ticking = false
		return m, nil
	}
	return m, tickCmd(m.app.Config.TickRate)
}

// endRun abandons a live run so it is still reported with reason exit.
func (m *PlayModel) endRun() {
	if m.run == nil || m.run.Sim.Finished() {
		return
	}
	m.run.Sim.Abandon()
	m.finish()
}

// finish captures the result and writes the replay if recording.
func (m *PlayModel) finish() {
	res, ok := m.run.Sim.Result()
	if !ok {
		return
	}
	m.result = &res
	if m.app.Store != nil {
		if best, err := m.app.Store.BestScore(res.StageID); err == nil {
			m.best = best
		}
	}
	if m.app.RecordDir != "" {
		path, err := m.run.SaveRecording(m.app.RecordDir)
		if err != nil {
			m.app.logger().Error("could not save replay", "error", err)
			m.err = err
		}
		m.replayPath = path
	}
}

func (m PlayModel) restart() (tea.Model, tea.Cmd) {
	run, err := m.app.NewRun(m.req)
	if err != nil {
		m.err = err
		m.backToMenu = true
		return m, nil
	}
	m.run = run
	m.holds.Reset()
	m.lastTick = time.Time{}
	m.result = nil
	m.replayPath = ""
	m.flash = ""
	m.err = nil
	if m.ticking {
		return m, nil
	}
	m.ticking = true
	return m, tickCmd(m.app.Config.TickRate)
}

// View renders the current state to a string for display.
func (m PlayModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	if m.result != nil {
		return renderResult(*m.result, m.run.Def.Title(), m.best, m.replayPath, m.err, m.width, m.height)
	}

	snap := m.run.Sim.Snapshot()
	def := m.run.Sim.Stage()

	m.screen.Clear()
	DrawHUD(m.screen, 0, def, snap, string(m.req.Difficulty))
	cam := NewCamera(def, snap.Player, m.screen.Width(), m.screen.Height()-1, 1)
	DrawWorld(m.screen, def, snap, cam)

	if snap.Status == sim.StatusPaused {
		m.screen.DrawTextCentered(m.screen.Height()/2, "  PAUSED - p to resume  ", core.ColorHUD)
	} else if m.flash != "" && time.Now().Before(m.flashUntil) {
		m.screen.DrawText(max(m.screen.Width()-len(m.flash)-2, 0), 0, m.flash, core.ColorHUD)
	}

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the stage select.
func (m PlayModel) BackToMenu() bool {
	return m.backToMenu
}

// Result returns the result of the last finished run, if any.
func (m PlayModel) Result() (sim.RunResult, bool) {
	if m.result == nil {
		return sim.RunResult{}, false
	}
	return *m.result, true
}

// Run starts a Bubble Tea program that plays a single stage.
func Run(app *App, req RunRequest) (sim.RunResult, error) {
	model, err := NewPlayModel(app, req)
	if err != nil {
		return sim.RunResult{}, err
	}
	model.standalone = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return sim.RunResult{}, err
	}

	m, ok := finalModel.(PlayModel)
	if !ok {
		return sim.RunResult{}, nil
	}
	if !m.run.Sim.Finished() {
		m.endRun()
	}
	res, _ := m.Result()
	return res, nil
}
