package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenPlay
	screenScores
)

// SessionModel manages the full flow inside one program: stage select,
// play, result and scoreboard. It is the top-level model for SSH sessions.
type SessionModel struct {
	app      *App
	username string
	screen   sessionScreen
	last     RunRequest
	menu     MenuModel
	play     *PlayModel
	scores   *ScoreboardModel
	quitting bool
}

// NewSessionModel creates a new session model. app is owned by the
// session; its Config tracks the terminal size.
func NewSessionModel(app *App, username string) SessionModel {
	return SessionModel{
		app:      app,
		username: username,
		menu:     NewMenuModel(app, RunRequest{}),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.app.Config.ScreenW = wsm.Width
		m.app.Config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenPlay:
		return m.updatePlay(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.play = nil
	m.scores = nil
	m.menu = NewMenuModel(m.app, m.last)
	return m, m.menu.Init()
}

// updateMenu handles updates on the stage select screen.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		sb := NewScoreboardModel(m.app.Catalog, m.app.Store, m.app.Config.ScreenW, m.app.Config.ScreenH)
		m.scores = &sb
		m.last.Difficulty, m.last.Mirror = m.menu.difficulty, m.menu.mirror
		m.screen = screenScores
		return m, sb.Init()
	}

	if req := m.menu.Selected(); req != nil {
		m.last = *req
		play, err := NewPlayModel(m.app, *req)
		if err != nil {
			m.app.logger().Error("could not start run", "user", m.username, "stage", req.StageID, "error", err)
			return m.toMenu()
		}
		m.app.logger().Info("run started", "user", m.username, "stage", req.StageID, "difficulty", req.Difficulty)
		m.play = &play
		m.screen = screenPlay
		return m, m.play.Init()
	}

	return m, cmd
}

// updatePlay handles updates while a stage is running or showing results.
func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.play.Update(msg)
	if playModel, ok := newModel.(PlayModel); ok {
		m.play = &playModel
	}

	if m.play.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.play.BackToMenu() {
		if res, ok := m.play.Result(); ok {
			m.app.logger().Info("run ended", "user", m.username, "stage", res.StageID, "reason", res.Reason, "score", res.Score)
		}
		return m.toMenu()
	}
	return m, cmd
}

// updateScores handles updates on the scoreboard.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scores = &sb
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		return m.toMenu()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenPlay:
		return m.play.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}
