package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/runtime-zero/internal/config"
	"github.com/vovakirdan/runtime-zero/internal/registry"
)

// MenuItem is a selectable stage in the menu.
type MenuItem struct {
	Stage registry.StageInfo
	Best  int // best stored score, 0 if never played
}

// MenuModel is the Bubble Tea model for the stage select screen.
type MenuModel struct {
	app            *App
	items          []MenuItem
	cursor         int
	difficulty     config.Difficulty
	mirror         bool
	width          int
	height         int
	keys           MenuKeyMap
	help           help.Model
	quitting       bool
	selected       *RunRequest
	openScoreboard bool
}

// NewMenuModel creates a new menu model. The difficulty and mirror
// toggles start from req.
func NewMenuModel(app *App, req RunRequest) MenuModel {
	stages := app.Catalog.List()
	items := make([]MenuItem, 0, len(stages))

	var stats map[string]int
	if app.Store != nil {
		if all, err := app.Store.AllStageStats(); err == nil {
			stats = make(map[string]int, len(all))
			for id, st := range all {
				stats[id] = st.BestScore
			}
		}
	}

	cursor := 0
	for i, st := range stages {
		items = append(items, MenuItem{Stage: st, Best: stats[st.ID]})
		if st.ID == req.StageID {
			cursor = i
		}
	}

	diff := req.Difficulty
	if diff == "" {
		diff = config.DifficultyStandard
	}

	return MenuModel{
		app:        app,
		items:      items,
		cursor:     cursor,
		difficulty: diff,
		mirror:     req.Mirror,
		width:      app.Config.ScreenW,
		height:     app.Config.ScreenH,
		keys:       DefaultMenuKeyMap(),
		help:       help.New(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Difficulty):
		m.difficulty = m.difficulty.Next()

	case key.Matches(msg, m.keys.Mirror):
		m.mirror = !m.mirror

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			m.selected = &RunRequest{
				StageID:    m.items[m.cursor].Stage.ID,
				Difficulty: m.difficulty,
				Mirror:     m.mirror,
			}
			return m, tea.Quit
		}

	case key.Matches(msg, m.keys.Scores):
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("R U N T I M E   Z E R O"), m.width))
	b.WriteString("\n\n")

	mirror := "off"
	if m.mirror {
		mirror = "on"
	}
	settings := fmt.Sprintf("Difficulty: %s    Mirror: %s", m.difficulty.Title(), mirror)
	b.WriteString(centerText(settings, m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		best := "--"
		if item.Best > 0 {
			best = fmt.Sprintf("%3d", item.Best)
		}
		line := fmt.Sprintf(" %-24s %-20s best %s ", fmt.Sprintf("%d. %s", item.Stage.Index, item.Stage.Name), item.Stage.Gimmick, best)
		if i == m.cursor {
			line = activeStyle.Render(line)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		cur := m.items[m.cursor].Stage
		b.WriteString("\n")
		b.WriteString(centerText(dimStyle.Render(fmt.Sprintf("%s  -  target %s  -  %d gems", cur.Theme, formatMillis(cur.TimeTargetMs), cur.Gems)), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected run, or nil if none was selected.
func (m MenuModel) Selected() *RunRequest {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested the scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Size returns the last known terminal size.
func (m MenuModel) Size() (int, int) {
	return m.width, m.height
}

// centerText centers text within given width. Width is measured in
// printable cells so styled text centers correctly.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Request         RunRequest
	Width, Height   int
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(app *App, last RunRequest) (MenuResult, error) {
	model := NewMenuModel(app, last)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Request: last}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Request: last, Quit: true}, nil
	}

	result := MenuResult{Request: last}
	result.Width, result.Height = m.Size()

	if m.WantsScoreboard() {
		result.WantsScoreboard = true
		result.Request.Difficulty = m.difficulty
		result.Request.Mirror = m.mirror
		return result, nil
	}

	if m.IsQuitting() || m.Selected() == nil {
		result.Quit = true
		return result, nil
	}

	result.Request = *m.Selected()
	return result, nil
}
