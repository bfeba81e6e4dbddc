package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/runtime-zero/internal/core"
	"github.com/vovakirdan/runtime-zero/internal/sim"
	"github.com/vovakirdan/runtime-zero/internal/stage"
)

// World pixels covered by one terminal cell. Cells are roughly twice as
// tall as they are wide.
const (
	CellWidthPx  = 16.0
	CellHeightPx = 32.0
)

// colorStyles maps core.Color roles to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:        lipgloss.NewStyle(),
	core.ColorPlatform:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorCollapsing:     lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
	core.ColorWarning:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorMoving:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorPlayer:         lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorPlayerShielded: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	core.ColorPlayerSudo:     lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	core.ColorEnemy:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	core.ColorShot:           lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorGem:            lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	core.ColorCycle:          lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorItem:           lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	core.ColorSpring:         lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorPort:           lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCheckpoint:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorGoal:           lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	core.ColorWind:           lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorWater:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorGravity:        lipgloss.NewStyle().Foreground(lipgloss.Color("93")),
	core.ColorHUD:            lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
	core.ColorDim:            lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Camera maps world pixels to cells of a viewport that starts at screen
// row Top.
type Camera struct {
	X, Y   float64 // world position of the viewport's top-left corner
	Cols   int
	Rows   int
	Top    int
	CellW  float64
	CellH  float64
	stageW float64
	stageH float64
}

// NewCamera frames the player for a cols x rows viewport. The view leads
// the player by the look-ahead offset and never leaves the stage.
func NewCamera(def *stage.Definition, p sim.PlayerView, cols, rows, top int) Camera {
	c := Camera{
		Cols:   cols,
		Rows:   rows,
		Top:    top,
		CellW:  CellWidthPx,
		CellH:  CellHeightPx,
		stageW: def.Size.Width,
		stageH: def.Size.Height,
	}
	viewW := float64(cols) * c.CellW
	viewH := float64(rows) * c.CellH

	focusX := p.X + p.W/2 + p.LookAhead
	focusY := p.Y + p.H/2
	c.X = core.ClampF(focusX-viewW/2, 0, math.Max(0, c.stageW-viewW))
	c.Y = core.ClampF(focusY-viewH/2, 0, math.Max(0, c.stageH-viewH))
	return c
}

// Cell returns the screen cell containing world point p.
func (c Camera) Cell(p core.Vec2) (int, int) {
	x := int(math.Floor((p.X - c.X) / c.CellW))
	y := int(math.Floor((p.Y-c.Y)/c.CellH)) + c.Top
	return x, y
}

// Span returns the cell range [x0,x1)x[y0,y1) covered by r. Every
// non-empty rect covers at least one cell.
func (c Camera) Span(r core.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor((r.X - c.X) / c.CellW))
	y0 = int(math.Floor((r.Y-c.Y)/c.CellH)) + c.Top
	x1 = int(math.Ceil((r.Right() - c.X) / c.CellW))
	y1 = int(math.Ceil((r.Bottom()-c.Y)/c.CellH)) + c.Top
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return x0, y0, x1, y1
}

func (c Camera) fill(s *core.Screen, r core.Rect, ch rune, col core.Color) {
	x0, y0, x1, y1 := c.Span(r)
	// Keep the HUD rows above the viewport intact.
	y0 = max(y0, c.Top)
	y1 = min(y1, c.Top+c.Rows)
	s.FillCells(x0, y0, x1, y1, ch, col)
}

func (c Camera) mark(s *core.Screen, p core.Vec2, ch rune, col core.Color) {
	x, y := c.Cell(p)
	if y < c.Top || y >= c.Top+c.Rows {
		return
	}
	s.SetColored(x, y, ch, col)
}

// DrawWorld draws the stage and the dynamic entities of snap through cam.
// Later layers overwrite earlier ones: zones, solids, fixtures, pickups,
// enemies, shots and finally the player.
func DrawWorld(s *core.Screen, def *stage.Definition, snap sim.Snapshot, cam Camera) {
	for _, z := range def.WindZones {
		ch := '›'
		if z.ForceX < 0 {
			ch = '‹'
		}
		cam.fill(s, z.Rect, ch, core.ColorWind)
	}
	for _, z := range def.RotatorZones {
		cam.fill(s, z.Rect, '~', core.ColorWind)
	}
	for _, z := range def.GravityZones {
		cam.fill(s, z.Rect, ':', core.ColorGravity)
	}
	for _, z := range def.WaterZones {
		cam.fill(s, z.Rect, '≈', core.ColorWater)
	}

	for _, p := range def.Platforms {
		cam.fill(s, p, '█', core.ColorPlatform)
	}
	for _, e := range snap.Entities {
		switch e.Kind {
		case sim.EntityCollapsing:
			switch e.State {
			case "gone":
				cam.fill(s, e.Rect, '░', core.ColorDim)
			case "warning":
				cam.fill(s, e.Rect, '▓', core.ColorWarning)
			default:
				cam.fill(s, e.Rect, '▓', core.ColorCollapsing)
			}
		case sim.EntityMoving:
			cam.fill(s, e.Rect, '▒', core.ColorMoving)
		}
	}

	for _, sp := range def.Springs {
		cam.fill(s, sp.Rect, '^', core.ColorSpring)
	}
	for _, p := range def.Ports {
		cam.fill(s, p.Entry, 'O', core.ColorPort)
		cam.mark(s, p.Exit, 'o', core.ColorPort)
	}
	cam.fill(s, def.Goal, '#', core.ColorGoal)

	for _, e := range snap.Entities {
		switch e.Kind {
		case sim.EntityCheckpoint:
			col := core.ColorDim
			if e.State == "active" {
				col = core.ColorCheckpoint
			}
			cam.mark(s, core.V(e.Rect.Center().X, e.Rect.Bottom()-1), 'F', col)
		case sim.EntityGem:
			cam.mark(s, e.Rect.Center(), '◆', core.ColorGem)
		case sim.EntityCycle:
			cam.mark(s, e.Rect.Center(), '•', core.ColorCycle)
		case sim.EntityItem:
			cam.mark(s, e.Rect.Center(), itemGlyph(e.State), core.ColorItem)
		}
	}
	for _, e := range snap.Entities {
		switch e.Kind {
		case sim.EntityEnemy:
			cam.fill(s, e.Rect, enemyGlyph(e.State), core.ColorEnemy)
		case sim.EntityShot:
			ch := '*'
			if e.State == "player" {
				ch = '-'
			}
			cam.mark(s, e.Rect.Center(), ch, core.ColorShot)
		}
	}

	p := snap.Player
	col := core.ColorPlayer
	switch {
	case snap.Resources.SudoMs > 0:
		col = core.ColorPlayerSudo
	case snap.Resources.Patch == sim.PatchEncapsulated:
		col = core.ColorPlayerShielded
	}
	// Blink while invulnerable.
	if snap.Resources.InvulnMs > 0 && int(snap.Resources.InvulnMs/100)%2 == 1 {
		col = core.ColorDim
	}
	cam.fill(s, core.NewRect(p.X, p.Y, p.W, p.H), playerGlyph(p), col)
}

func playerGlyph(p sim.PlayerView) rune {
	switch {
	case p.GroundPounding:
		return 'v'
	case p.Sliding:
		return '_'
	case p.Facing < 0:
		return '<'
	default:
		return '>'
	}
}

func enemyGlyph(kind string) rune {
	switch stage.EnemyKind(kind) {
	case stage.EnemyHopper:
		return 'h'
	case stage.EnemyDrone:
		return 'd'
	case stage.EnemyChaser:
		return 'x'
	case stage.EnemyTurret:
		return 'T'
	case stage.EnemyDasher:
		return 'z'
	default:
		return 'c'
	}
}

func itemGlyph(kind string) rune {
	switch stage.ItemKind(kind) {
	case stage.ItemCompiler:
		return 'C'
	case stage.ItemRootKey:
		return 'K'
	default:
		return 'M'
	}
}

// DrawHUD draws the run status line at row y.
func DrawHUD(s *core.Screen, y int, def *stage.Definition, snap sim.Snapshot, diff string) {
	r := snap.Resources
	var b strings.Builder
	fmt.Fprintf(&b, " %s  %s  %s  ◆ %d/%d  cycles %d  backups %d  %s",
		def.Title(), strings.ToUpper(diff), formatMillis(snap.ElapsedMs),
		r.Gems, r.GemsTotal, r.Cycles, r.Backups, r.Patch)
	if r.Compiler {
		b.WriteString("  [compiler]")
	}
	if r.SudoMs > 0 {
		fmt.Fprintf(&b, "  [sudo %.1fs]", r.SudoMs/1000)
	}
	if snap.Mirror {
		b.WriteString("  [mirror]")
	}
	s.DrawText(0, y, b.String(), core.ColorHUD)
}

// formatMillis renders a duration as m:ss.t.
func formatMillis(ms float64) string {
	if ms < 0 {
		ms = 0
	}
	total := int(ms / 100)
	return fmt.Sprintf("%d:%02d.%d", total/600, (total/10)%60, total%10)
}
