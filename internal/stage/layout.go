package stage

import (
	"fmt"

	"github.com/vovakirdan/runtime-zero/internal/core"
)

// Default world values used by the shared layout.
const (
	DefaultWidth        = 3200
	DefaultHeight       = 760
	DefaultTimeTargetMs = 92000
)

// LayoutShared selects the common base platform run shared by the
// authored stages.
const LayoutShared = "shared"

var sharedPlatforms = []core.Rect{
	{X: 0, Y: 680, W: 430, H: 80},
	{X: 510, Y: 610, W: 220, H: 24},
	{X: 810, Y: 560, W: 180, H: 24},
	{X: 1080, Y: 500, W: 200, H: 24},
	{X: 1380, Y: 580, W: 220, H: 24},
	{X: 1700, Y: 520, W: 170, H: 24},
	{X: 1940, Y: 450, W: 190, H: 24},
	{X: 2220, Y: 540, W: 240, H: 24},
	{X: 2550, Y: 610, W: 180, H: 24},
	{X: 2810, Y: 680, W: 390, H: 80},
}

// SharedPlatforms returns the shared base platforms for the stage with the
// given index. Odd stages raise every third platform by 10px so that
// neighbouring stages do not play identically.
func SharedPlatforms(index int) []core.Rect {
	offset := float64(index%2) * 10
	out := make([]core.Rect, len(sharedPlatforms))
	for i, p := range sharedPlatforms {
		if (i+index)%3 == 0 {
			p.Y -= offset
		}
		out[i] = p
	}
	return out
}

// CycleLine is a compact authoring form for a horizontal run of cycle
// tokens: Count tokens spaced Spacing apart, ids "<prefix>-<i>".
type CycleLine struct {
	Prefix  string  `yaml:"prefix"`
	StartX  float64 `yaml:"start_x"`
	Y       float64 `yaml:"y"`
	Count   int     `yaml:"count"`
	Spacing float64 `yaml:"spacing"`
}

// Expand returns the tokens of the line, each worth 1.
func (l CycleLine) Expand() []Cycle {
	out := make([]Cycle, 0, l.Count)
	for i := 0; i < l.Count; i++ {
		out = append(out, Cycle{
			ID:    fmt.Sprintf("%s-%d", l.Prefix, i),
			At:    core.V(l.StartX+l.Spacing*float64(i), l.Y),
			Value: 1,
		})
	}
	return out
}

// document is the YAML file layout: a Definition plus authoring shortcuts.
type document struct {
	Definition     `yaml:",inline"`
	Layout         string      `yaml:"layout"`
	ExtraPlatforms []core.Rect `yaml:"extra_platforms"`
	CycleLines     []CycleLine `yaml:"cycle_lines"`
}

// build expands the authoring shortcuts into a plain Definition.
func (doc document) build() Definition {
	def := doc.Definition

	if doc.Layout == LayoutShared {
		if def.Size.Width == 0 {
			def.Size.Width = DefaultWidth
		}
		if def.Size.Height == 0 {
			def.Size.Height = DefaultHeight
		}
		if def.Spawn == (core.Vec2{}) {
			def.Spawn = core.V(120, 650)
		}
		if def.Goal == (core.Rect{}) {
			def.Goal = core.NewRect(def.Size.Width-72, 520, 44, 120)
		}
		def.Platforms = append(SharedPlatforms(def.Index), def.Platforms...)
	}
	def.Platforms = append(def.Platforms, doc.ExtraPlatforms...)

	cycles := make([]Cycle, 0, len(def.Cycles))
	for _, line := range doc.CycleLines {
		cycles = append(cycles, line.Expand()...)
	}
	def.Cycles = append(cycles, def.Cycles...)
	for i := range def.Cycles {
		if def.Cycles[i].Value == 0 {
			def.Cycles[i].Value = 1
		}
	}

	def.Enemies = append([]Enemy(nil), def.Enemies...)
	for i := range def.Enemies {
		if def.Enemies[i].Direction >= 0 {
			def.Enemies[i].Direction = 1
		} else {
			def.Enemies[i].Direction = -1
		}
	}

	if def.TimeTargetMs == 0 {
		def.TimeTargetMs = DefaultTimeTargetMs
	}
	return def
}
