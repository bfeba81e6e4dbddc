package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/runtime-zero/internal/core"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPlayKeyMapActions(t *testing.T) {
	km := DefaultPlayKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []core.Action
	}{
		{"a moves left", runeKey("a"), []core.Action{core.ActionLeft}},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, []core.Action{core.ActionRight}},
		{"up jumps and swims", tea.KeyMsg{Type: tea.KeyUp}, []core.Action{core.ActionUp, core.ActionJump}},
		{"space jumps", tea.KeyMsg{Type: tea.KeySpace}, []core.Action{core.ActionJump}},
		{"x runs", runeKey("x"), []core.Action{core.ActionRun}},
		{"shift right runs right", tea.KeyMsg{Type: tea.KeyShiftRight}, []core.Action{core.ActionRun, core.ActionRight}},
		{"f fires", runeKey("f"), []core.Action{core.ActionFire}},
		{"p pauses", runeKey("p"), []core.Action{core.ActionPause}},
		{"esc backs out", tea.KeyMsg{Type: tea.KeyEsc}, []core.Action{core.ActionBack}},
		{"q quits", runeKey("q"), []core.Action{core.ActionQuit}},
		{"unbound", runeKey("z"), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := km.Actions(tc.msg)
			if len(got) != len(tc.want) {
				t.Fatalf("Actions(%q) = %v, want %v", tc.msg.String(), got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("Actions(%q)[%d] = %v, want %v", tc.msg.String(), i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestHoldTrackerEdgesAndLevels(t *testing.T) {
	h := NewHoldTracker(200 * time.Millisecond)
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	h.Observe(core.ActionJump, t0)

	f := h.Frame(t0.Add(10 * time.Millisecond))
	if !f.Has(core.ActionJump) || !f.IsHeld(core.ActionJump) {
		t.Fatal("first key event should be a press and a hold")
	}

	// An auto-repeat inside the window keeps the level without a new edge.
	h.Observe(core.ActionJump, t0.Add(150*time.Millisecond))
	f = h.Frame(t0.Add(160 * time.Millisecond))
	if f.Has(core.ActionJump) {
		t.Error("repeat inside the hold window must not produce a press edge")
	}
	if !f.IsHeld(core.ActionJump) {
		t.Error("repeat should extend the hold")
	}

	// 200ms after the last repeat the key counts as released.
	f = h.Frame(t0.Add(350 * time.Millisecond))
	if f.IsHeld(core.ActionJump) {
		t.Error("hold should expire after the window")
	}

	h.Observe(core.ActionJump, t0.Add(400*time.Millisecond))
	f = h.Frame(t0.Add(400 * time.Millisecond))
	if !f.Has(core.ActionJump) {
		t.Error("a key event after release should be a new press")
	}
}

func TestHoldTrackerEdgeSurvivesUntilFrame(t *testing.T) {
	h := NewHoldTracker(50 * time.Millisecond)
	t0 := time.Now()

	// A tap shorter than the tick interval still yields one press edge.
	h.Observe(core.ActionFire, t0)
	f := h.Frame(t0.Add(100 * time.Millisecond))
	if !f.Has(core.ActionFire) {
		t.Error("press edge lost before the next frame")
	}

	f = h.Frame(t0.Add(120 * time.Millisecond))
	if f.Has(core.ActionFire) {
		t.Error("press edge delivered twice")
	}
}

func TestHoldTrackerReleaseAndReset(t *testing.T) {
	h := NewHoldTracker(0)
	now := time.Now()

	h.Observe(core.ActionLeft, now)
	h.Observe(core.ActionRun, now)
	h.Frame(now)
	h.Release(core.ActionLeft)

	f := h.Frame(now)
	if f.IsHeld(core.ActionLeft) {
		t.Error("released action should not stay held")
	}
	if !f.IsHeld(core.ActionRun) {
		t.Error("other holds should survive a release")
	}

	h.Reset()
	f = h.Frame(now)
	if f.IsHeld(core.ActionRun) || f.Has(core.ActionRun) {
		t.Error("Reset should clear every hold")
	}
}

func TestFrameMillis(t *testing.T) {
	t0 := time.Now()
	if got := frameMillis(time.Time{}, t0, 50); got != 20 {
		t.Errorf("first frame = %v, want nominal 20", got)
	}
	if got := frameMillis(t0, t0.Add(33*time.Millisecond), 60); got != 33 {
		t.Errorf("frame = %v, want 33", got)
	}
	if got := frameMillis(t0, t0, 0); got <= 0 {
		t.Errorf("zero-length frame should fall back to nominal, got %v", got)
	}
}
