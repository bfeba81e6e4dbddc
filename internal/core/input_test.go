package core

import "testing"

func TestInputFrameAxis(t *testing.T) {
	tests := []struct {
		name     string
		held     []Action
		expected float64
	}{
		{"none", nil, 0},
		{"left", []Action{ActionLeft}, -1},
		{"right", []Action{ActionRight}, 1},
		{"both cancel", []Action{ActionLeft, ActionRight}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := NewInputFrame()
			for _, a := range tc.held {
				f.Hold(a)
			}
			if got := f.Axis(); got != tc.expected {
				t.Errorf("Axis() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestInputFramePressImpliesHeld(t *testing.T) {
	var f InputFrame
	f.Press(ActionJump)

	if !f.Has(ActionJump) || !f.IsHeld(ActionJump) {
		t.Fatal("Press should set both the edge and the level")
	}

	rest := f.WithoutEdges()
	if rest.Has(ActionJump) {
		t.Error("WithoutEdges should drop the press edge")
	}
	if !rest.IsHeld(ActionJump) {
		t.Error("WithoutEdges should keep the held level")
	}

	clone := f.Clone()
	f.Clear()
	if !clone.Has(ActionJump) {
		t.Error("Clone should be independent of Clear on the original")
	}
	if f.Has(ActionJump) || f.IsHeld(ActionJump) {
		t.Error("Clear should reset the frame")
	}
}
