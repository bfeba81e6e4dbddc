package core

// Action represents a logical game action, abstracted from physical key presses.
// The simulation works with these intents and never with raw keys.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, Left arrow
	ActionRight          // D, Right arrow
	ActionUp             // W, Up arrow - ascend in water, menu up
	ActionDown           // S, Down arrow - slide, ground pound, menu down
	ActionJump           // Space, W, Up
	ActionRun            // Shift / X - run modifier
	ActionFire           // F / C - shoot once the compiler is unlocked
	ActionConfirm        // Enter
	ActionBack           // Escape, B
	ActionPause          // P
	ActionRestart        // R
	ActionQuit           // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionJump:
		return "Jump"
	case ActionRun:
		return "Run"
	case ActionFire:
		return "Fire"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the logical input for one simulation tick.
// Held carries level state (the key is down this tick); Pressed carries
// edges (the key went down this tick). A pressed action is also held.
type InputFrame struct {
	Held    map[Action]bool `json:"held,omitempty" msgpack:"h,omitempty"`
	Pressed map[Action]bool `json:"pressed,omitempty" msgpack:"p,omitempty"`
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Held:    make(map[Action]bool),
		Pressed: make(map[Action]bool),
	}
}

// Press marks an action as pressed (and held) for this frame.
func (f *InputFrame) Press(a Action) {
	f.ensure()
	f.Pressed[a] = true
	f.Held[a] = true
}

// Hold marks an action as held without a new press edge.
func (f *InputFrame) Hold(a Action) {
	f.ensure()
	f.Held[a] = true
}

// Set is an alias for Press, used by menu and key mapping code.
func (f *InputFrame) Set(a Action) {
	f.Press(a)
}

// Has returns true if the action was pressed this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Pressed[a]
}

// IsHeld returns true if the action is down this frame.
func (f InputFrame) IsHeld(a Action) bool {
	return f.Held[a]
}

// Axis returns the horizontal move axis: -1, 0 or 1.
// Opposing directions cancel out.
func (f InputFrame) Axis() float64 {
	left, right := f.IsHeld(ActionLeft), f.IsHeld(ActionRight)
	switch {
	case left == right:
		return 0
	case left:
		return -1
	default:
		return 1
	}
}

// WithoutEdges returns a copy that keeps held levels but drops press edges.
// Fixed-step drivers use it for every sub-step after the first.
func (f InputFrame) WithoutEdges() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Held {
		clone.Held[k] = v
	}
	return clone
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Held)
	clear(f.Pressed)
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := f.WithoutEdges()
	for k, v := range f.Pressed {
		clone.Pressed[k] = v
	}
	return clone
}

func (f *InputFrame) ensure() {
	if f.Held == nil {
		f.Held = make(map[Action]bool)
	}
	if f.Pressed == nil {
		f.Pressed = make(map[Action]bool)
	}
}
