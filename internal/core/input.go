package core

// Action represents a semantic input, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // Up arrow
	ActionDown           // Down arrow
	ActionLeft           // Left arrow
	ActionRight          // Right arrow
	ActionConfirm        // Enter
	ActionBack           // Escape - opens the quit prompt
	ActionErase          // Backspace
	ActionQuit           // Ctrl+C - leave immediately
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionErase:
		return "Erase"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame is the input collected for a single tick: the set of actions
// triggered plus any printable characters typed, in order.
type InputFrame struct {
	Actions map[Action]bool
	Runes   []rune
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Type appends typed characters to the frame.
func (f *InputFrame) Type(rs ...rune) {
	f.Runes = append(f.Runes, rs...)
}

// Typed reports whether r was typed this frame.
func (f InputFrame) Typed(r rune) bool {
	for _, typed := range f.Runes {
		if typed == r {
			return true
		}
	}
	return false
}

// Empty reports whether nothing at all happened this frame.
func (f InputFrame) Empty() bool {
	for _, on := range f.Actions {
		if on {
			return false
		}
	}
	return len(f.Runes) == 0
}

// Last returns a short label for the most recent input, for HUD debugging.
func (f InputFrame) Last() string {
	if n := len(f.Runes); n > 0 {
		return string(f.Runes[n-1])
	}
	for a := ActionQuit; a > ActionNone; a-- {
		if f.Has(a) {
			return a.String()
		}
	}
	return ""
}

// Clear resets all input for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Runes = f.Runes[:0]
}
