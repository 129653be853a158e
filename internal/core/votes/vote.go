// Package votes coordinates the per-post vote state machine: optimistic
// local transitions confirmed against the backend, with the server's
// count winning on success and a full revert on failure.
package votes

// State is the viewer's vote on one post. At most one of up/down holds
// at a time; switching direction clears the other side in the same
// transition.
type State string

const (
	StateNone State = ""
	StateUp   State = "up"
	StateDown State = "down"
)

// ParseState maps a wire value to a State. Unknown values come back as
// StateNone along with ok=false.
func ParseState(s string) (State, bool) {
	switch State(s) {
	case StateNone, StateUp, StateDown:
		return State(s), true
	}
	return StateNone, false
}

// transition resolves one button press against the current state.
// Pressing the already-active direction is a toggle-off, not a no-op;
// pressing the opposite direction clears it and sets the new one in a
// single step. The returned delta is the local vote-count adjustment:
//
//	NONE -> UP    +1        NONE -> DOWN  -1
//	UP   -> NONE  -1        DOWN -> NONE  +1
//	DOWN -> UP    +2        UP   -> DOWN  -2
func transition(current, requested State) (next State, delta int) {
	if current == requested {
		// Toggle-off: undo the active vote.
		if current == StateUp {
			return StateNone, -1
		}
		return StateNone, +1
	}

	switch {
	case current == StateNone && requested == StateUp:
		return StateUp, +1
	case current == StateNone && requested == StateDown:
		return StateDown, -1
	case current == StateDown && requested == StateUp:
		return StateUp, +2
	default: // up -> down
		return StateDown, -2
	}
}
