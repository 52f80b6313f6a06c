package checkbox

import "fmt"

// State is the classification of a checkbox match.
type State int

const (
	NotDone State = iota
	Done
	InProgress
)

// States lists every classification in bucket order.
var States = []State{Done, NotDone, InProgress}

func (s State) String() string {
	switch s {
	case Done:
		return "done"
	case NotDone:
		return "not_done"
	case InProgress:
		return "in_progress"
	default:
		return "unknown"
	}
}

// ParseState converts a state name ("done", "not_done", "in_progress") back to a State.
// Dashes are accepted in place of underscores.
func ParseState(name string) (State, bool) {
	switch name {
	case "done":
		return Done, true
	case "not_done", "not-done", "undone":
		return NotDone, true
	case "in_progress", "in-progress", "wip":
		return InProgress, true
	}
	return NotDone, false
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name accepted by ParseState.
func (s *State) UnmarshalText(text []byte) error {
	state, ok := ParseState(string(text))
	if !ok {
		return fmt.Errorf("unknown checkbox state %q", text)
	}
	*s = state
	return nil
}

// Classify maps the marker character between the brackets to a State.
// Markers other than 'x', ' ' and '>' fall back to NotDone.
func Classify(marker rune) State {
	switch marker {
	case 'x':
		return Done
	case ' ':
		return NotDone
	case '>':
		return InProgress
	default:
		return NotDone
	}
}
