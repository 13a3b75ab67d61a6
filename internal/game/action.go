package game

import "fmt"

// Street represents the phase of a hand. Waiting is both the initial
// state and the idle state whenever fewer than two funded players
// remain.
type Street int

const (
	Waiting Street = iota
	Preflop
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// ActionType represents a player action
type ActionType int

const (
	Fold ActionType = iota
	Check
	Call
	Raise
)

func (a ActionType) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Raise:
		return "raise"
	default:
		return "unknown"
	}
}

// ParseActionType maps wire action names onto ActionType
func ParseActionType(s string) (ActionType, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise":
		return Raise, nil
	default:
		return 0, fmt.Errorf("%w: unknown action type %q", ErrIllegalAction, s)
	}
}
