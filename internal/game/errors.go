package game

import "errors"

var (
	// ErrIllegalAction marks a rejected player action: out of turn,
	// wrong status, checking into a bet, or a short raise. The table
	// state is untouched; the caller may re-prompt the same actor.
	ErrIllegalAction = errors.New("game: illegal action")

	// ErrInvalidTableState marks a hand that cannot start or continue,
	// e.g. fewer than two funded players. The table falls back to the
	// waiting state.
	ErrInvalidTableState = errors.New("game: invalid table state")
)
