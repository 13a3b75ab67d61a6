package game

import "github.com/cardroom/holdem/internal/deck"

// Status is a player's state within the current hand
type Status int

const (
	StatusActive Status = iota
	StatusFolded
	StatusAllIn
	StatusBusted
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "all-in"
	case StatusBusted:
		return "busted"
	default:
		return "unknown"
	}
}

// BlindRole is the forced-bet role a player holds for one hand
type BlindRole int

const (
	BlindNone BlindRole = iota
	BlindSmall
	BlindBig
)

func (b BlindRole) String() string {
	switch b {
	case BlindSmall:
		return "SB"
	case BlindBig:
		return "BB"
	default:
		return ""
	}
}

// Player is per-seat mutable state, owned exclusively by the Table.
// The ID is stable across reconnects; Join upserts by ID.
type Player struct {
	ID        string
	Name      string
	Stack     int
	HandBet   int // chips committed this hand, for pot accounting
	StreetBet int // chips committed this betting round
	Status    Status
	Hole      []deck.Card // nil until dealt, then exactly 2
	Blind     BlindRole
	Acted     bool // has acted this street
	left      bool // leaving: folded out of this hand, unseated at hand end
}

// dealtIn reports whether the player holds cards in the current hand.
// Players who join mid-hand sit out until the next deal.
func (p *Player) dealtIn() bool {
	return len(p.Hole) == 2
}

// contesting reports whether the player still has a claim on the pot
func (p *Player) contesting() bool {
	if !p.dealtIn() {
		return false
	}
	return p.Status == StatusActive || p.Status == StatusAllIn
}

// canAct reports whether the player may take a betting decision
func (p *Player) canAct() bool {
	return p.dealtIn() && p.Status == StatusActive
}

// payChips moves up to amount chips from the stack into the current
// bet, flipping the player all-in when the stack empties. Returns the
// amount actually moved.
func (p *Player) payChips(amount int) int {
	if amount < 0 {
		amount = 0
	}
	if amount > p.Stack {
		amount = p.Stack
	}
	p.Stack -= amount
	p.StreetBet += amount
	p.HandBet += amount
	if p.Stack == 0 {
		p.Status = StatusAllIn
	}
	return amount
}

// resetForHand clears all per-hand fields
func (p *Player) resetForHand() {
	p.HandBet = 0
	p.StreetBet = 0
	p.Acted = false
	p.Hole = nil
	p.Blind = BlindNone
	if p.Stack > 0 {
		p.Status = StatusActive
	} else {
		p.Status = StatusBusted
	}
}
