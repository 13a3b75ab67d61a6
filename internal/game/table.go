package game

import (
	"fmt"
	mrand "math/rand/v2"

	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/randutil"
)

// Table orchestrates one poker table across many hands. It owns its
// Players, Deck, and community cards outright. Seating order is turn
// order. The zero button is advanced before the first hand is dealt.
type Table struct {
	ID         string
	SmallBlind int
	BigBlind   int

	players    []*Player
	button     int // seat index of the dealer button, -1 before the first hand
	actor      int // seat index due to act, -1 when none
	street     Street
	community  []deck.Card
	pot        int
	aggressor  string // player ID of the last raiser this street, "" when none
	minRaise   int    // size of the last raise this street
	handNumber int

	deck *deck.Deck
	rng  *mrand.Rand
}

// Option configures a Table
type Option func(*Table)

// WithRNG injects the RNG used to shuffle each hand's deck. Tests use
// a fixed seed for deterministic deals.
func WithRNG(rng *mrand.Rand) Option {
	return func(t *Table) { t.rng = rng }
}

// NewTable creates an empty table in the waiting state
func NewTable(id string, smallBlind, bigBlind int, opts ...Option) *Table {
	t := &Table{
		ID:         id,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		button:     -1,
		actor:      -1,
		street:     Waiting,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = randutil.NewCrypto()
	}
	return t
}

// Street returns the current phase of the table
func (t *Table) Street() Street {
	return t.street
}

// HandNumber returns the number of the current (or last completed) hand
func (t *Table) HandNumber() int {
	return t.handNumber
}

// Pot returns the chips currently in the pot
func (t *Table) Pot() int {
	return t.pot
}

// TotalChips returns the sum of all stacks plus the pot. Within a hand
// this is invariant across any sequence of actions (chip conservation).
func (t *Table) TotalChips() int {
	total := t.pot
	for _, p := range t.players {
		total += p.Stack
	}
	return total
}

// HandInProgress reports whether a betting street is underway
func (t *Table) HandInProgress() bool {
	return t.handInProgress()
}

// HasPlayer reports whether the player holds a seat
func (t *Table) HasPlayer(playerID string) bool {
	return t.findPlayer(playerID) != nil
}

// CurrentActorID returns the ID of the player due to act, or ""
func (t *Table) CurrentActorID() string {
	if t.actor < 0 || t.actor >= len(t.players) {
		return ""
	}
	return t.players[t.actor].ID
}

// Join seats a new player or reconnects an existing one. Reconnects
// preserve the player's stack and in-hand state; only the display name
// is refreshed. New players are dealt in from the next hand.
func (t *Table) Join(playerID, name string, stack int) *Player {
	if p := t.findPlayer(playerID); p != nil {
		p.Name = name
		p.left = false
		return p
	}

	p := &Player{
		ID:     playerID,
		Name:   name,
		Stack:  stack,
		Status: StatusActive,
	}
	if stack == 0 {
		p.Status = StatusBusted
	}
	t.players = append(t.players, p)
	return p
}

// Leave removes a player. Mid-hand this is an implicit fold; the seat
// is released once the hand completes. Returns a HandResult when the
// fold ends the hand.
func (t *Table) Leave(playerID string) (*HandResult, error) {
	p := t.findPlayer(playerID)
	if p == nil {
		return nil, fmt.Errorf("%w: unknown player %s", ErrIllegalAction, playerID)
	}
	p.left = true

	// Seats never move while a hand is live; departed players are
	// unseated when it completes
	if t.handInProgress() {
		if p.contesting() {
			return t.foldOut(p)
		}
		return nil, nil
	}

	t.removeLeftPlayers()
	if t.countFunded() < 2 {
		t.enterWaiting()
	}
	return nil, nil
}

// StartHand deals a fresh hand: rotates the button, posts blinds, and
// deals hole cards. Players without chips stay seated but are dealt
// out. Returns a HandResult in the degenerate case where the blinds
// put everyone all-in and the board runs out immediately.
func (t *Table) StartHand() (*HandResult, error) {
	switch t.street {
	case Waiting, Showdown:
	default:
		return nil, fmt.Errorf("%w: hand already in progress on %s", ErrInvalidTableState, t.street)
	}

	t.removeLeftPlayers()
	if t.countFunded() < 2 {
		t.enterWaiting()
		return nil, fmt.Errorf("%w: need at least 2 funded players", ErrInvalidTableState)
	}

	t.handNumber++
	t.pot = 0
	t.community = nil
	t.aggressor = ""
	t.minRaise = t.BigBlind
	t.deck = deck.NewWithRNG(t.rng)

	for _, p := range t.players {
		p.resetForHand()
	}

	// Rotate the button to the next funded seat
	t.button = t.nextFundedSeat(t.button + 1)

	sb := t.nextFundedSeat(t.button + 1)
	bb := t.nextFundedSeat(sb + 1)
	if sb == -1 || bb == -1 || sb == bb {
		t.street = Waiting
		return nil, fmt.Errorf("%w: cannot resolve blind seats", ErrInvalidTableState)
	}

	t.street = Preflop

	for _, p := range t.players {
		if p.Status != StatusActive {
			continue
		}
		hole, err := t.deck.Draw(2)
		if err != nil {
			return nil, t.abortHand(err)
		}
		p.Hole = hole
	}

	// Blinds post min(blind, stack); a short blind is all-in at once.
	// Posting is not an action: the big blind keeps its option.
	t.players[sb].Blind = BlindSmall
	t.betChips(t.players[sb], t.SmallBlind)
	t.players[bb].Blind = BlindBig
	t.betChips(t.players[bb], t.BigBlind)

	t.actor = t.nextActor(bb + 1)
	if t.actor == -1 || t.roundComplete() {
		return t.advanceStreet()
	}
	return nil, nil
}

// HandleAction validates and applies one player action. Rejected
// actions return ErrIllegalAction and mutate nothing; the caller may
// re-prompt. Returns a HandResult when the action ends the hand.
func (t *Table) HandleAction(playerID string, action ActionType, amount int) (*HandResult, error) {
	if !t.handInProgress() {
		return nil, fmt.Errorf("%w: no hand in progress", ErrIllegalAction)
	}
	if t.actor == -1 || t.players[t.actor].ID != playerID {
		return nil, fmt.Errorf("%w: not %s's turn", ErrIllegalAction, playerID)
	}
	p := t.players[t.actor]
	if !p.canAct() {
		return nil, fmt.Errorf("%w: player %s is %s", ErrIllegalAction, playerID, p.Status)
	}

	highest := t.highestStreetBet()

	switch action {
	case Fold:
		p.Status = StatusFolded

	case Check:
		if p.StreetBet != highest {
			return nil, fmt.Errorf("%w: cannot check into a bet of %d", ErrIllegalAction, highest)
		}

	case Call:
		t.betChips(p, highest-p.StreetBet)

	case Raise:
		toCall := highest - p.StreetBet
		if amount <= 0 {
			return nil, fmt.Errorf("%w: raise must be positive", ErrIllegalAction)
		}
		// A raise below the minimum is legal only as an all-in
		if amount < t.minRaise && toCall+amount < p.Stack {
			return nil, fmt.Errorf("%w: raise %d below minimum %d", ErrIllegalAction, amount, t.minRaise)
		}
		t.betChips(p, toCall+amount)
		if p.StreetBet > highest {
			t.minRaise = p.StreetBet - highest
			t.aggressor = p.ID
			// Everyone else must respond to the new bet
			for _, other := range t.players {
				if other != p && other.canAct() {
					other.Acted = false
				}
			}
		}

	default:
		return nil, fmt.Errorf("%w: unrecognized action", ErrIllegalAction)
	}

	p.Acted = true
	return t.afterAction()
}

// foldOut applies an involuntary fold (leave, turn timeout fired out of
// band) for a contesting player regardless of whose turn it is.
func (t *Table) foldOut(p *Player) (*HandResult, error) {
	p.Status = StatusFolded
	p.Acted = true
	if t.actor >= 0 && t.players[t.actor] == p {
		return t.afterAction()
	}
	if t.countContesting() <= 1 {
		return t.finishHand()
	}
	if t.roundComplete() {
		return t.advanceStreet()
	}
	return nil, nil
}

// afterAction advances the turn after an accepted action, closing the
// street or the hand when nothing is left to decide
func (t *Table) afterAction() (*HandResult, error) {
	if t.countContesting() <= 1 {
		return t.finishHand()
	}
	if t.roundComplete() {
		return t.advanceStreet()
	}
	next := t.nextActor(t.actor + 1)
	if next == -1 {
		return t.advanceStreet()
	}
	t.actor = next
	return nil, nil
}

// roundComplete reports whether the betting street is closed: every
// contesting player is either all-in or has acted since the last raise
// and matched the street's highest bet. Raises clear the other
// players' acted flags, so action always closes back on the last
// aggressor; the big blind's forced preflop bet is not a raise, which
// preserves the BB's option.
func (t *Table) roundComplete() bool {
	highest := t.highestStreetBet()
	for _, p := range t.players {
		if !p.canAct() {
			continue
		}
		if !p.Acted || p.StreetBet != highest {
			return false
		}
	}
	return true
}

// advanceStreet closes the betting round, deals the next community
// cards, and seats the first actor. When no betting decisions remain
// it keeps dealing until showdown.
func (t *Table) advanceStreet() (*HandResult, error) {
	t.aggressor = ""
	t.minRaise = t.BigBlind
	for _, p := range t.players {
		p.StreetBet = 0
		p.Acted = false
	}

	var dealErr error
	switch t.street {
	case Preflop:
		t.street = Flop
		dealErr = t.dealCommunity(3)
	case Flop:
		t.street = Turn
		dealErr = t.dealCommunity(1)
	case Turn:
		t.street = River
		dealErr = t.dealCommunity(1)
	case River:
		return t.finishHand()
	default:
		return nil, fmt.Errorf("%w: cannot advance from %s", ErrInvalidTableState, t.street)
	}
	if dealErr != nil {
		return nil, t.abortHand(dealErr)
	}

	t.actor = t.nextActor(t.button + 1)

	// With at most one player able to act there are no decisions left:
	// run the board out to showdown
	if t.countActive() <= 1 {
		return t.advanceStreet()
	}
	return nil, nil
}

func (t *Table) dealCommunity(n int) error {
	cards, err := t.deck.Draw(n)
	if err != nil {
		return err
	}
	t.community = append(t.community, cards...)
	return nil
}

// abortHand handles fatal dealing errors: the hand is voided, bets are
// returned, and the table drops to waiting
func (t *Table) abortHand(cause error) error {
	for _, p := range t.players {
		p.Stack += p.HandBet
		p.resetForHand()
	}
	t.pot = 0
	t.community = nil
	t.actor = -1
	t.street = Waiting
	t.removeLeftPlayers()
	return fmt.Errorf("hand %d aborted: %w", t.handNumber, cause)
}

// enterWaiting idles the table: no board, no face-up cards, no actor.
func (t *Table) enterWaiting() {
	for _, p := range t.players {
		p.resetForHand()
	}
	t.community = nil
	t.actor = -1
	t.street = Waiting
}

// betChips moves chips from a player's stack into the pot
func (t *Table) betChips(p *Player, amount int) {
	t.pot += p.payChips(amount)
}

func (t *Table) highestStreetBet() int {
	highest := 0
	for _, p := range t.players {
		if p.contesting() && p.StreetBet > highest {
			highest = p.StreetBet
		}
	}
	return highest
}

func (t *Table) handInProgress() bool {
	switch t.street {
	case Preflop, Flop, Turn, River:
		return true
	default:
		return false
	}
}

func (t *Table) findPlayer(playerID string) *Player {
	for _, p := range t.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// nextFundedSeat scans circularly from the given seat for a player who
// can be dealt into a new hand
func (t *Table) nextFundedSeat(from int) int {
	n := len(t.players)
	if n == 0 {
		return -1
	}
	for i := 0; i < n; i++ {
		seat := ((from + i) % n + n) % n
		p := t.players[seat]
		if p.Stack > 0 && !p.left && p.Status == StatusActive {
			return seat
		}
	}
	return -1
}

// nextActor scans circularly from the given seat for a player who can
// take a betting decision
func (t *Table) nextActor(from int) int {
	n := len(t.players)
	if n == 0 {
		return -1
	}
	for i := 0; i < n; i++ {
		seat := ((from + i) % n + n) % n
		if t.players[seat].canAct() {
			return seat
		}
	}
	return -1
}

func (t *Table) countFunded() int {
	count := 0
	for _, p := range t.players {
		if p.Stack > 0 && !p.left {
			count++
		}
	}
	return count
}

func (t *Table) countContesting() int {
	count := 0
	for _, p := range t.players {
		if p.contesting() {
			count++
		}
	}
	return count
}

func (t *Table) countActive() int {
	count := 0
	for _, p := range t.players {
		if p.canAct() {
			count++
		}
	}
	return count
}

// removeLeftPlayers releases the seats of departed players, keeping
// the button pointed at the same neighborhood of seats
func (t *Table) removeLeftPlayers() {
	kept := t.players[:0]
	for i, p := range t.players {
		if p.left {
			if i <= t.button {
				t.button--
			}
			continue
		}
		kept = append(kept, p)
	}
	t.players = kept
	if t.button >= len(t.players) {
		t.button = len(t.players) - 1
	}
}
