package game

import (
	"fmt"

	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/eval"
)

// finishHand resolves the hand: evaluates any showdown, splits the pot
// into tiers, pays the winners, and resets the table for the next
// deal. Called when betting closes on the river or when a fold leaves
// a single contender.
func (t *Table) finishHand() (*HandResult, error) {
	t.street = Showdown
	t.actor = -1

	contesting := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		if p.contesting() {
			contesting = append(contesting, p)
		}
	}
	showdown := len(contesting) > 1

	// Evaluate once per contender; pot tiers reuse these results
	evals := make(map[string]eval.Evaluation, len(contesting))
	if showdown {
		for _, p := range contesting {
			ev, err := eval.Evaluate(append(append([]deck.Card{}, p.Hole...), t.community...))
			if err != nil {
				return nil, t.abortHand(fmt.Errorf("%w: %v", ErrInvalidTableState, err))
			}
			evals[p.ID] = ev
		}
	}

	chipsBefore := make(map[string]int, len(t.players))
	for _, p := range t.players {
		chipsBefore[p.ID] = p.Stack + p.HandBet
	}

	pots := buildPots(t.players)
	winnings := make(map[string]int)
	descs := make(map[string]string, len(evals))
	for id, ev := range evals {
		descs[id] = ev.Category.String()
	}

	result := &HandResult{
		TableID:    t.ID,
		HandNumber: t.handNumber,
		Community:  append([]deck.Card{}, t.community...),
	}

	seenWinner := make(map[string]bool)
	for _, pot := range pots {
		eligible := pot.Eligible
		if len(eligible) == 0 {
			// All contributors at this level folded; the chips are
			// dead money for the remaining contenders
			eligible = contesting
		}

		winners := eligible
		if showdown {
			winners = bestOf(eligible, evals)
		}
		winners = t.seatOrderFromButton(winners)

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		potResult := PotResult{Amount: pot.Amount}
		for i, w := range winners {
			amount := share
			if i == 0 {
				// Odd chips go to the earliest winner after the button
				amount += remainder
			}
			w.Stack += amount
			winnings[w.ID] += amount
			potResult.WinnerIDs = append(potResult.WinnerIDs, w.ID)
			if !seenWinner[w.ID] {
				seenWinner[w.ID] = true
				result.WinnerIDs = append(result.WinnerIDs, w.ID)
			}
		}
		result.Pots = append(result.Pots, potResult)
	}
	t.pot = 0

	for _, p := range t.players {
		if !p.dealtIn() {
			continue
		}
		pr := PlayerResult{
			ID:          p.ID,
			Name:        p.Name,
			Status:      p.Status.String(),
			Winnings:    winnings[p.ID],
			ChipsBefore: chipsBefore[p.ID],
			ChipsAfter:  p.Stack,
		}
		if showdown && p.contesting() {
			pr.Hole = append([]deck.Card{}, p.Hole...)
			pr.HandDesc = descs[p.ID]
		}
		result.Players = append(result.Players, pr)
	}

	// Hole cards and statuses persist through the Showdown street; the
	// next StartHand performs the per-hand reset.
	t.removeLeftPlayers()
	if t.countFunded() < 2 {
		t.enterWaiting()
	}

	return result, nil
}

// bestOf returns the players holding the strongest evaluation
func bestOf(players []*Player, evals map[string]eval.Evaluation) []*Player {
	var best []*Player
	for _, p := range players {
		ev, ok := evals[p.ID]
		if !ok {
			continue
		}
		if len(best) == 0 {
			best = []*Player{p}
			continue
		}
		switch ev.Compare(evals[best[0].ID]) {
		case 1:
			best = []*Player{p}
		case 0:
			best = append(best, p)
		}
	}
	return best
}

// seatOrderFromButton orders the given players by seat, starting from
// the seat after the button. Pot remainders follow this order.
func (t *Table) seatOrderFromButton(players []*Player) []*Player {
	member := make(map[*Player]bool, len(players))
	for _, p := range players {
		member[p] = true
	}
	ordered := make([]*Player, 0, len(players))
	n := len(t.players)
	for i := 1; i <= n; i++ {
		p := t.players[(t.button+i)%n]
		if member[p] {
			ordered = append(ordered, p)
		}
	}
	return ordered
}
