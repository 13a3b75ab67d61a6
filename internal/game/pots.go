package game

// Pot is one tier of the (possibly split) pot. Eligible holds the
// contesting players whose total hand commitment reaches this tier's
// level; folded players' chips count toward Amount but never toward
// eligibility.
type Pot struct {
	Amount   int
	Level    int // hand-bet level that caps this tier
	Eligible []*Player
}

// buildPots slices the players' hand commitments into pot tiers. Each
// distinct all-in level closes a tier: every player contributes
// min(handBet, level) to the tiers at or below it. Tiers are returned
// lowest level first, so the first entry is the main pot.
func buildPots(players []*Player) []Pot {
	levelSet := make(map[int]bool)
	for _, p := range players {
		if p.HandBet > 0 {
			levelSet[p.HandBet] = true
		}
	}
	if len(levelSet) == 0 {
		return nil
	}

	levels := make([]int, 0, len(levelSet))
	for level := range levelSet {
		levels = append(levels, level)
	}
	sortInts(levels)

	pots := make([]Pot, 0, len(levels))
	prev := 0
	for _, level := range levels {
		pot := Pot{Level: level}
		for _, p := range players {
			pot.Amount += clampBet(p.HandBet, level) - clampBet(p.HandBet, prev)
			if p.contesting() && p.HandBet >= level {
				pot.Eligible = append(pot.Eligible, p)
			}
		}
		if pot.Amount > 0 {
			pots = append(pots, pot)
		}
		prev = level
	}
	return pots
}

func clampBet(bet, level int) int {
	if bet > level {
		return level
	}
	return bet
}

func sortInts(xs []int) {
	// insertion sort; a hand produces at most a handful of tiers
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}
