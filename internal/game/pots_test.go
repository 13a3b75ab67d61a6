package game

import (
	"testing"

	"github.com/cardroom/holdem/internal/deck"
)

func TestBuildPotsSingleTier(t *testing.T) {
	t.Parallel()
	players := []*Player{
		{ID: "a", HandBet: 100, Status: StatusActive, Hole: deck.MustParseCards("As", "Ks")},
		{ID: "b", HandBet: 100, Status: StatusActive, Hole: deck.MustParseCards("Qd", "Qh")},
	}
	pots := buildPots(players)
	if len(pots) != 1 {
		t.Fatalf("pots = %d, want 1", len(pots))
	}
	if pots[0].Amount != 200 || len(pots[0].Eligible) != 2 {
		t.Errorf("main pot = %d chips / %d eligible, want 200/2", pots[0].Amount, len(pots[0].Eligible))
	}
}

func TestBuildPotsSidePotTiers(t *testing.T) {
	t.Parallel()
	short := &Player{ID: "short", HandBet: 50, Status: StatusAllIn, Hole: deck.MustParseCards("As", "Ks")}
	big := &Player{ID: "big", HandBet: 200, Status: StatusActive, Hole: deck.MustParseCards("Qd", "Qh")}
	caller := &Player{ID: "caller", HandBet: 200, Status: StatusActive, Hole: deck.MustParseCards("Jc", "Jd")}
	folded := &Player{ID: "folded", HandBet: 100, Status: StatusFolded, Hole: deck.MustParseCards("2c", "3c")}

	pots := buildPots([]*Player{short, big, caller, folded})
	if len(pots) != 3 {
		t.Fatalf("pots = %d, want 3 tiers", len(pots))
	}

	// Main pot: 50 from each of the four contributors
	if pots[0].Amount != 200 {
		t.Errorf("main pot = %d, want 200", pots[0].Amount)
	}
	if !eligibleIDs(pots[0], "short", "big", "caller") {
		t.Errorf("main pot eligible = %v", ids(pots[0].Eligible))
	}

	// First side pot closes at the folded player's 100: 50 more from
	// big, caller, and the folded stake
	if pots[1].Amount != 150 {
		t.Errorf("side pot 1 = %d, want 150", pots[1].Amount)
	}
	if !eligibleIDs(pots[1], "big", "caller") {
		t.Errorf("side pot 1 eligible = %v", ids(pots[1].Eligible))
	}

	// Second side pot: the top 100 from big and caller only
	if pots[2].Amount != 200 {
		t.Errorf("side pot 2 = %d, want 200", pots[2].Amount)
	}
	if !eligibleIDs(pots[2], "big", "caller") {
		t.Errorf("side pot 2 eligible = %v", ids(pots[2].Eligible))
	}

	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	if total != 550 {
		t.Errorf("pot total = %d, want 550", total)
	}
}

func TestBuildPotsIgnoresZeroBets(t *testing.T) {
	t.Parallel()
	players := []*Player{
		{ID: "a", HandBet: 60, Status: StatusActive, Hole: deck.MustParseCards("As", "Ks")},
		{ID: "b", HandBet: 0, Status: StatusFolded},
	}
	pots := buildPots(players)
	if len(pots) != 1 || pots[0].Amount != 60 {
		t.Fatalf("pots = %+v, want one 60-chip pot", pots)
	}
}

func eligibleIDs(p Pot, want ...string) bool {
	if len(p.Eligible) != len(want) {
		return false
	}
	seen := make(map[string]bool)
	for _, pl := range p.Eligible {
		seen[pl.ID] = true
	}
	for _, id := range want {
		if !seen[id] {
			return false
		}
	}
	return true
}

func ids(players []*Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}
