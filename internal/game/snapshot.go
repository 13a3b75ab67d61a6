package game

import "github.com/cardroom/holdem/internal/deck"

// PlayerSnapshot is one seat as seen by a particular viewer
type PlayerSnapshot struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Stack     int         `json:"stack"`
	StreetBet int         `json:"streetBet"`
	HandBet   int         `json:"handBet"`
	Status    string      `json:"status"`
	Blind     string      `json:"blind,omitempty"`
	Button    bool        `json:"button,omitempty"`
	Hole      []deck.Card `json:"hole,omitempty"`
	HasCards  bool        `json:"hasCards"`
}

// Snapshot is the table state rendered for one viewer. Hole cards are
// the viewer's own only; other hands stay hidden until a showdown
// reveals the contenders' cards to everyone.
type Snapshot struct {
	TableID    string           `json:"tableId"`
	HandNumber int              `json:"handNumber"`
	Street     string           `json:"street"`
	Community  []deck.Card      `json:"community"`
	Pot        int              `json:"pot"`
	SmallBlind int              `json:"smallBlind"`
	BigBlind   int              `json:"bigBlind"`
	ActorID    string           `json:"actorId,omitempty"`
	Players    []PlayerSnapshot `json:"players"`
}

// Snapshot renders the table for the given viewer. An empty viewerID
// produces the spectator view with every hand hidden.
func (t *Table) Snapshot(viewerID string) Snapshot {
	snap := Snapshot{
		TableID:    t.ID,
		HandNumber: t.handNumber,
		Street:     t.street.String(),
		Community:  append([]deck.Card{}, t.community...),
		Pot:        t.pot,
		SmallBlind: t.SmallBlind,
		BigBlind:   t.BigBlind,
		ActorID:    t.CurrentActorID(),
	}

	for i, p := range t.players {
		ps := PlayerSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Stack:     p.Stack,
			StreetBet: p.StreetBet,
			HandBet:   p.HandBet,
			Status:    p.Status.String(),
			Blind:     p.Blind.String(),
			Button:    i == t.button,
			HasCards:  p.dealtIn(),
		}
		// A hand conceded before showdown is never revealed, so the
		// contenders' cards go face up only when two or more reach it.
		reveal := p.ID == viewerID || (t.street == Showdown && p.contesting() && t.countContesting() > 1)
		if p.dealtIn() && reveal {
			ps.Hole = append([]deck.Card{}, p.Hole...)
		}
		snap.Players = append(snap.Players, ps)
	}
	return snap
}
