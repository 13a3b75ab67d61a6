package game

import "github.com/cardroom/holdem/internal/deck"

// PotResult records who won one pot tier
type PotResult struct {
	Amount    int      `json:"amount"`
	WinnerIDs []string `json:"winnerIds"`
}

// PlayerResult is one player's line in a completed hand. Hole cards
// and the hand description are populated only for players who showed
// down; an uncontested winner's cards stay hidden.
type PlayerResult struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Status      string      `json:"status"`
	Hole        []deck.Card `json:"hole,omitempty"`
	HandDesc    string      `json:"hand,omitempty"`
	Winnings    int         `json:"winnings"`
	ChipsBefore int         `json:"chipsBefore"`
	ChipsAfter  int         `json:"chipsAfter"`
}

// HandResult summarizes a completed hand for broadcast and history
type HandResult struct {
	TableID    string         `json:"tableId"`
	HandNumber int            `json:"handNumber"`
	Community  []deck.Card    `json:"community"`
	Pots       []PotResult    `json:"pots"`
	WinnerIDs  []string       `json:"winnerIds"`
	Players    []PlayerResult `json:"players"`
}
