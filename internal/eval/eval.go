// Package eval ranks poker hands. Evaluate picks the best five-card
// hand out of any set of five or more cards, which in play means the
// 21 five-card combinations of two hole cards and the board.
package eval

import (
	"fmt"
	"sort"

	"github.com/cardroom/holdem/internal/deck"
)

// Category is the hand category, ordered weakest to strongest
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable category name
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Evaluation is the ranking of a hand. Two evaluations are ordered by
// Category first, then by Tiebreaks element-wise (most significant
// first). Equal on all elements means a split pot.
type Evaluation struct {
	Category  Category
	Tiebreaks []int
	BestFive  []deck.Card
}

// Compare returns 1 if e ranks above o, -1 if below, 0 on a tie
func (e Evaluation) Compare(o Evaluation) int {
	if e.Category != o.Category {
		if e.Category > o.Category {
			return 1
		}
		return -1
	}
	for i := 0; i < len(e.Tiebreaks) && i < len(o.Tiebreaks); i++ {
		if e.Tiebreaks[i] != o.Tiebreaks[i] {
			if e.Tiebreaks[i] > o.Tiebreaks[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Evaluate returns the best five-card evaluation over the given cards.
// It is pure, deterministic, and independent of input order. At least
// five cards are required.
func Evaluate(cards []deck.Card) (Evaluation, error) {
	if len(cards) < 5 {
		return Evaluation{}, fmt.Errorf("eval: need at least 5 cards, got %d", len(cards))
	}

	var best Evaluation
	found := false

	forEachFive(cards, func(five []deck.Card) {
		ev := scoreFive(five)
		if !found || ev.Compare(best) > 0 {
			best = ev
			found = true
		}
	})

	return best, nil
}

// forEachFive calls fn with every 5-card subset of cards. The slice
// passed to fn is reused between calls.
func forEachFive(cards []deck.Card, fn func([]deck.Card)) {
	n := len(cards)
	five := make([]deck.Card, 5)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						five[0], five[1], five[2], five[3], five[4] = cards[a], cards[b], cards[c], cards[d], cards[e]
						fn(five)
					}
				}
			}
		}
	}
}

// scoreFive ranks exactly five cards
func scoreFive(five []deck.Card) Evaluation {
	sorted := make([]deck.Card, 5)
	copy(sorted, five)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rank > sorted[j].Rank })

	ranksDesc := make([]int, 5)
	for i, c := range sorted {
		ranksDesc[i] = int(c.Rank)
	}

	flush := true
	for _, c := range sorted {
		if c.Suit != sorted[0].Suit {
			flush = false
			break
		}
	}

	straightHigh := straightHighCard(ranksDesc)

	// groups: distinct ranks ordered by count desc, then rank desc
	type group struct {
		rank  int
		count int
	}
	counts := make(map[int]int, 5)
	for _, r := range ranksDesc {
		counts[r]++
	}
	groups := make([]group, 0, 5)
	for r, n := range counts {
		groups = append(groups, group{rank: r, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	ev := Evaluation{BestFive: sorted}

	switch {
	case flush && straightHigh > 0:
		ev.Category = StraightFlush
		ev.Tiebreaks = []int{straightHigh}
	case groups[0].count == 4:
		ev.Category = FourOfAKind
		ev.Tiebreaks = []int{groups[0].rank, groups[1].rank}
	case groups[0].count == 3 && groups[1].count == 2:
		ev.Category = FullHouse
		ev.Tiebreaks = []int{groups[0].rank, groups[1].rank}
	case flush:
		ev.Category = Flush
		ev.Tiebreaks = ranksDesc
	case straightHigh > 0:
		ev.Category = Straight
		ev.Tiebreaks = []int{straightHigh}
	case groups[0].count == 3:
		ev.Category = ThreeOfAKind
		ev.Tiebreaks = []int{groups[0].rank, groups[1].rank, groups[2].rank}
	case groups[0].count == 2 && groups[1].count == 2:
		ev.Category = TwoPair
		ev.Tiebreaks = []int{groups[0].rank, groups[1].rank, groups[2].rank}
	case groups[0].count == 2:
		ev.Category = OnePair
		ev.Tiebreaks = []int{groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank}
	default:
		ev.Category = HighCard
		ev.Tiebreaks = ranksDesc
	}

	return ev
}

// straightHighCard returns the high card of a straight formed by the
// five descending ranks, or 0 when they do not form one. The wheel
// (A-5-4-3-2) is the only accepted non-contiguous run; it scores its
// high card as 5, never 14.
func straightHighCard(ranksDesc []int) int {
	if ranksDesc[0] == int(deck.Ace) &&
		ranksDesc[1] == int(deck.Five) &&
		ranksDesc[2] == int(deck.Four) &&
		ranksDesc[3] == int(deck.Three) &&
		ranksDesc[4] == int(deck.Two) {
		return int(deck.Five)
	}
	for i := 1; i < 5; i++ {
		if ranksDesc[i] != ranksDesc[i-1]-1 {
			return 0
		}
	}
	return ranksDesc[0]
}
