package deck

import (
	"errors"
	"fmt"
	mrand "math/rand/v2"

	"github.com/cardroom/holdem/internal/randutil"
)

// ErrInsufficientCards is returned when a draw asks for more cards than
// the deck holds. A 10-seat hand consumes at most 25 cards, so hitting
// this mid-hand indicates a seating or dealing bug.
var ErrInsufficientCards = errors.New("deck: insufficient cards")

// Deck is an ordered sequence of the 52 unique cards with a draw cursor.
// A fresh deck is created for every hand; it is never reused across hands.
type Deck struct {
	cards [52]Card
	next  int
	rng   *mrand.Rand
}

// New creates a shuffled 52-card deck. The RNG is seeded from the OS
// CSPRNG so that the card order cannot be predicted by clients.
func New() *Deck {
	return NewWithRNG(randutil.NewCrypto())
}

// NewWithRNG creates a shuffled deck using the provided RNG. Tests use
// this with a fixed seed for reproducible deals.
func NewWithRNG(rng *mrand.Rand) *Deck {
	d := &Deck{rng: rng}
	i := 0
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(suit, rank)
			i++
		}
	}
	d.Shuffle()
	return d
}

// Shuffle rewinds the cursor and performs a Fisher-Yates shuffle over
// all 52 cards.
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top n cards.
func (d *Deck) Draw(n int) ([]Card, error) {
	if n < 0 || d.next+n > len(d.cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrInsufficientCards, n, len(d.cards)-d.next)
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards, nil
}

// Remaining returns the number of cards left to draw
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
