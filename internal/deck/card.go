package deck

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the single-letter suit code used on the wire
func (s Suit) String() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// Rank represents a card rank. Values run 2-14 so that ranks compare
// directly; Ace is high (14) except in the wheel straight.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		if r >= Two && r <= Nine {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Card represents a playing card. Immutable value type.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the compact representation used on the wire and in
// tests, e.g. "As", "Td", "9c".
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// MarshalJSON encodes the card in its compact wire form
func (c Card) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON decodes the compact wire form
func (c *Card) UnmarshalJSON(data []byte) error {
	if len(data) != 4 || data[0] != '"' || data[3] != '"' {
		return fmt.Errorf("invalid card JSON: %s", data)
	}
	parsed, err := ParseCard(string(data[1:3]))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses a compact card string like "As" or "td"
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}

	var rank Rank
	switch s[0] {
	case '2', '3', '4', '5', '6', '7', '8', '9':
		rank = Rank(s[0] - '0')
	case 'T', 't':
		rank = Ten
	case 'J', 'j':
		rank = Jack
	case 'Q', 'q':
		rank = Queen
	case 'K', 'k':
		rank = King
	case 'A', 'a':
		rank = Ace
	default:
		return Card{}, fmt.Errorf("invalid rank: %c", s[0])
	}

	var suit Suit
	switch s[1] {
	case 's', 'S':
		suit = Spades
	case 'h', 'H':
		suit = Hearts
	case 'd', 'D':
		suit = Diamonds
	case 'c', 'C':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit: %c", s[1])
	}

	return Card{Suit: suit, Rank: rank}, nil
}

// MustParseCards parses a list of compact card strings, panicking on
// malformed input. Test fixture helper.
func MustParseCards(strs ...string) []Card {
	cards := make([]Card, len(strs))
	for i, s := range strs {
		c, err := ParseCard(s)
		if err != nil {
			panic(err)
		}
		cards[i] = c
	}
	return cards
}
