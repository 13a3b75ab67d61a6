package deck

import "testing"

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    Card
		wantErr bool
	}{
		{input: "As", want: Card{Suit: Spades, Rank: Ace}},
		{input: "Td", want: Card{Suit: Diamonds, Rank: Ten}},
		{input: "2c", want: Card{Suit: Clubs, Rank: Two}},
		{input: "kh", want: Card{Suit: Hearts, Rank: King}},
		{input: "9S", want: Card{Suit: Spades, Rank: Nine}},
		{input: "Xs", wantErr: true},
		{input: "Az", wantErr: true},
		{input: "A", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseCard(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCard(%q) expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCard(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCard(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCardStringRoundTrip(t *testing.T) {
	t.Parallel()
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			c := NewCard(suit, rank)
			parsed, err := ParseCard(c.String())
			if err != nil {
				t.Fatalf("ParseCard(%q): %v", c.String(), err)
			}
			if parsed != c {
				t.Errorf("round trip %v != %v", parsed, c)
			}
		}
	}
}

func TestRankOrdering(t *testing.T) {
	t.Parallel()
	if !(Two < Three && Ten < Jack && Jack < Queen && Queen < King && King < Ace) {
		t.Error("rank ordering broken")
	}
	if int(Ace) != 14 || int(Two) != 2 {
		t.Errorf("rank values shifted: Two=%d Ace=%d", Two, Ace)
	}
}
