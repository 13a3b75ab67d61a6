package deck

import (
	"errors"
	"testing"

	"github.com/cardroom/holdem/internal/randutil"
)

func TestDeckHas52UniqueCards(t *testing.T) {
	t.Parallel()
	d := NewWithRNG(randutil.New(1))

	seen := make(map[Card]bool)
	cards, err := d.Draw(52)
	if err != nil {
		t.Fatalf("Draw(52): %v", err)
	}
	for _, c := range cards {
		if seen[c] {
			t.Errorf("duplicate card %v", c)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Errorf("expected 52 unique cards, got %d", len(seen))
	}
}

func TestDrawExhaustion(t *testing.T) {
	t.Parallel()
	d := NewWithRNG(randutil.New(1))

	if _, err := d.Draw(50); err != nil {
		t.Fatalf("Draw(50): %v", err)
	}
	if d.Remaining() != 2 {
		t.Errorf("Remaining = %d, want 2", d.Remaining())
	}
	if _, err := d.Draw(3); !errors.Is(err, ErrInsufficientCards) {
		t.Errorf("expected ErrInsufficientCards, got %v", err)
	}
	// A failed draw must not consume cards
	if d.Remaining() != 2 {
		t.Errorf("failed draw consumed cards, remaining %d", d.Remaining())
	}
	if cards, err := d.Draw(2); err != nil || len(cards) != 2 {
		t.Errorf("Draw(2) after failed draw: %v %v", cards, err)
	}
}

func TestShuffleDeterministicWithSeed(t *testing.T) {
	t.Parallel()
	d1 := NewWithRNG(randutil.New(42))
	d2 := NewWithRNG(randutil.New(42))

	c1, _ := d1.Draw(52)
	c2, _ := d2.Draw(52)
	for i := range c1 {
		if c1[i] != c2[i] {
			t.Fatalf("same seed produced different order at %d: %v vs %v", i, c1[i], c2[i])
		}
	}

	d3 := NewWithRNG(randutil.New(43))
	c3, _ := d3.Draw(52)
	same := true
	for i := range c1 {
		if c1[i] != c3[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical order")
	}
}
