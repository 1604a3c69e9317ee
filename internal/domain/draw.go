package domain

// DrawnCard is a card placed on a position. Revealed is the only mutable field.
type DrawnCard struct {
	Card     CardIdentity `json:"card"`
	Revealed bool         `json:"revealed"`
}

// DrawnSpread is one session's instance of a spread: positions and cards
// are the same length and paired by index.
type DrawnSpread struct {
	Definition SpreadDefinition
	Positions  []Position
	Cards      []DrawnCard
}

// DrawSpread draws CardCount(t) distinct cards from the full catalog,
// uniformly at random without replacement, all face down.
func DrawSpread(t SpreadType, rng RNG) (DrawnSpread, error) {
	def, err := Definition(t)
	if err != nil {
		return DrawnSpread{}, err
	}
	n := def.CardCount()

	// Fisher-Yates partial shuffle: only need first n elements.
	deck := AllCards()
	for i := range n {
		j := i + rng.Intn(len(deck)-i)
		deck[i], deck[j] = deck[j], deck[i]
	}

	positions := make([]Position, n)
	cards := make([]DrawnCard, n)
	for i, key := range def.Positions {
		positions[i] = Position{Index: i, Key: key}
		cards[i] = DrawnCard{Card: deck[i]}
	}

	return DrawnSpread{
		Definition: def,
		Positions:  positions,
		Cards:      cards,
	}, nil
}

// Type is a shorthand for the definition's spread type.
func (s DrawnSpread) Type() SpreadType {
	return s.Definition.Type
}

// RevealedCount counts the face-up cards.
func (s DrawnSpread) RevealedCount() int {
	n := 0
	for _, c := range s.Cards {
		if c.Revealed {
			n++
		}
	}
	return n
}

// RevealedCards returns the face-up cards in position order.
func (s DrawnSpread) RevealedCards() []CardIdentity {
	out := make([]CardIdentity, 0, len(s.Cards))
	for _, c := range s.Cards {
		if c.Revealed {
			out = append(out, c.Card)
		}
	}
	return out
}

// Clone returns a deep copy safe to hand to readers.
func (s DrawnSpread) Clone() DrawnSpread {
	out := DrawnSpread{Definition: s.Definition}
	out.Definition.Positions = append([]PositionKey(nil), s.Definition.Positions...)
	out.Positions = append([]Position(nil), s.Positions...)
	out.Cards = append([]DrawnCard(nil), s.Cards...)
	return out
}
