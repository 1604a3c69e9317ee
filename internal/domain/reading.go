package domain

// CardReading pairs a revealed card with its position and interpretation.
type CardReading struct {
	Card           CardIdentity `json:"card"`
	Position       Position     `json:"position"`
	Interpretation Message      `json:"interpretation"`
}

// Reading is the read-only result of a completed spread.
type Reading struct {
	SpreadType   SpreadType    `json:"spread_type"`
	Title        Message       `json:"title"`
	CardReadings []CardReading `json:"card_readings"`
	Summary      Message       `json:"summary"`
	Advice       Message       `json:"advice"`
}

// interpretations maps a position to its interpretation template.
// Positions not listed fall back to "interpretation.default".
var interpretations = map[PositionKey]string{
	"past":    "interpretation.past",
	"present": "interpretation.present",
	"partner": "interpretation.partner",
	"future":  "interpretation.future",
}

// GenerateReading builds the templated reading for cards laid on t in
// position order. Only the provided (card, position) pairs are read; extra
// cards beyond the spread's positions are ignored.
func GenerateReading(t SpreadType, cards []CardIdentity) Reading {
	positions := PositionsFor(t)
	n := min(len(cards), len(positions))

	readings := make([]CardReading, n)
	for i := range n {
		pos := Position{Index: i, Key: positions[i]}
		readings[i] = CardReading{
			Card:           cards[i],
			Position:       pos,
			Interpretation: interpretationFor(cards[i], pos),
		}
	}

	prefix := "reading." + string(t)
	return Reading{
		SpreadType:   t,
		Title:        Msg(prefix + ".title"),
		CardReadings: readings,
		Summary:      Msg(prefix + ".summary"),
		Advice:       Msg(prefix + ".advice"),
	}
}

func interpretationFor(card CardIdentity, pos Position) Message {
	key, ok := interpretations[pos.Key]
	if !ok {
		key = "interpretation.default"
	}
	return Msg(key).
		With("card", card.Name()).
		With("position", pos.Label())
}
