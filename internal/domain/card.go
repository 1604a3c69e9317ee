package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Arcana separates the two card families of the deck.
type Arcana string

const (
	ArcanaMajor Arcana = "major"
	ArcanaMinor Arcana = "minor"
)

// MajorArcana is one of the 22 trump cards, in traditional order.
type MajorArcana int

const (
	Fool MajorArcana = iota
	Magician
	HighPriestess
	Empress
	Emperor
	Hierophant
	Lovers
	Chariot
	Strength
	Hermit
	WheelOfFortune
	Justice
	HangedMan
	Death
	Temperance
	Devil
	Tower
	Star
	Moon
	Sun
	Judgement
	World
)

var majorIDs = [...]string{
	"fool", "magician", "high_priestess", "empress", "emperor", "hierophant",
	"lovers", "chariot", "strength", "hermit", "wheel_of_fortune", "justice",
	"hanged_man", "death", "temperance", "devil", "tower", "star", "moon",
	"sun", "judgement", "world",
}

// MajorArcanaCount is the number of trump cards.
const MajorArcanaCount = len(majorIDs)

// ID returns the stable identifier, e.g. "high_priestess".
func (m MajorArcana) ID() string {
	if m < 0 || int(m) >= len(majorIDs) {
		return "major_" + strconv.Itoa(int(m))
	}
	return majorIDs[m]
}

// Suit is a minor arcana suit.
type Suit string

const (
	SuitWands     Suit = "wands"
	SuitCups      Suit = "cups"
	SuitSwords    Suit = "swords"
	SuitPentacles Suit = "pentacles"
)

// Suits returns the suits in deck order.
func Suits() []Suit {
	return []Suit{SuitWands, SuitCups, SuitSwords, SuitPentacles}
}

// Rank is a minor arcana rank.
type Rank string

const (
	RankAce    Rank = "ace"
	RankTwo    Rank = "two"
	RankThree  Rank = "three"
	RankFour   Rank = "four"
	RankFive   Rank = "five"
	RankSix    Rank = "six"
	RankSeven  Rank = "seven"
	RankEight  Rank = "eight"
	RankNine   Rank = "nine"
	RankTen    Rank = "ten"
	RankPage   Rank = "page"
	RankKnight Rank = "knight"
	RankQueen  Rank = "queen"
	RankKing   Rank = "king"
)

// Ranks returns the ranks in deck order.
func Ranks() []Rank {
	return []Rank{
		RankAce, RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
		RankEight, RankNine, RankTen, RankPage, RankKnight, RankQueen, RankKing,
	}
}

// Category groups cards the way the deck is usually browsed.
type Category string

const (
	CategoryMajorArcana Category = "major_arcana"
	CategoryWands       Category = "wands"
	CategoryCups        Category = "cups"
	CategorySwords      Category = "swords"
	CategoryPentacles   Category = "pentacles"
)

// CardIdentity is a closed sum: either a major arcana card (Major is set)
// or a minor arcana card (Suit and Rank are set). Use Major and Minor to
// build one.
type CardIdentity struct {
	Arcana Arcana
	Major  MajorArcana
	Suit   Suit
	Rank   Rank
}

// Major builds a major arcana identity.
func Major(m MajorArcana) CardIdentity {
	return CardIdentity{Arcana: ArcanaMajor, Major: m}
}

// Minor builds a minor arcana identity.
func Minor(s Suit, r Rank) CardIdentity {
	return CardIdentity{Arcana: ArcanaMinor, Suit: s, Rank: r}
}

// ID returns the stable identifier: "fool" or "ace_of_wands".
func (c CardIdentity) ID() string {
	if c.Arcana == ArcanaMajor {
		return c.Major.ID()
	}
	return string(c.Rank) + "_of_" + string(c.Suit)
}

func (c CardIdentity) Category() Category {
	if c.Arcana == ArcanaMajor {
		return CategoryMajorArcana
	}
	return Category(c.Suit)
}

// ImageRef names the artwork asset for the card.
func (c CardIdentity) ImageRef() string {
	if c.Arcana == ArcanaMajor {
		return "tarot_card_" + strconv.Itoa(int(c.Major)+1)
	}
	return c.ID()
}

// Name is the localizable card name.
func (c CardIdentity) Name() Message {
	if c.Arcana == ArcanaMajor {
		return Msg("card." + c.Major.ID())
	}
	return Msg("card.minor").
		With("suit", Msg("suit."+string(c.Suit))).
		With("rank", Msg("rank."+string(c.Rank)))
}

func (c CardIdentity) String() string {
	return c.ID()
}

type cardJSON struct {
	ID       string   `json:"id"`
	Arcana   Arcana   `json:"arcana"`
	Category Category `json:"category"`
	Image    string   `json:"image"`
	Name     Message  `json:"name"`
}

func (c CardIdentity) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{
		ID:       c.ID(),
		Arcana:   c.Arcana,
		Category: c.Category(),
		Image:    c.ImageRef(),
		Name:     c.Name(),
	})
}

func (c *CardIdentity) UnmarshalJSON(b []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseCard(raw.ID)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

var (
	allCards = buildCatalog()
	cardByID = indexCatalog(allCards)
)

func buildCatalog() []CardIdentity {
	cards := make([]CardIdentity, 0, DeckSize)
	for m := range MajorArcanaCount {
		cards = append(cards, Major(MajorArcana(m)))
	}
	for _, s := range Suits() {
		for _, r := range Ranks() {
			cards = append(cards, Minor(s, r))
		}
	}
	return cards
}

func indexCatalog(cards []CardIdentity) map[string]CardIdentity {
	idx := make(map[string]CardIdentity, len(cards))
	for _, c := range cards {
		idx[c.ID()] = c
	}
	return idx
}

// DeckSize is the size of a full deck: 22 major and 4x14 minor cards.
const DeckSize = 78

// AllCards returns the full 78-card catalog in deck order.
// The returned slice is a copy.
func AllCards() []CardIdentity {
	out := make([]CardIdentity, len(allCards))
	copy(out, allCards)
	return out
}

// ParseCard looks a card up by its stable identifier.
func ParseCard(id string) (CardIdentity, error) {
	c, ok := cardByID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return CardIdentity{}, fmt.Errorf("%w: %q", ErrUnknownCard, id)
	}
	return c, nil
}
